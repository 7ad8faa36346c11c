package main

import (
	"compress/gzip"
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Emits a sample gzipped CSV in the discount importer's record format:
// code,kind,value,min_order_amount,max_uses,per_user_limit,starts_at,expires_at
func main() {
	dataDir := "data/discounts"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	nextMonth := time.Now().AddDate(0, 1, 0).Format(time.RFC3339)

	records := [][]string{
		{"save10", "percentage", "10", "500", "", "", "", ""},
		{"welcome15", "percentage", "15", "", "", "1", "", ""},
		{"flat200", "fixed", "200", "1000", "100", "", "", nextMonth},
		{"vipgold", "fixed", "500", "2500", "1", "1", "", ""},
	}

	path := filepath.Join(dataDir, "codes.csv.gz")
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	writer := csv.NewWriter(gz)
	if err := writer.WriteAll(records); err != nil {
		log.Fatalf("Failed to write records: %v", err)
	}

	log.Printf("Wrote %d sample discount codes to %s", len(records), path)
}
