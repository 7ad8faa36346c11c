package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gemkart/internal/config"

	"github.com/jackc/pgx/v5"
)

// Applies every .sql file under migrations/ in lexical order.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer conn.Close(ctx)

	files, err := os.ReadDir("migrations")
	if err != nil {
		log.Fatalf("Read migration directory: %v", err)
	}

	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := os.ReadFile(filepath.Join("migrations", name))
		if err != nil {
			log.Fatalf("Read migration %s: %v", name, err)
		}

		if _, err := conn.Exec(ctx, string(sql)); err != nil {
			log.Fatalf("Apply migration %s: %v", name, err)
		}

		log.Printf("Applied migration %s", name)
	}
}
