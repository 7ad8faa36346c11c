package discount

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Importer bulk-loads discount code definitions from gzipped CSV files into
// the store. Files come from a Source (local filesystem or S3); each record
// is
//
//	code,kind,value,min_order_amount,max_uses,per_user_limit,starts_at,expires_at
//
// with empty fields meaning "unset" and timestamps in RFC 3339. Malformed
// records are skipped and counted, not fatal.
type Importer struct {
	repo   Repository
	source Source
	logger zerolog.Logger
}

// NewImporter creates a new bulk importer.
func NewImporter(repo Repository, source Source, logger zerolog.Logger) *Importer {
	return &Importer{
		repo:   repo,
		source: source,
		logger: logger.With().Str("component", "discount-importer").Logger(),
	}
}

// ImportAll imports every named file, returning the total number of codes
// upserted.
func (im *Importer) ImportAll(ctx context.Context, names []string) (int, error) {
	total := 0
	for _, name := range names {
		n, err := im.Import(ctx, name)
		if err != nil {
			return total, err
		}
		total += n
	}

	im.logger.Info().Int("codes_imported", total).Msg("discount import finished")

	return total, nil
}

// Import imports one file.
func (im *Importer) Import(ctx context.Context, name string) (int, error) {
	im.logger.Info().Str("file", name).Msg("importing discount codes")

	body, err := im.source.Open(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to open discount file %s: %w", name, err)
	}
	defer body.Close()

	gzipReader, err := gzip.NewReader(body)
	if err != nil {
		return 0, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
	}
	defer gzipReader.Close()

	reader := csv.NewReader(gzipReader)
	reader.FieldsPerRecord = 8
	reader.TrimLeadingSpace = true

	imported, skipped := 0, 0
	for {
		select {
		case <-ctx.Done():
			im.logger.Warn().Str("file", name).Msg("discount import cancelled")
			return imported, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			im.logger.Warn().Err(err).Str("file", name).Msg("skipping malformed discount record")
			continue
		}

		code, err := parseRecord(record)
		if err != nil {
			skipped++
			im.logger.Warn().Err(err).Str("file", name).Str("code", record[0]).Msg("skipping invalid discount record")
			continue
		}

		if err := im.repo.Upsert(ctx, code); err != nil {
			return imported, err
		}
		imported++
	}

	im.logger.Info().
		Str("file", name).
		Int("imported", imported).
		Int("skipped", skipped).
		Msg("discount file imported")

	return imported, nil
}

func parseRecord(record []string) (*model.DiscountCode, error) {
	if NormalizeCode(record[0]) == "" {
		return nil, fmt.Errorf("empty code")
	}

	kind := model.DiscountKind(record[1])
	if kind != model.DiscountPercentage && kind != model.DiscountFixed {
		return nil, fmt.Errorf("unknown discount kind %q", record[1])
	}

	value, err := decimal.NewFromString(record[2])
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}
	if value.IsNegative() {
		return nil, fmt.Errorf("negative value")
	}
	if kind == model.DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("percentage above 100")
	}

	code := &model.DiscountCode{
		ID:       uuid.New(),
		Code:     NormalizeCode(record[0]),
		Kind:     kind,
		Value:    value,
		IsActive: true,
	}

	if record[3] != "" {
		min, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("invalid min order amount: %w", err)
		}
		code.MinOrderAmount = &min
	}

	if record[4] != "" {
		maxUses, err := strconv.Atoi(record[4])
		if err != nil || maxUses < 1 {
			return nil, fmt.Errorf("invalid max uses %q", record[4])
		}
		code.MaxUses = &maxUses
	}

	if record[5] != "" {
		perUser, err := strconv.Atoi(record[5])
		if err != nil || perUser < 1 {
			return nil, fmt.Errorf("invalid per-user limit %q", record[5])
		}
		code.PerUserLimit = &perUser
	}

	if record[6] != "" {
		starts, err := time.Parse(time.RFC3339, record[6])
		if err != nil {
			return nil, fmt.Errorf("invalid starts_at: %w", err)
		}
		code.StartsAt = &starts
	}

	if record[7] != "" {
		expires, err := time.Parse(time.RFC3339, record[7])
		if err != nil {
			return nil, fmt.Errorf("invalid expires_at: %w", err)
		}
		code.ExpiresAt = &expires
	}

	return code, nil
}
