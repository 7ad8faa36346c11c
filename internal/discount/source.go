package discount

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// fileSource implements Source for the local filesystem.
type fileSource struct {
	logger zerolog.Logger
}

// NewFileSource creates a Source reading from the local filesystem.
func NewFileSource(logger zerolog.Logger) Source {
	return &fileSource{
		logger: logger.With().Str("component", "discount-file-source").Logger(),
	}
}

// Open opens a local discount file for reading.
func (s *fileSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		s.logger.Error().Err(err).Str("file", name).Msg("failed to open discount file")
		return nil, fmt.Errorf("failed to open discount file %s: %w", name, err)
	}
	return file, nil
}
