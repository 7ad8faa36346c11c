package discount

import (
	"context"
	"time"

	"gemkart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// service implements Service.
type service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new discount preview service.
func NewService(repo Repository, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With().Str("service", "discount").Logger(),
	}
}

// Preview validates a raw code string against a cart subtotal. Rejections
// are expected user-facing outcomes and log at debug only.
func (s *service) Preview(ctx context.Context, rawCode string, subtotal decimal.Decimal) (*model.AppliedDiscount, error) {
	code, err := s.repo.GetByCode(ctx, NormalizeCode(rawCode))
	if err != nil {
		return nil, err
	}

	applied, err := Validate(code, subtotal, time.Now())
	if err != nil {
		s.logger.Debug().
			Str("code", NormalizeCode(rawCode)).
			Err(err).
			Msg("discount preview rejected")
		return nil, err
	}

	return applied, nil
}
