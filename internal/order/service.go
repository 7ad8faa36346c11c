package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gemkart/internal/cart"
	"gemkart/internal/catalog"
	"gemkart/internal/database"
	"gemkart/internal/discount"
	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// service implements Service.
type service struct {
	db        database.Beginner
	orders    Repository
	lines     cart.LineRepository
	addons    cart.AddonRepository
	discounts discount.Repository
	catalog   catalog.Catalog
	logger    zerolog.Logger
}

// NewService creates a new order compiler.
func NewService(
	db database.Beginner,
	orders Repository,
	lines cart.LineRepository,
	addons cart.AddonRepository,
	discounts discount.Repository,
	cat catalog.Catalog,
	logger zerolog.Logger,
) Service {
	return &service{
		db:        db,
		orders:    orders,
		lines:     lines,
		addons:    addons,
		discounts: discounts,
		catalog:   cat,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// generateOrderNumber produces the timestamp-derived draft order number.
// The unique index on orders.order_number is the real uniqueness guarantee;
// a collision fails the compile transaction and the cart survives for retry.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}

// Compile turns the user's cart into an immutable order.
func (s *service) Compile(ctx context.Context, userID string, req *model.CompileRequest) (*model.OrderResponse, error) {
	if err := validateCompileRequest(req); err != nil {
		return nil, err
	}

	var resp *model.OrderResponse
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		cartLines, err := s.lines.ListByUserForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(cartLines) == 0 {
			return errors.New("cart is empty")
		}

		lineIDs := make([]uuid.UUID, len(cartLines))
		for i, l := range cartLines {
			lineIDs[i] = l.ID
		}

		addonLines, err := s.addons.ListForLinesForUpdate(ctx, tx, lineIDs)
		if err != nil {
			return err
		}

		products, err := s.collectProducts(ctx, cartLines, addonLines)
		if err != nil {
			return err
		}

		subtotal, orderLines, err := s.priceCart(cartLines, addonLines, products)
		if err != nil {
			return err
		}

		discountAmount := decimal.Zero
		var appliedCode *model.DiscountCode
		if req.DiscountCode != nil && strings.TrimSpace(*req.DiscountCode) != "" {
			appliedCode, discountAmount, err = s.applyDiscount(ctx, tx, userID, *req.DiscountCode, subtotal)
			if err != nil {
				return err
			}
		}

		total := subtotal.Sub(discountAmount).Add(req.ShippingAmount).Add(req.TaxAmount)
		if total.IsNegative() {
			total = decimal.Zero
		}

		now := time.Now()
		order := &model.Order{
			ID:              uuid.New(),
			OrderNumber:     generateOrderNumber(),
			UserID:          userID,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			PaymentMethod:   req.PaymentMethod,
			Subtotal:        subtotal,
			DiscountAmount:  discountAmount,
			ShippingAmount:  req.ShippingAmount,
			TaxAmount:       req.TaxAmount,
			Total:           total,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Notes:           req.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if appliedCode != nil {
			order.DiscountCode = &appliedCode.Code
		}

		for i := range orderLines {
			orderLines[i].OrderID = order.ID
			orderLines[i].CreatedAt = now
		}

		if err := s.orders.InsertOrder(ctx, tx, order); err != nil {
			return err
		}
		if err := s.orders.InsertLines(ctx, tx, orderLines); err != nil {
			return err
		}

		if appliedCode != nil {
			consumed, err := s.discounts.ConsumeUse(ctx, tx, appliedCode.ID)
			if err != nil {
				return err
			}
			if !consumed {
				return &model.DiscountInvalidatedError{Cause: model.ErrUsageLimitReached}
			}

			usage := &model.DiscountUsage{
				ID:             uuid.New(),
				DiscountCodeID: appliedCode.ID,
				UserID:         userID,
				OrderID:        &order.ID,
				UsedAt:         now,
			}
			if err := s.discounts.InsertUsage(ctx, tx, usage); err != nil {
				return err
			}
		}

		if err := s.addons.DeleteForUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.lines.DeleteByUser(ctx, tx, userID); err != nil {
			return err
		}

		resp = &model.OrderResponse{Order: *order, Lines: orderLines}
		return nil
	})
	if err != nil {
		var invalidated *model.DiscountInvalidatedError
		if errors.As(err, &invalidated) {
			s.logger.Warn().
				Str("user_id", userID).
				Err(invalidated.Cause).
				Msg("discount invalidated during order compilation")
			return nil, invalidated
		}

		s.logger.Error().Err(err).Str("user_id", userID).Msg("order compilation failed")
		return nil, &model.OrderCompileError{Cause: err}
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("order_id", resp.Order.ID.String()).
		Str("order_number", resp.Order.OrderNumber).
		Str("total", resp.Order.Total.StringFixed(2)).
		Msg("order compiled")

	return resp, nil
}

// GetByID retrieves one of the user's orders with its lines.
func (s *service) GetByID(ctx context.Context, userID string, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, lines, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderResponse{Order: *order, Lines: lines}, nil
}

// ListByUser retrieves the user's order headers, newest first.
func (s *service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

func validateCompileRequest(req *model.CompileRequest) error {
	if req == nil {
		return &model.OrderCompileError{Cause: errors.New("compile request is nil")}
	}
	if req.ShippingAmount.IsNegative() {
		return &model.OrderCompileError{Cause: errors.New("shipping amount cannot be negative")}
	}
	if req.TaxAmount.IsNegative() {
		return &model.OrderCompileError{Cause: errors.New("tax amount cannot be negative")}
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return &model.OrderCompileError{Cause: errors.New("payment method is required")}
	}
	return nil
}

// collectProducts resolves every product referenced by the cart, failing
// when any has been removed from the catalogue since it was carted.
func (s *service) collectProducts(ctx context.Context, cartLines []model.CartLine, addonLines map[uuid.UUID][]model.AddonLine) (map[int64]model.Product, error) {
	ids := make([]int64, 0, len(cartLines))
	for _, l := range cartLines {
		ids = append(ids, l.ProductID)
	}
	for _, group := range addonLines {
		for _, a := range group {
			ids = append(ids, a.AddonProductID)
		}
	}

	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, fmt.Errorf("product %d: %w", id, model.ErrProductNotFound)
		}
	}

	return products, nil
}

// priceCart computes the subtotal at live catalogue prices and builds the
// write-once order lines, add-ons as sibling lines so every purchased unit
// lands in the immutable record.
func (s *service) priceCart(cartLines []model.CartLine, addonLines map[uuid.UUID][]model.AddonLine, products map[int64]model.Product) (decimal.Decimal, []model.OrderLine, error) {
	subtotal := decimal.Zero
	var orderLines []model.OrderLine

	for _, l := range cartLines {
		product := products[l.ProductID]
		if l.Quantity > product.Stock {
			return decimal.Zero, nil, fmt.Errorf("product %d: %w", l.ProductID, model.ErrInsufficientStock)
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		orderLines = append(orderLines, model.OrderLine{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  l.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
			Snapshot: model.ProductSnapshot{
				Name:     product.Name,
				Slug:     product.Slug,
				ImageURL: product.ImageURL,
			},
		})

		for _, a := range addonLines[l.ID] {
			addonProduct := products[a.AddonProductID]
			unitPrice := addonProduct.Price
			if a.PriceOverride != nil {
				unitPrice = *a.PriceOverride
			}

			addonTotal := unitPrice.Mul(decimal.NewFromInt(int64(a.Quantity)))
			subtotal = subtotal.Add(addonTotal)

			orderLines = append(orderLines, model.OrderLine{
				ID:        uuid.New(),
				ProductID: addonProduct.ID,
				Quantity:  a.Quantity,
				UnitPrice: unitPrice,
				LineTotal: addonTotal,
				IsAddon:   true,
				Snapshot: model.ProductSnapshot{
					Name:     addonProduct.Name,
					Slug:     addonProduct.Slug,
					ImageURL: addonProduct.ImageURL,
				},
			})
		}
	}

	return subtotal, orderLines, nil
}

// applyDiscount re-validates the code against the freshly computed subtotal
// under a row lock. A rejection here is DISCOUNT_NO_LONGER_VALID, distinct
// from preview failures, because it is a race the user could not anticipate.
func (s *service) applyDiscount(ctx context.Context, tx pgx.Tx, userID, rawCode string, subtotal decimal.Decimal) (*model.DiscountCode, decimal.Decimal, error) {
	code, err := s.discounts.GetByCodeForUpdate(ctx, tx, discount.NormalizeCode(rawCode))
	if err != nil {
		return nil, decimal.Zero, err
	}

	applied, err := discount.Validate(code, subtotal, time.Now())
	if err != nil {
		return nil, decimal.Zero, &model.DiscountInvalidatedError{Cause: err}
	}

	if code.PerUserLimit != nil {
		used, err := s.discounts.CountUsagesForUser(ctx, tx, code.ID, userID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if used >= *code.PerUserLimit {
			return nil, decimal.Zero, &model.DiscountInvalidatedError{Cause: model.ErrUsageLimitReached}
		}
	}

	return code, applied.DiscountAmount, nil
}
