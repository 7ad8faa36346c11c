package cart

import (
	"context"
	"fmt"
	"time"

	"gemkart/internal/catalog"
	"gemkart/internal/database"
	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Resolutions accepted by ResolveConflict.
const (
	ResolutionReplace     = "replace"
	ResolutionAddSeparate = "add_separate"
)

// insertRetries bounds the retries of an add transaction that lost an
// insert race on the (user, product, variant) unique index.
const insertRetries = 3

// service implements Service.
type service struct {
	db      database.Beginner
	lines   LineRepository
	addons  AddonRepository
	catalog catalog.Catalog
	logger  zerolog.Logger
}

// NewService creates a new cart service.
func NewService(
	db database.Beginner,
	lines LineRepository,
	addons AddonRepository,
	cat catalog.Catalog,
	logger zerolog.Logger,
) Service {
	return &service{
		db:      db,
		lines:   lines,
		addons:  addons,
		catalog: cat,
		logger:  logger.With().Str("service", "cart").Logger(),
	}
}

// AddOrMerge adds a product to the user's cart. The existing-line check and
// the write happen under the same row locks, so a double-submission merges
// twice instead of losing an update.
func (s *service) AddOrMerge(ctx context.Context, userID string, productID int64, quantity int, options model.Options) (*model.CartLine, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var result *model.CartLine
	attempt := func() error {
		result = nil
		return database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
			existing, err := s.lines.ListForProductForUpdate(ctx, tx, userID, productID)
			if err != nil {
				return err
			}

			decision := DecideAdd(existing, quantity, options)
			switch decision.Action {
			case ActionInsert:
				line, err := s.insertLine(ctx, tx, userID, product, quantity, options, "")
				if err != nil {
					return err
				}
				result = line
				return nil

			case ActionMerge:
				if decision.MergedQuantity > product.Stock {
					return model.ErrInsufficientStock
				}
				// Merge keeps the newest option selection, not a union.
				if err := s.lines.Update(ctx, tx, decision.Target.ID, decision.MergedQuantity, options); err != nil {
					return err
				}
				merged := *decision.Target
				merged.Quantity = decision.MergedQuantity
				merged.Options = options
				result = &merged
				return nil

			default:
				return &model.CartConflictError{
					Existing: *decision.Target,
					Proposed: model.ProposedLine{ProductID: productID, Quantity: quantity, Options: options},
				}
			}
		})
	}

	// A first-time add has no row to lock, so two concurrent adds can both
	// take the insert path and the loser fails on the unique index. A
	// retry sees the committed row and merges or conflicts against it.
	err = attempt()
	for retry := 0; retry < insertRetries && database.IsUniqueViolation(err); retry++ {
		err = attempt()
	}
	if err != nil {
		if conflict, ok := err.(*model.CartConflictError); ok {
			s.logger.Debug().
				Str("user_id", userID).
				Int64("product_id", productID).
				Msg("add-to-cart conflict")
			return nil, conflict
		}
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Int64("product_id", productID).
		Int("quantity", result.Quantity).
		Msg("cart line added or merged")

	return result, nil
}

// ResolveConflict applies the user's explicit choice after a conflict.
func (s *service) ResolveConflict(ctx context.Context, userID string, productID int64, quantity int, options model.Options, resolution string) (*model.CartLine, error) {
	if resolution != ResolutionReplace && resolution != ResolutionAddSeparate {
		return nil, model.ErrInvalidResolution
	}
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, model.ErrInsufficientStock
	}

	var result *model.CartLine
	attempt := func() error {
		result = nil
		return database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
			existing, err := s.lines.ListForProductForUpdate(ctx, tx, userID, productID)
			if err != nil {
				return err
			}
			if len(existing) == 0 {
				// The conflicting line vanished in the meantime; a plain
				// insert honours the user's intent either way.
				line, err := s.insertLine(ctx, tx, userID, product, quantity, options, "")
				if err != nil {
					return err
				}
				result = line
				return nil
			}

			if resolution == ResolutionReplace {
				target := existing[0]
				for i := range existing {
					if existing[i].VariantHash == "" {
						target = existing[i]
						break
					}
				}
				if err := s.lines.Update(ctx, tx, target.ID, quantity, options); err != nil {
					return err
				}
				target.Quantity = quantity
				target.Options = options
				result = &target
				return nil
			}

			// Add separate: merge into the matching variant when one already
			// exists, otherwise create a line under the options hash so the
			// (user, product, variant) key stays unique.
			for i := range existing {
				if OptionsEqual(existing[i].Options, options) {
					merged := existing[i].Quantity + quantity
					if merged > product.Stock {
						return model.ErrInsufficientStock
					}
					if err := s.lines.Update(ctx, tx, existing[i].ID, merged, options); err != nil {
						return err
					}
					line := existing[i]
					line.Quantity = merged
					result = &line
					return nil
				}
			}

			line, err := s.insertLine(ctx, tx, userID, product, quantity, options, VariantHash(options))
			if err != nil {
				return err
			}
			result = line
			return nil
		})
	}

	// Concurrent resolutions of the same variant can race on the unique
	// index the same way first-time adds do; the retry merges into the
	// committed line.
	err = attempt()
	for retry := 0; retry < insertRetries && database.IsUniqueViolation(err); retry++ {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Int64("product_id", productID).
		Str("resolution", resolution).
		Msg("cart conflict resolved")

	return result, nil
}

// SetQuantity updates a line's quantity; below 1 the line is deleted so a
// zero or negative quantity is never persisted.
func (s *service) SetQuantity(ctx context.Context, userID string, lineID uuid.UUID, quantity int) error {
	line, err := s.lines.GetByID(ctx, userID, lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return model.ErrLineNotFound
	}

	if quantity < 1 {
		return s.deleteLine(ctx, lineID)
	}

	product, err := s.lookupProduct(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return model.ErrInsufficientStock
	}

	return database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return s.lines.Update(ctx, tx, lineID, quantity, line.Options)
	})
}

// Remove deletes a single line and its add-ons.
func (s *service) Remove(ctx context.Context, userID string, lineID uuid.UUID) error {
	line, err := s.lines.GetByID(ctx, userID, lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return model.ErrLineNotFound
	}

	return s.deleteLine(ctx, lineID)
}

// Clear empties the user's cart, add-ons included.
func (s *service) Clear(ctx context.Context, userID string) error {
	return database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.addons.DeleteForUser(ctx, tx, userID); err != nil {
			return err
		}
		return s.lines.DeleteByUser(ctx, tx, userID)
	})
}

// List returns the cart joined with live catalogue data. The summary is
// recomputed on every call; nothing is cached, so mutations can never leave
// a stale aggregate behind. Prices may lag the catalogue until checkout
// revalidation.
func (s *service) List(ctx context.Context, userID string) (*model.CartResponse, error) {
	lines, err := s.lines.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	lineIDs := make([]uuid.UUID, len(lines))
	productIDs := make([]int64, 0, len(lines))
	for i, l := range lines {
		lineIDs[i] = l.ID
		productIDs = append(productIDs, l.ProductID)
	}

	addons, err := s.addons.ListForLines(ctx, lineIDs)
	if err != nil {
		return nil, err
	}
	for _, group := range addons {
		for _, a := range group {
			productIDs = append(productIDs, a.AddonProductID)
		}
	}

	products, err := s.catalog.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	resp := &model.CartResponse{
		Items:   make([]model.CartView, 0, len(lines)),
		Summary: model.CartSummary{Subtotal: decimal.Zero},
	}

	for _, l := range lines {
		product, ok := products[l.ProductID]
		if !ok {
			// Product removed from the catalogue after it was carted;
			// skip it here, checkout will reject it explicitly.
			s.logger.Warn().
				Str("line_id", l.ID.String()).
				Int64("product_id", l.ProductID).
				Msg("cart line references missing product")
			continue
		}

		view := model.CartView{Line: l, Product: product}
		for _, a := range addons[l.ID] {
			addonProduct, ok := products[a.AddonProductID]
			if !ok {
				continue
			}
			av := model.AddonView{Line: a, Product: addonProduct}
			view.Addons = append(view.Addons, av)
			resp.Summary.ItemCount += a.Quantity
			resp.Summary.Subtotal = resp.Summary.Subtotal.Add(av.UnitPrice().Mul(decimal.NewFromInt(int64(a.Quantity))))
		}

		resp.Items = append(resp.Items, view)
		resp.Summary.ItemCount += l.Quantity
		resp.Summary.Subtotal = resp.Summary.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	return resp, nil
}

// AttachAddon attaches an add-on product to a cart line after checking the
// parent product actually offers it.
func (s *service) AttachAddon(ctx context.Context, userID string, lineID uuid.UUID, addonProductID int64, quantity int, options model.Options) (*model.AddonLine, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	line, err := s.lines.GetByID(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, model.ErrLineNotFound
	}

	parent, err := s.lookupProduct(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !parent.AllowsAddon(addonProductID) {
		return nil, model.ErrAddonNotAllowed
	}

	if _, err := s.lookupProduct(ctx, addonProductID); err != nil {
		return nil, err
	}

	addon := &model.AddonLine{
		ID:             uuid.New(),
		CartLineID:     lineID,
		AddonProductID: addonProductID,
		Quantity:       quantity,
		Options:        options,
		CreatedAt:      time.Now(),
	}

	if err := s.addons.Insert(ctx, addon); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("line_id", lineID.String()).
		Int64("addon_product_id", addonProductID).
		Msg("add-on attached")

	return addon, nil
}

// UpdateAddon applies a partial update to an add-on line.
func (s *service) UpdateAddon(ctx context.Context, userID string, addonID uuid.UUID, update model.AddonUpdate) (*model.AddonLine, error) {
	if update.Quantity != nil && *update.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	if _, err := s.ownedAddon(ctx, userID, addonID); err != nil {
		return nil, err
	}

	if err := s.addons.Update(ctx, addonID, update); err != nil {
		return nil, err
	}

	return s.addons.GetByID(ctx, addonID)
}

// DetachAddon removes a single add-on line.
func (s *service) DetachAddon(ctx context.Context, userID string, addonID uuid.UUID) error {
	if _, err := s.ownedAddon(ctx, userID, addonID); err != nil {
		return err
	}

	return s.addons.Delete(ctx, addonID)
}

func (s *service) lookupProduct(ctx context.Context, productID int64) (*model.Product, error) {
	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

func (s *service) insertLine(ctx context.Context, tx pgx.Tx, userID string, product *model.Product, quantity int, options model.Options, variantHash string) (*model.CartLine, error) {
	if quantity > product.Stock {
		return nil, model.ErrInsufficientStock
	}

	now := time.Now()
	line := &model.CartLine{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   product.ID,
		VariantHash: variantHash,
		Quantity:    quantity,
		Options:     options,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.lines.Insert(ctx, tx, line); err != nil {
		return nil, err
	}

	return line, nil
}

// deleteLine removes a line and its add-ons in one transaction so no
// orphaned add-on rows survive.
func (s *service) deleteLine(ctx context.Context, lineID uuid.UUID) error {
	return database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.addons.DeleteForLine(ctx, tx, lineID); err != nil {
			return err
		}
		return s.lines.Delete(ctx, tx, lineID)
	})
}

// ownedAddon resolves an add-on line and verifies the owning cart line
// belongs to the user.
func (s *service) ownedAddon(ctx context.Context, userID string, addonID uuid.UUID) (*model.AddonLine, error) {
	addon, err := s.addons.GetByID(ctx, addonID)
	if err != nil {
		return nil, err
	}
	if addon == nil {
		return nil, model.ErrAddonNotFound
	}

	line, err := s.lines.GetByID(ctx, userID, addon.CartLineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("add-on %s: %w", addonID, model.ErrAddonNotFound)
	}

	return addon, nil
}
