// Package service provides business logic for the application.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstock/labstock/internal/model"
	"github.com/labstock/labstock/internal/store"
)

// Category name validation: the name travels in URLs, object keys and
// export filenames, so it stays conservative.
var categoryNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// InventoryService handles category and item business logic.
type InventoryService struct {
	store *store.Store
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(st *store.Store) *InventoryService {
	return &InventoryService{store: st}
}

// CreateCategory registers a category and provisions its relation.
func (s *InventoryService) CreateCategory(ctx context.Context, name, kind string) error {
	if !categoryNameRegex.MatchString(name) {
		return store.ValidationError{Field: "name", Reason: "must be 1-64 letters, digits, _ or -"}
	}
	k, err := model.ParseKind(kind)
	if err != nil {
		return store.ValidationError{Field: "kind", Reason: "must be stock or antibody"}
	}
	return s.store.CreateCategory(ctx, name, k)
}

// ListCategories returns all categories ordered by name.
func (s *InventoryService) ListCategories(ctx context.Context) []model.Category {
	return s.store.Categories(ctx)
}

// DeleteCategory removes a category and its relation.
func (s *InventoryService) DeleteCategory(ctx context.Context, name string) error {
	return s.store.DeleteCategory(ctx, name)
}

// ItemInput carries the raw item fields of an insert request. Numeric
// fields arrive as strings: empty means zero, anything unparsable is a
// validation error.
type ItemInput struct {
	// stock fields
	Item     string
	Notes    string
	Quantity string

	// antibody fields
	Code      string
	Name      string
	Target    string
	Host      string
	Conjugate string
	Brand     string
	Aliquots  string
	Vials     string
}

// ItemList is the result of listing a category's rows.
type ItemList struct {
	Kind     model.Kind
	Stock    []model.StockItem
	Antibody []model.AntibodyItem
}

// ListItems returns the category's kind and rows.
func (s *InventoryService) ListItems(ctx context.Context, category string) (ItemList, error) {
	kind, stock, antibody, err := s.store.Items(ctx, category)
	if err != nil {
		return ItemList{}, err
	}
	return ItemList{Kind: kind, Stock: stock, Antibody: antibody}, nil
}

// InsertItem validates the input against the category's registered kind and
// writes one row. The actor is stamped as modified_by.
func (s *InventoryService) InsertItem(ctx context.Context, category string, input ItemInput, actor string) error {
	if actor == "" {
		actor = "unknown"
	}
	cat, err := s.store.Category(ctx, category)
	if err != nil {
		return err
	}

	switch cat.Kind {
	case model.KindStock:
		if strings.TrimSpace(input.Item) == "" {
			return store.ValidationError{Field: "item", Reason: "required"}
		}
		quantity, err := parseNumeric("quantity", input.Quantity)
		if err != nil {
			return err
		}
		_, err = s.store.InsertStock(ctx, category, store.StockDraft{
			Item:     input.Item,
			Notes:    input.Notes,
			Quantity: quantity,
		}, actor)
		return err
	case model.KindAntibody:
		if strings.TrimSpace(input.Code) == "" {
			return store.ValidationError{Field: "code", Reason: "required"}
		}
		if strings.TrimSpace(input.Name) == "" {
			return store.ValidationError{Field: "name", Reason: "required"}
		}
		aliquots, err := parseNumeric("aliquots", input.Aliquots)
		if err != nil {
			return err
		}
		vials, err := parseNumeric("vials", input.Vials)
		if err != nil {
			return err
		}
		_, err = s.store.InsertAntibody(ctx, category, store.AntibodyDraft{
			Code:      input.Code,
			Name:      input.Name,
			Target:    input.Target,
			Host:      input.Host,
			Conjugate: input.Conjugate,
			Brand:     input.Brand,
			Aliquots:  aliquots,
			Vials:     vials,
		}, actor)
		return err
	default:
		return fmt.Errorf("category %s has unknown kind %q", category, cat.Kind)
	}
}

// DeleteItem removes one row by id; missing ids are a no-op.
func (s *InventoryService) DeleteItem(ctx context.Context, category, id string) error {
	return s.store.DeleteItem(ctx, category, id)
}

// UpdateItem sets a single allow-listed column of one row.
func (s *InventoryService) UpdateItem(ctx context.Context, category, id, column, value string) error {
	return s.store.UpdateItem(ctx, category, id, column, value)
}

// parseNumeric converts a raw numeric field. Absent means zero; malformed
// input is rejected rather than silently defaulted.
func parseNumeric(field, raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, store.ValidationError{Field: field, Reason: "not a number"}
	}
	return f, nil
}
