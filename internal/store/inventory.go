package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/labstock/labstock/internal/ident"
	"github.com/labstock/labstock/internal/model"
)

// StockDraft carries the caller-supplied fields of a new stock row.
type StockDraft struct {
	Item     string
	Notes    string
	Quantity float64
}

// AntibodyDraft carries the caller-supplied fields of a new antibody row.
type AntibodyDraft struct {
	Code      string
	Name      string
	Target    string
	Host      string
	Conjugate string
	Brand     string
	Aliquots  float64
	Vials     float64
}

// InsertStock writes one row into a stock-kind category. The row id is a
// 6-digit string generated collision-free within the category.
func (s *Store) InsertStock(ctx context.Context, category string, draft StockDraft, actor string) (model.StockItem, error) {
	key := strings.ToLower(category)
	var item model.StockItem
	err := s.update(ctx, func(st *state) error {
		c, ok := st.categories[key]
		if !ok {
			return ErrCategoryNotFound
		}
		if c.info.Kind != model.KindStock {
			return ValidationError{Field: "category", Reason: "not a stock category"}
		}
		id, err := ident.ItemID(func(candidate string) bool {
			for _, row := range c.stock {
				if row.ID == candidate {
					return true
				}
			}
			return false
		})
		if err != nil {
			return err
		}
		item = model.StockItem{
			ID:         id,
			Item:       draft.Item,
			Notes:      draft.Notes,
			Quantity:   draft.Quantity,
			ModifiedAt: s.now(),
			ModifiedBy: actor,
		}
		c.stock = append(c.stock, item)
		return nil
	})
	if err != nil {
		return model.StockItem{}, err
	}
	s.metrics.IncItemInserted(string(model.KindStock))
	return item, nil
}

// InsertAntibody writes one row into an antibody-kind category. The row id
// auto-increments per category.
func (s *Store) InsertAntibody(ctx context.Context, category string, draft AntibodyDraft, actor string) (model.AntibodyItem, error) {
	key := strings.ToLower(category)
	var item model.AntibodyItem
	err := s.update(ctx, func(st *state) error {
		c, ok := st.categories[key]
		if !ok {
			return ErrCategoryNotFound
		}
		if c.info.Kind != model.KindAntibody {
			return ValidationError{Field: "category", Reason: "not an antibody category"}
		}
		c.antibodySeq++
		item = model.AntibodyItem{
			ID:         c.antibodySeq,
			Code:       draft.Code,
			Name:       draft.Name,
			Target:     draft.Target,
			Host:       draft.Host,
			Conjugate:  draft.Conjugate,
			Brand:      draft.Brand,
			Aliquots:   draft.Aliquots,
			Vials:      draft.Vials,
			ModifiedAt: s.now(),
			ModifiedBy: actor,
		}
		c.antibody = append(c.antibody, item)
		return nil
	})
	if err != nil {
		return model.AntibodyItem{}, err
	}
	s.metrics.IncItemInserted(string(model.KindAntibody))
	return item, nil
}

// Items returns the category's kind and all of its rows in insertion order.
// Exactly one of the row slices is populated, matching the kind.
func (s *Store) Items(ctx context.Context, category string) (model.Kind, []model.StockItem, []model.AntibodyItem, error) {
	key := strings.ToLower(category)
	var (
		kind     model.Kind
		stock    []model.StockItem
		antibody []model.AntibodyItem
		found    bool
	)
	s.view(func(st *state) {
		c, ok := st.categories[key]
		if !ok {
			return
		}
		found = true
		kind = c.info.Kind
		stock = append([]model.StockItem(nil), c.stock...)
		antibody = append([]model.AntibodyItem(nil), c.antibody...)
	})
	if !found {
		return "", nil, nil, ErrCategoryNotFound
	}
	return kind, stock, antibody, nil
}

// DeleteItem removes exactly one row by id. A missing id is a no-op; a
// missing category is an error.
func (s *Store) DeleteItem(ctx context.Context, category, id string) error {
	key := strings.ToLower(category)
	removed := false
	err := s.update(ctx, func(st *state) error {
		c, ok := st.categories[key]
		if !ok {
			return ErrCategoryNotFound
		}
		switch c.info.Kind {
		case model.KindStock:
			for i, row := range c.stock {
				if row.ID == id {
					c.stock = append(c.stock[:i], c.stock[i+1:]...)
					removed = true
					break
				}
			}
		case model.KindAntibody:
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return nil // non-numeric id cannot exist in this relation
			}
			for i, row := range c.antibody {
				if row.ID == n {
					c.antibody = append(c.antibody[:i], c.antibody[i+1:]...)
					removed = true
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if removed {
		s.metrics.IncItemDeleted()
	}
	return nil
}

// Updatable columns per kind, keyed by the legacy column names the API and
// CSV exports use. Free-form column names are rejected.
var (
	stockColumns = map[string]func(*model.StockItem, string) error{
		"item":  func(r *model.StockItem, v string) error { r.Item = v; return nil },
		"infos": func(r *model.StockItem, v string) error { r.Notes = v; return nil },
		"quantidade": func(r *model.StockItem, v string) error {
			f, err := parseQuantity("quantidade", v)
			if err != nil {
				return err
			}
			r.Quantity = f
			return nil
		},
	}
	antibodyColumns = map[string]func(*model.AntibodyItem, string) error{
		"codigo":    func(r *model.AntibodyItem, v string) error { r.Code = v; return nil },
		"nome":      func(r *model.AntibodyItem, v string) error { r.Name = v; return nil },
		"alvo":      func(r *model.AntibodyItem, v string) error { r.Target = v; return nil },
		"host":      func(r *model.AntibodyItem, v string) error { r.Host = v; return nil },
		"conjugado": func(r *model.AntibodyItem, v string) error { r.Conjugate = v; return nil },
		"marca":     func(r *model.AntibodyItem, v string) error { r.Brand = v; return nil },
		"aliquotas": func(r *model.AntibodyItem, v string) error {
			f, err := parseQuantity("aliquotas", v)
			if err != nil {
				return err
			}
			r.Aliquots = f
			return nil
		},
		"vials": func(r *model.AntibodyItem, v string) error {
			f, err := parseQuantity("vials", v)
			if err != nil {
				return err
			}
			r.Vials = f
			return nil
		},
	}
)

func parseQuantity(field, v string) (float64, error) {
	if strings.TrimSpace(v) == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, ValidationError{Field: field, Reason: "not a number"}
	}
	return f, nil
}

// UpdateItem sets a single column of one row. The column name must be in the
// kind's allow-list.
func (s *Store) UpdateItem(ctx context.Context, category, id, column, value string) error {
	key := strings.ToLower(category)
	err := s.update(ctx, func(st *state) error {
		c, ok := st.categories[key]
		if !ok {
			return ErrCategoryNotFound
		}
		switch c.info.Kind {
		case model.KindStock:
			apply, ok := stockColumns[column]
			if !ok {
				return ValidationError{Field: "column", Reason: "not an updatable stock column"}
			}
			for i := range c.stock {
				if c.stock[i].ID == id {
					return apply(&c.stock[i], value)
				}
			}
		case model.KindAntibody:
			apply, ok := antibodyColumns[column]
			if !ok {
				return ValidationError{Field: "column", Reason: "not an updatable antibody column"}
			}
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return ErrItemNotFound
			}
			for i := range c.antibody {
				if c.antibody[i].ID == n {
					return apply(&c.antibody[i], value)
				}
			}
		}
		return ErrItemNotFound
	})
	if err != nil {
		return err
	}
	s.metrics.IncItemUpdated()
	return nil
}
