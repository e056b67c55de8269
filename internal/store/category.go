package store

import (
	"context"
	"sort"
	"strings"

	"github.com/labstock/labstock/internal/model"
)

// CreateCategory registers a new category and provisions its empty relation
// in one atomic step. Names are unique case-insensitively.
func (s *Store) CreateCategory(ctx context.Context, name string, kind model.Kind) error {
	if !kind.IsValid() {
		return ValidationError{Field: "kind", Reason: "must be stock or antibody"}
	}
	key := strings.ToLower(name)
	err := s.update(ctx, func(st *state) error {
		if _, ok := st.categories[key]; ok {
			return ErrCategoryExists
		}
		st.categories[key] = &categoryState{info: model.Category{Name: name, Kind: kind}}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncCategoryCreated()
	s.logger.Info("category created", "category", name, "kind", string(kind))
	return nil
}

// Categories returns all registry entries ordered by name.
func (s *Store) Categories(ctx context.Context) []model.Category {
	var out []model.Category
	s.view(func(st *state) {
		for _, c := range st.categories {
			out = append(out, c.info)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Category returns the registry entry for name.
func (s *Store) Category(ctx context.Context, name string) (model.Category, error) {
	key := strings.ToLower(name)
	var (
		info  model.Category
		found bool
	)
	s.view(func(st *state) {
		if c, ok := st.categories[key]; ok {
			info = c.info
			found = true
		}
	})
	if !found {
		return model.Category{}, ErrCategoryNotFound
	}
	return info, nil
}

// DeleteCategory removes the registry entry and discards the category's
// relation together.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	key := strings.ToLower(name)
	err := s.update(ctx, func(st *state) error {
		if _, ok := st.categories[key]; !ok {
			return ErrCategoryNotFound
		}
		delete(st.categories, key)
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncCategoryDeleted()
	s.logger.Info("category deleted", "category", name)
	return nil
}
