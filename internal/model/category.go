// Package model defines domain entities for the application.
package model

import "fmt"

// Kind discriminates the two item shapes a category can hold.
type Kind string

const (
	KindStock    Kind = "stock"
	KindAntibody Kind = "antibody"
)

// IsValid checks if the kind is one of the supported shapes.
func (k Kind) IsValid() bool {
	return k == KindStock || k == KindAntibody
}

// ParseKind converts a wire string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown category kind %q", s)
	}
	return k, nil
}

// Category is a user-defined named collection of inventory items.
// Names are unique case-insensitively; the kind never changes after creation.
type Category struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}
