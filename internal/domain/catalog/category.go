package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/touchline/backend/internal/domain/shared"
)

// Category is a top-level grouping of skills, e.g. "Ball Mastery"
type Category struct {
	shared.BaseEntity
	Name      string
	Icon      string
	Color     string
	SortOrder int
}

// NewCategory creates a category with a generated ID
func NewCategory(name, icon, color string) (*Category, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Icon:       strings.TrimSpace(icon),
		Color:      strings.TrimSpace(color),
	}, nil
}

// Update replaces the category's display fields
func (c *Category) Update(name, icon, color string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	c.Name = name
	c.Icon = strings.TrimSpace(icon)
	c.Color = strings.TrimSpace(color)
	c.Touch()
	return nil
}

// SetSortOrder sets the display order of the category
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.Touch()
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
