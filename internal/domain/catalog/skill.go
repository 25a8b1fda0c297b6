package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/shared"
)

// Skill is a named technique belonging to exactly one category and tagged
// with an age band.
type Skill struct {
	shared.BaseEntity
	CategoryID  uuid.UUID
	Name        string
	AgeGroup    AgeGroup
	Description string
}

// NewSkill creates a skill under the given category
func NewSkill(categoryID uuid.UUID, name string, ageGroup AgeGroup, description string) (*Skill, error) {
	s := &Skill{BaseEntity: shared.NewBaseEntity()}
	if err := s.apply(categoryID, name, ageGroup, description); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces every editable field. Moving a skill to another category
// is allowed.
func (s *Skill) Update(categoryID uuid.UUID, name string, ageGroup AgeGroup, description string) error {
	if err := s.apply(categoryID, name, ageGroup, description); err != nil {
		return err
	}
	s.Touch()
	return nil
}

func (s *Skill) apply(categoryID uuid.UUID, name string, ageGroup AgeGroup, description string) error {
	if categoryID == uuid.Nil {
		return ErrInvalidCategory
	}
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if !ageGroup.IsValid() {
		return ErrInvalidAgeGroup
	}
	s.CategoryID = categoryID
	s.Name = name
	s.AgeGroup = ageGroup
	s.Description = strings.TrimSpace(description)
	return nil
}
