package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/catalog"
	"gorm.io/datatypes"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);not null"`
	Icon      string `gorm:"type:varchar(50);not null;default:''"`
	Color     string `gorm:"type:varchar(50);not null;default:''"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Icon:       m.Icon,
		Color:      m.Color,
		SortOrder:  m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Icon = c.Icon
	m.Color = c.Color
	m.SortOrder = c.SortOrder
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// SkillModel is the persistence model for the Skill domain entity.
type SkillModel struct {
	BaseModel
	CategoryID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name        string           `gorm:"type:varchar(100);not null"`
	AgeGroup    catalog.AgeGroup `gorm:"type:varchar(10);not null"`
	Description string           `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (SkillModel) TableName() string {
	return "skills"
}

// ToDomain converts the persistence model to a domain Skill entity.
func (m *SkillModel) ToDomain() *catalog.Skill {
	return &catalog.Skill{
		BaseEntity:  m.BaseModel.ToDomain(),
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		AgeGroup:    m.AgeGroup,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Skill entity.
func (m *SkillModel) FromDomain(s *catalog.Skill) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.CategoryID = s.CategoryID
	m.Name = s.Name
	m.AgeGroup = s.AgeGroup
	m.Description = s.Description
}

// SkillModelFromDomain creates a new persistence model from a domain Skill entity.
func SkillModelFromDomain(s *catalog.Skill) *SkillModel {
	m := &SkillModel{}
	m.FromDomain(s)
	return m
}

// ExerciseModel is the persistence model for the Exercise domain entity.
// SkillID is the primary skill; the full set lives in exercise_skills.
type ExerciseModel struct {
	BaseModel
	Name        string         `gorm:"type:varchar(100);not null"`
	VideoURL    string         `gorm:"column:video_url;type:text;not null;default:''"`
	Difficulty  int            `gorm:"not null"`
	Description string         `gorm:"type:text;not null;default:''"`
	Equipment   datatypes.JSON `gorm:"type:jsonb"` // []string
	SkillID     uuid.UUID      `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ExerciseModel) TableName() string {
	return "exercises"
}

// ToDomain converts the persistence model to a domain Exercise entity.
// SkillIDs are not stored on the row and are left empty. Equipment that is
// not a JSON string array is an error.
func (m *ExerciseModel) ToDomain() (*catalog.Exercise, error) {
	equipment, err := decodeStrings(m.Equipment)
	if err != nil {
		return nil, fmt.Errorf("decode equipment of exercise %s: %w", m.ID, err)
	}
	return &catalog.Exercise{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		VideoURL:    m.VideoURL,
		Difficulty:  m.Difficulty,
		Description: m.Description,
		Equipment:   equipment,
		SkillID:     m.SkillID,
	}, nil
}

// FromDomain populates the persistence model from a domain Exercise entity.
func (m *ExerciseModel) FromDomain(e *catalog.Exercise) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Name = e.Name
	m.VideoURL = e.VideoURL
	m.Difficulty = e.Difficulty
	m.Description = e.Description
	m.Equipment = encodeStrings(e.Equipment)
	m.SkillID = e.SkillID
}

// ExerciseModelFromDomain creates a new persistence model from a domain Exercise entity.
func ExerciseModelFromDomain(e *catalog.Exercise) *ExerciseModel {
	m := &ExerciseModel{}
	m.FromDomain(e)
	return m
}

// ExerciseSkillModel is one row of the exercise to skill join table.
type ExerciseSkillModel struct {
	ExerciseID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SkillID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position   int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ExerciseSkillModel) TableName() string {
	return "exercise_skills"
}

// ToDomain converts the join row to a domain SkillLink.
func (m *ExerciseSkillModel) ToDomain() catalog.SkillLink {
	return catalog.SkillLink{
		ExerciseID: m.ExerciseID,
		SkillID:    m.SkillID,
		Position:   m.Position,
	}
}

// ExerciseSkillModels builds ordered join rows for one exercise.
func ExerciseSkillModels(exerciseID uuid.UUID, skillIDs []uuid.UUID) []ExerciseSkillModel {
	rows := make([]ExerciseSkillModel, len(skillIDs))
	for i, sid := range skillIDs {
		rows[i] = ExerciseSkillModel{ExerciseID: exerciseID, SkillID: sid, Position: i}
	}
	return rows
}

func encodeStrings(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}

func decodeStrings(raw datatypes.JSON) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
