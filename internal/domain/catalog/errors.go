package catalog

import "github.com/touchline/backend/internal/domain/shared"

// Catalog validation errors
var (
	ErrInvalidName       = shared.NewDomainError("INVALID_NAME", "Name is required and cannot exceed 100 characters")
	ErrInvalidDifficulty = shared.NewDomainError("INVALID_DIFFICULTY", "Difficulty must be between 1 and 5")
	ErrNoSkills          = shared.NewDomainError("NO_SKILLS", "An exercise requires at least one skill")
	ErrInvalidCategory   = shared.NewDomainError("INVALID_CATEGORY", "Category does not exist")
	ErrInvalidSkill      = shared.NewDomainError("INVALID_SKILL", "Skill does not exist")
	ErrCategoryNotFound  = shared.NewDomainError("NOT_FOUND", "Category not found")
	ErrSkillNotFound     = shared.NewDomainError("NOT_FOUND", "Skill not found")
	ErrExerciseNotFound  = shared.NewDomainError("NOT_FOUND", "Exercise not found")
)

const (
	// MaxNameLength bounds category, skill and exercise names in runes
	MaxNameLength = 100
	MinDifficulty = 1
	MaxDifficulty = 5
)
