package catalog

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/shared"
)

// Exercise is a drill associated with one or more skills. SkillIDs is an
// ordered set; SkillID is the primary skill kept for single-skill consumers
// and is always an element of SkillIDs.
type Exercise struct {
	shared.BaseEntity
	Name        string
	VideoURL    string
	Difficulty  int
	Description string
	Equipment   []string
	SkillID     uuid.UUID
	SkillIDs    []uuid.UUID
}

// ExerciseInput carries the editable fields of an exercise
type ExerciseInput struct {
	Name        string
	VideoURL    string
	Difficulty  int
	Description string
	Equipment   []string
	SkillIDs    []uuid.UUID
}

// NewExercise creates an exercise. The first skill becomes the primary skill.
func NewExercise(input ExerciseInput) (*Exercise, error) {
	e := &Exercise{BaseEntity: shared.NewBaseEntity()}
	if err := e.apply(input); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces every editable field, including the full skill set
func (e *Exercise) Update(input ExerciseInput) error {
	if err := e.apply(input); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *Exercise) apply(input ExerciseInput) error {
	name, err := normalizeName(input.Name)
	if err != nil {
		return err
	}
	if input.Difficulty < MinDifficulty || input.Difficulty > MaxDifficulty {
		return ErrInvalidDifficulty
	}
	skillIDs := uniqueIDs(input.SkillIDs)
	if len(skillIDs) == 0 {
		return ErrNoSkills
	}
	e.Name = name
	e.VideoURL = strings.TrimSpace(input.VideoURL)
	e.Difficulty = input.Difficulty
	e.Description = strings.TrimSpace(input.Description)
	e.Equipment = NormalizeEquipment(input.Equipment)
	e.SkillIDs = skillIDs
	e.SkillID = skillIDs[0]
	return nil
}

// HasSkill reports whether the exercise is linked to skillID
func (e *Exercise) HasSkill(skillID uuid.UUID) bool {
	return slices.Contains(e.SkillIDs, skillID)
}

// RemoveSkills drops every id in removed from the skill set. When the primary
// skill is removed it moves to the first surviving id. If no skill would
// survive the exercise is left untouched and orphaned is true.
func (e *Exercise) RemoveSkills(removed map[uuid.UUID]struct{}) (orphaned bool) {
	survivors := make([]uuid.UUID, 0, len(e.SkillIDs))
	for _, id := range e.SkillIDs {
		if _, gone := removed[id]; !gone {
			survivors = append(survivors, id)
		}
	}
	if len(survivors) == 0 {
		return true
	}
	if len(survivors) == len(e.SkillIDs) {
		return false
	}
	e.SkillIDs = survivors
	if !slices.Contains(survivors, e.SkillID) {
		e.SkillID = survivors[0]
	}
	e.Touch()
	return false
}

// SetVideoURL attaches or clears the exercise video
func (e *Exercise) SetVideoURL(url string) {
	e.VideoURL = strings.TrimSpace(url)
	e.Touch()
}

// Clone returns a deep copy so callers cannot alias internal slices
func (e Exercise) Clone() Exercise {
	e.Equipment = slices.Clone(e.Equipment)
	e.SkillIDs = slices.Clone(e.SkillIDs)
	return e
}

// NormalizeEquipment trims entries and drops blanks and case-insensitive
// duplicates while keeping first-seen order.
func NormalizeEquipment(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
