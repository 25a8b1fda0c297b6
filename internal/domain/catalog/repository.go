package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository persists categories
type CategoryRepository interface {
	// FindAll returns every category ordered by sort order then name
	FindAll(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, category *Category) error
	// Update returns shared.ErrNotFound when the row does not exist
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SkillRepository persists skills
type SkillRepository interface {
	FindAll(ctx context.Context) ([]Skill, error)
	Create(ctx context.Context, skill *Skill) error
	Update(ctx context.Context, skill *Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// SkillLink is one row of the exercise to skill join table. Position keeps
// the order of an exercise's skills so the primary skill survives a reload.
type SkillLink struct {
	ExerciseID uuid.UUID
	SkillID    uuid.UUID
	Position   int
}

// ExerciseRepository persists exercises and their skill links
type ExerciseRepository interface {
	// FindAll returns exercise rows without SkillIDs; join them from FindAllSkillLinks
	FindAll(ctx context.Context) ([]Exercise, error)
	Create(ctx context.Context, exercise *Exercise) error
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error

	FindAllSkillLinks(ctx context.Context) ([]SkillLink, error)
	// ReplaceSkillLinks deletes the exercise's links and inserts skillIDs in order
	ReplaceSkillLinks(ctx context.Context, exerciseID uuid.UUID, skillIDs []uuid.UUID) error
	DeleteSkillLinksForSkills(ctx context.Context, skillIDs []uuid.UUID) error
}

// Repositories groups the catalog repositories bound to one unit of work
type Repositories struct {
	Categories CategoryRepository
	Skills     SkillRepository
	Exercises  ExerciseRepository
}

// Transactor runs fn with repositories bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// AttachSkillLinks sets SkillIDs and the primary SkillID of each exercise from
// the join rows. Links must be ordered by position within an exercise.
// Exercises without links keep empty SkillIDs.
func AttachSkillLinks(exercises []Exercise, links []SkillLink) []Exercise {
	byExercise := make(map[uuid.UUID][]uuid.UUID, len(exercises))
	for _, l := range links {
		byExercise[l.ExerciseID] = append(byExercise[l.ExerciseID], l.SkillID)
	}
	out := make([]Exercise, len(exercises))
	for i, e := range exercises {
		ids := uniqueIDs(byExercise[e.ID])
		e.SkillIDs = ids
		if len(ids) > 0 && !e.HasSkill(e.SkillID) {
			e.SkillID = ids[0]
		}
		out[i] = e
	}
	return out
}
