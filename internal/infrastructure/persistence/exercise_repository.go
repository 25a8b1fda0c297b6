package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/catalog"
	"github.com/touchline/backend/internal/domain/shared"
	"github.com/touchline/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExerciseRepository implements catalog.ExerciseRepository using GORM.
// It owns both the exercises table and the exercise_skills join table.
type GormExerciseRepository struct {
	db *gorm.DB
}

// NewGormExerciseRepository creates a new GormExerciseRepository
func NewGormExerciseRepository(db *gorm.DB) *GormExerciseRepository {
	return &GormExerciseRepository{db: db}
}

// FindAll returns all exercise rows ordered by name, without skill links
func (r *GormExerciseRepository) FindAll(ctx context.Context) ([]catalog.Exercise, error) {
	var rows []models.ExerciseModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	exercises := make([]catalog.Exercise, len(rows))
	for i := range rows {
		ex, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		exercises[i] = *ex
	}
	return exercises, nil
}

// Create inserts the exercise row only; links are written with ReplaceSkillLinks
func (r *GormExerciseRepository) Create(ctx context.Context, exercise *catalog.Exercise) error {
	return r.db.WithContext(ctx).Create(models.ExerciseModelFromDomain(exercise)).Error
}

// Update writes every column of an existing exercise row
func (r *GormExerciseRepository) Update(ctx context.Context, exercise *catalog.Exercise) error {
	model := models.ExerciseModelFromDomain(exercise)
	result := r.db.WithContext(ctx).
		Model(&models.ExerciseModel{}).
		Where("id = ?", exercise.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"video_url":   model.VideoURL,
			"difficulty":  model.Difficulty,
			"description": model.Description,
			"equipment":   model.Equipment,
			"skill_id":    model.SkillID,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an exercise and its links
func (r *GormExerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.ExerciseSkillModel{}, "exercise_id = ?", id).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.ExerciseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByIDs removes the listed exercises and their links; missing ids are ignored
func (r *GormExerciseRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Delete(&models.ExerciseSkillModel{}, "exercise_id IN ?", ids).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.ExerciseModel{}, "id IN ?", ids).Error
}

// FindAllSkillLinks returns every join row ordered by exercise then position
func (r *GormExerciseRepository) FindAllSkillLinks(ctx context.Context) ([]catalog.SkillLink, error) {
	var rows []models.ExerciseSkillModel
	if err := r.db.WithContext(ctx).
		Order("exercise_id ASC, position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return linksToDomain(rows), nil
}

// ReplaceSkillLinks deletes the exercise's join rows and inserts skillIDs in order
func (r *GormExerciseRepository) ReplaceSkillLinks(ctx context.Context, exerciseID uuid.UUID, skillIDs []uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.ExerciseSkillModel{}, "exercise_id = ?", exerciseID).Error; err != nil {
		return err
	}
	if len(skillIDs) == 0 {
		return nil
	}
	rows := models.ExerciseSkillModels(exerciseID, skillIDs)
	return r.db.WithContext(ctx).Create(&rows).Error
}

// DeleteSkillLinksForSkills removes every join row pointing at any of skillIDs
func (r *GormExerciseRepository) DeleteSkillLinksForSkills(ctx context.Context, skillIDs []uuid.UUID) error {
	if len(skillIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&models.ExerciseSkillModel{}, "skill_id IN ?", skillIDs).Error
}

func linksToDomain(rows []models.ExerciseSkillModel) []catalog.SkillLink {
	links := make([]catalog.SkillLink, len(rows))
	for i := range rows {
		links[i] = rows[i].ToDomain()
	}
	return links
}

// Ensure GormExerciseRepository implements catalog.ExerciseRepository
var _ catalog.ExerciseRepository = (*GormExerciseRepository)(nil)
