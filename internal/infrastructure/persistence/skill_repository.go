package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/catalog"
	"github.com/touchline/backend/internal/domain/shared"
	"github.com/touchline/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSkillRepository implements catalog.SkillRepository using GORM
type GormSkillRepository struct {
	db *gorm.DB
}

// NewGormSkillRepository creates a new GormSkillRepository
func NewGormSkillRepository(db *gorm.DB) *GormSkillRepository {
	return &GormSkillRepository{db: db}
}

// FindAll returns all skills ordered by name
func (r *GormSkillRepository) FindAll(ctx context.Context) ([]catalog.Skill, error) {
	var rows []models.SkillModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return skillsToDomain(rows), nil
}

// Create inserts a new skill
func (r *GormSkillRepository) Create(ctx context.Context, skill *catalog.Skill) error {
	return r.db.WithContext(ctx).Create(models.SkillModelFromDomain(skill)).Error
}

// Update writes every column of an existing skill
func (r *GormSkillRepository) Update(ctx context.Context, skill *catalog.Skill) error {
	result := r.db.WithContext(ctx).
		Model(&models.SkillModel{}).
		Where("id = ?", skill.ID).
		Updates(map[string]any{
			"category_id": skill.CategoryID,
			"name":        skill.Name,
			"age_group":   skill.AgeGroup,
			"description": skill.Description,
			"updated_at":  skill.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a skill by its ID
func (r *GormSkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SkillModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByIDs deletes every listed skill; missing ids are ignored
func (r *GormSkillRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.SkillModel{}, "id IN ?", ids).Error
}

func skillsToDomain(rows []models.SkillModel) []catalog.Skill {
	skills := make([]catalog.Skill, len(rows))
	for i := range rows {
		skills[i] = *rows[i].ToDomain()
	}
	return skills
}

// Ensure GormSkillRepository implements catalog.SkillRepository
var _ catalog.SkillRepository = (*GormSkillRepository)(nil)
