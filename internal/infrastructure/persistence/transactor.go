package persistence

import (
	"context"

	"github.com/touchline/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactor implements catalog.Transactor on top of gorm transactions
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// NewCatalogRepositories binds the catalog repositories to db
func NewCatalogRepositories(db *gorm.DB) catalog.Repositories {
	return catalog.Repositories{
		Categories: NewGormCategoryRepository(db),
		Skills:     NewGormSkillRepository(db),
		Exercises:  NewGormExerciseRepository(db),
	}
}

// WithinTransaction runs fn with repositories bound to one transaction.
// A returned error or panic rolls the transaction back.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos catalog.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewCatalogRepositories(tx))
	})
}

// Ensure GormTransactor implements catalog.Transactor
var _ catalog.Transactor = (*GormTransactor)(nil)
