package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// CatalogService owns the loaded catalog and every write to it. Reads are
// served from memory; writes go to the database inside one transaction and
// are mirrored in memory only after commit.
type CatalogService struct {
	repos   catalog.Repositories
	tx      catalog.Transactor
	cache   SnapshotCache
	metrics MetricsRecorder
	logger  *zap.Logger

	mu         sync.RWMutex
	loaded     bool
	categories []catalog.Category
	skills     []catalog.Skill
	exercises  []catalog.Exercise
	index      catalog.SkillIndex
	// generation is bumped under mu by Load and every committed write
	generation uint64
}

// ServiceOption configures a CatalogService
type ServiceOption func(*CatalogService)

// WithSnapshotCache sets the public catalog cache
func WithSnapshotCache(cache SnapshotCache) ServiceOption {
	return func(s *CatalogService) {
		s.cache = cache
	}
}

// WithMetrics sets the business metrics recorder
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *CatalogService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	repos catalog.Repositories,
	tx catalog.Transactor,
	logger *zap.Logger,
	opts ...ServiceOption,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CatalogService{
		repos:   repos,
		tx:      tx,
		metrics: noopMetrics{},
		logger:  logger.Named("catalog"),
		index:   catalog.SkillIndex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory catalog with the database contents. On failure
// the previous state is kept. Reads and writes wait until it finishes.
func (s *CatalogService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		categories []catalog.Category
		skills     []catalog.Skill
		exercises  []catalog.Exercise
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos catalog.Repositories) error {
		var err error
		if categories, err = repos.Categories.FindAll(ctx); err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		if skills, err = repos.Skills.FindAll(ctx); err != nil {
			return fmt.Errorf("load skills: %w", err)
		}
		rows, err := repos.Exercises.FindAll(ctx)
		if err != nil {
			return fmt.Errorf("load exercises: %w", err)
		}
		links, err := repos.Exercises.FindAllSkillLinks(ctx)
		if err != nil {
			return fmt.Errorf("load exercise skills: %w", err)
		}
		exercises = catalog.AttachSkillLinks(rows, links)
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		return err
	}

	s.categories = categories
	s.skills = skills
	s.exercises = exercises
	s.index = catalog.BuildSkillIndex(exercises)
	s.loaded = true
	s.generation++

	s.logger.Info("Catalog loaded",
		zap.Int("categories", len(categories)),
		zap.Int("skills", len(skills)),
		zap.Int("exercises", len(exercises)),
	)
	s.invalidateCache(ctx)
	return nil
}

// Loaded reports whether Load has succeeded at least once
func (s *CatalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *CatalogService) ensureLoaded(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}
	return s.Load(ctx)
}

// ============================================================================
// Categories
// ============================================================================

// AddCategory creates a category. Without an explicit sort order it is
// placed after the existing categories.
func (s *CatalogService) AddCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	category, err := catalog.NewCategory(req.Name, req.Icon, req.Color)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	} else {
		category.SortOrder = s.nextSortOrder()
	}
	if err := s.repos.Categories.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.String("name", category.Name), zap.Error(err))
		return nil, err
	}
	s.categories = append(s.categories, *category)

	s.afterWrite(ctx, "category", "create")
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// UpdateCategory replaces a category's fields
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(id)
	if i < 0 {
		return nil, catalog.ErrCategoryNotFound
	}
	category := s.categories[i]
	if err := category.Update(req.Name, req.Icon, req.Color); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if err := s.repos.Categories.Update(ctx, &category); err != nil {
		s.logger.Error("Failed to update category", zap.String("category_id", id.String()), zap.Error(err))
		return nil, err
	}
	s.categories[i] = category

	s.afterWrite(ctx, "category", "update")
	resp := ToCategoryResponse(&category)
	return &resp, nil
}

// DeleteCategory removes a category together with its skills. Exercises
// linked only to those skills are deleted; exercises with other skills lose
// the removed links and keep a surviving primary skill.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryIndex(id) < 0 {
		return nil, catalog.ErrCategoryNotFound
	}
	var skillIDs []uuid.UUID
	for _, sk := range s.skills {
		if sk.CategoryID == id {
			skillIDs = append(skillIDs, sk.ID)
		}
	}
	plan := s.planRemoval(skillIDs)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos catalog.Repositories) error {
		if err := applyRemovalPlan(ctx, repos, plan, skillIDs); err != nil {
			return err
		}
		if err := repos.Skills.DeleteByIDs(ctx, skillIDs); err != nil {
			return fmt.Errorf("delete skills: %w", err)
		}
		if err := repos.Categories.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to delete category",
			zap.String("category_id", id.String()),
			zap.Int("skills", len(skillIDs)),
			zap.Error(err),
		)
		return nil, err
	}

	s.mirrorRemoval(plan, skillIDs)
	s.categories = slices.DeleteFunc(s.categories, func(c catalog.Category) bool { return c.ID == id })

	s.logger.Info("Category deleted",
		zap.String("category_id", id.String()),
		zap.Int("skills_deleted", len(skillIDs)),
		zap.Int("exercises_deleted", len(plan.DeleteExerciseIDs)),
		zap.Int("exercises_updated", len(plan.UpdatedExercises)),
	)
	s.metrics.RecordOrphanedExercises(ctx, len(plan.DeleteExerciseIDs))
	s.afterWrite(ctx, "category", "delete")
	return newDeleteResult(skillIDs, plan), nil
}

// ============================================================================
// Skills
// ============================================================================

// AddSkill creates a skill under an existing category
func (s *CatalogService) AddSkill(ctx context.Context, req SkillRequest) (*SkillResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	ageGroup, err := catalog.ParseAgeGroup(req.AgeGroup)
	if err != nil {
		return nil, err
	}
	skill, err := catalog.NewSkill(req.CategoryID, req.Name, ageGroup, req.Description)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryIndex(req.CategoryID) < 0 {
		return nil, catalog.ErrInvalidCategory
	}
	if err := s.repos.Skills.Create(ctx, skill); err != nil {
		s.logger.Error("Failed to create skill",
			zap.String("category_id", req.CategoryID.String()),
			zap.String("name", skill.Name),
			zap.Error(err),
		)
		return nil, err
	}
	s.skills = append(s.skills, *skill)

	s.afterWrite(ctx, "skill", "create")
	resp := ToSkillResponse(skill)
	return &resp, nil
}

// UpdateSkill replaces a skill's fields. The target category must exist.
func (s *CatalogService) UpdateSkill(ctx context.Context, id uuid.UUID, req SkillRequest) (*SkillResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	ageGroup, err := catalog.ParseAgeGroup(req.AgeGroup)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.skillIndex(id)
	if i < 0 {
		return nil, catalog.ErrSkillNotFound
	}
	if s.categoryIndex(req.CategoryID) < 0 {
		return nil, catalog.ErrInvalidCategory
	}
	skill := s.skills[i]
	if err := skill.Update(req.CategoryID, req.Name, ageGroup, req.Description); err != nil {
		return nil, err
	}
	if err := s.repos.Skills.Update(ctx, &skill); err != nil {
		s.logger.Error("Failed to update skill", zap.String("skill_id", id.String()), zap.Error(err))
		return nil, err
	}
	s.skills[i] = skill

	s.afterWrite(ctx, "skill", "update")
	resp := ToSkillResponse(&skill)
	return &resp, nil
}

// DeleteSkill removes a skill. Exercises linked only to it are deleted;
// others lose the link.
func (s *CatalogService) DeleteSkill(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skillIndex(id) < 0 {
		return nil, catalog.ErrSkillNotFound
	}
	skillIDs := []uuid.UUID{id}
	plan := s.planRemoval(skillIDs)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos catalog.Repositories) error {
		if err := applyRemovalPlan(ctx, repos, plan, skillIDs); err != nil {
			return err
		}
		if err := repos.Skills.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete skill: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to delete skill", zap.String("skill_id", id.String()), zap.Error(err))
		return nil, err
	}

	s.mirrorRemoval(plan, skillIDs)

	s.logger.Info("Skill deleted",
		zap.String("skill_id", id.String()),
		zap.Int("exercises_deleted", len(plan.DeleteExerciseIDs)),
		zap.Int("exercises_updated", len(plan.UpdatedExercises)),
	)
	s.metrics.RecordOrphanedExercises(ctx, len(plan.DeleteExerciseIDs))
	s.afterWrite(ctx, "skill", "delete")
	return newDeleteResult(skillIDs, plan), nil
}

// ============================================================================
// Exercises
// ============================================================================

// AddExercise creates an exercise and its skill links. Every skill id must
// exist.
func (s *CatalogService) AddExercise(ctx context.Context, req ExerciseRequest) (*ExerciseResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	exercise, err := catalog.NewExercise(req.toInput())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSkills(exercise.SkillIDs); err != nil {
		return nil, err
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, repos catalog.Repositories) error {
		if err := repos.Exercises.Create(ctx, exercise); err != nil {
			return fmt.Errorf("create exercise: %w", err)
		}
		if err := repos.Exercises.ReplaceSkillLinks(ctx, exercise.ID, exercise.SkillIDs); err != nil {
			return fmt.Errorf("link exercise skills: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create exercise", zap.String("name", exercise.Name), zap.Error(err))
		return nil, err
	}
	s.exercises = append(s.exercises, *exercise)
	s.index.Add(*exercise)

	s.afterWrite(ctx, "exercise", "create")
	resp := ToExerciseResponse(exercise)
	return &resp, nil
}

// UpdateExercise replaces an exercise's fields and its whole skill set
func (s *CatalogService) UpdateExercise(ctx context.Context, id uuid.UUID, req ExerciseRequest) (*ExerciseResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.exerciseIndex(id)
	if i < 0 {
		return nil, catalog.ErrExerciseNotFound
	}
	previous := s.exercises[i]
	exercise := previous.Clone()
	if err := exercise.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.checkSkills(exercise.SkillIDs); err != nil {
		return nil, err
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos catalog.Repositories) error {
		if err := repos.Exercises.Update(ctx, &exercise); err != nil {
			return fmt.Errorf("update exercise: %w", err)
		}
		if err := repos.Exercises.ReplaceSkillLinks(ctx, exercise.ID, exercise.SkillIDs); err != nil {
			return fmt.Errorf("link exercise skills: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update exercise", zap.String("exercise_id", id.String()), zap.Error(err))
		return nil, err
	}
	s.index.Remove(previous)
	s.index.Add(exercise)
	s.exercises[i] = exercise

	s.afterWrite(ctx, "exercise", "update")
	resp := ToExerciseResponse(&exercise)
	return &resp, nil
}

// SetExerciseVideo attaches a video URL to an exercise. An empty url clears it.
// The URL it replaced is returned alongside the updated exercise.
func (s *CatalogService) SetExerciseVideo(ctx context.Context, id uuid.UUID, url string) (*ExerciseResponse, string, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.exerciseIndex(id)
	if i < 0 {
		return nil, "", catalog.ErrExerciseNotFound
	}
	previous := s.exercises[i].VideoURL
	exercise := s.exercises[i].Clone()
	exercise.SetVideoURL(url)
	if err := s.repos.Exercises.Update(ctx, &exercise); err != nil {
		s.logger.Error("Failed to set exercise video", zap.String("exercise_id", id.String()), zap.Error(err))
		return nil, "", err
	}
	s.exercises[i] = exercise

	s.afterWrite(ctx, "exercise", "update")
	resp := ToExerciseResponse(&exercise)
	return &resp, previous, nil
}

// DeleteExercise removes an exercise and its skill links
func (s *CatalogService) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.exerciseIndex(id)
	if i < 0 {
		return catalog.ErrExerciseNotFound
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos catalog.Repositories) error {
		return repos.Exercises.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("Failed to delete exercise", zap.String("exercise_id", id.String()), zap.Error(err))
		return err
	}
	s.index.Remove(s.exercises[i])
	s.exercises = slices.Delete(s.exercises, i, i+1)

	s.afterWrite(ctx, "exercise", "delete")
	return nil
}

// ============================================================================
// Queries
// ============================================================================

// Snapshot returns the flat catalog
func (s *CatalogService) Snapshot() SnapshotResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]CategoryResponse, len(s.categories))
	for i := range s.categories {
		categories[i] = ToCategoryResponse(&s.categories[i])
	}
	return SnapshotResponse{
		Categories: categories,
		Skills:     ToSkillResponses(s.skills),
		Exercises:  ToExerciseResponses(s.exercises),
	}
}

// GetSkillsForCategory returns the skills passing f, in catalog order
func (s *CatalogService) GetSkillsForCategory(f catalog.SkillFilter) []SkillResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ToSkillResponses(catalog.FilterSkills(s.skills, f))
}

// GetExercisesForSkill returns the exercises passing f, in catalog order
func (s *CatalogService) GetExercisesForSkill(f catalog.ExerciseFilter) []ExerciseResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ToExerciseResponses(catalog.FilterExercises(s.exercises, f))
}

// Tree returns the category > skill > exercise hierarchy
func (s *CatalogService) Tree(f catalog.TreeFilter) []CategoryNodeResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ToTreeResponse(catalog.BuildTree(s.categories, s.skills, s.exercises, f))
}

// GetCategory returns one category
func (s *CatalogService) GetCategory(id uuid.UUID) (*CategoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return nil, catalog.ErrCategoryNotFound
	}
	resp := ToCategoryResponse(&s.categories[i])
	return &resp, nil
}

// GetSkill returns one skill
func (s *CatalogService) GetSkill(id uuid.UUID) (*SkillResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.skillIndex(id)
	if i < 0 {
		return nil, catalog.ErrSkillNotFound
	}
	resp := ToSkillResponse(&s.skills[i])
	return &resp, nil
}

// GetExercise returns one exercise
func (s *CatalogService) GetExercise(id uuid.UUID) (*ExerciseResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.exerciseIndex(id)
	if i < 0 {
		return nil, catalog.ErrExerciseNotFound
	}
	resp := ToExerciseResponse(&s.exercises[i])
	return &resp, nil
}

// Stats returns the dashboard counters
func (s *CatalogService) Stats() StatsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StatsResponse{
		Categories:       len(s.categories),
		Skills:           len(s.skills),
		Exercises:        len(s.exercises),
		SkillsByAgeGroup: make(map[string]int, len(catalog.AllAgeGroups())),
	}
	for _, g := range catalog.AllAgeGroups() {
		stats.SkillsByAgeGroup[g.String()] = 0
	}
	for _, sk := range s.skills {
		stats.SkillsByAgeGroup[sk.AgeGroup.String()]++
	}
	for _, e := range s.exercises {
		if e.VideoURL != "" {
			stats.ExercisesWithVideo++
		}
	}
	return stats
}

// PublicCatalog returns the marketing site's read model. It is served from
// the snapshot cache when warm; cache failures never fail the read.
func (s *CatalogService) PublicCatalog(ctx context.Context) (*PublicCatalog, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Failed to read catalog cache", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	generation := s.generation
	public := &PublicCatalog{
		Categories:  ToTreeResponse(catalog.BuildTree(s.categories, s.skills, s.exercises, catalog.TreeFilter{})),
		GeneratedAt: time.Now().UTC(),
	}
	s.mu.RUnlock()

	if s.cache != nil {
		s.storePublic(ctx, public, generation)
	}
	return public, nil
}

// storePublic caches a snapshot built at generation unless a write has landed
// since. Writers invalidate while holding mu, so the read lock is held across
// Set to keep a stale snapshot from landing after an invalidation.
func (s *CatalogService) storePublic(ctx context.Context, public *PublicCatalog, generation uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.generation != generation {
		s.logger.Debug("Catalog changed while building public snapshot, not caching",
			zap.Uint64("built", generation),
			zap.Uint64("current", s.generation),
		)
		return
	}
	if err := s.cache.Set(ctx, public); err != nil {
		s.logger.Warn("Failed to store catalog cache", zap.Error(err))
	}
}

// ============================================================================
// Helpers (callers hold s.mu)
// ============================================================================

func (s *CatalogService) categoryIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.categories, func(c catalog.Category) bool { return c.ID == id })
}

func (s *CatalogService) skillIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.skills, func(sk catalog.Skill) bool { return sk.ID == id })
}

func (s *CatalogService) exerciseIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.exercises, func(e catalog.Exercise) bool { return e.ID == id })
}

func (s *CatalogService) nextSortOrder() int {
	next := 0
	for _, c := range s.categories {
		if c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	return next
}

func (s *CatalogService) checkSkills(ids []uuid.UUID) error {
	for _, id := range ids {
		if s.skillIndex(id) < 0 {
			return catalog.ErrInvalidSkill
		}
	}
	return nil
}

// planRemoval plans the orphan cleanup using only the indexed dependents of skillIDs
func (s *CatalogService) planRemoval(skillIDs []uuid.UUID) catalog.RemovalPlan {
	dependents := s.index.Dependents(skillIDs...)
	affected := make([]catalog.Exercise, 0, len(dependents))
	for _, id := range dependents {
		if i := s.exerciseIndex(id); i >= 0 {
			affected = append(affected, s.exercises[i])
		}
	}
	return catalog.PlanSkillRemoval(affected, skillIDs)
}

// applyRemovalPlan writes the exercise side of a skill removal. An empty plan
// means no exercise links to skillIDs, so nothing is written.
func applyRemovalPlan(ctx context.Context, repos catalog.Repositories, plan catalog.RemovalPlan, skillIDs []uuid.UUID) error {
	if plan.IsEmpty() {
		return nil
	}
	if err := repos.Exercises.DeleteByIDs(ctx, plan.DeleteExerciseIDs); err != nil {
		return fmt.Errorf("delete orphaned exercises: %w", err)
	}
	for i := range plan.UpdatedExercises {
		ex := &plan.UpdatedExercises[i]
		if err := repos.Exercises.Update(ctx, ex); err != nil {
			return fmt.Errorf("update exercise %s: %w", ex.ID, err)
		}
		if err := repos.Exercises.ReplaceSkillLinks(ctx, ex.ID, ex.SkillIDs); err != nil {
			return fmt.Errorf("relink exercise %s: %w", ex.ID, err)
		}
	}
	if err := repos.Exercises.DeleteSkillLinksForSkills(ctx, skillIDs); err != nil {
		return fmt.Errorf("delete skill links: %w", err)
	}
	return nil
}

// mirrorRemoval applies a committed skill removal to the in-memory state
func (s *CatalogService) mirrorRemoval(plan catalog.RemovalPlan, skillIDs []uuid.UUID) {
	deleted := make(map[uuid.UUID]struct{}, len(plan.DeleteExerciseIDs))
	for _, id := range plan.DeleteExerciseIDs {
		deleted[id] = struct{}{}
	}
	updated := make(map[uuid.UUID]catalog.Exercise, len(plan.UpdatedExercises))
	for _, ex := range plan.UpdatedExercises {
		updated[ex.ID] = ex
	}

	kept := s.exercises[:0]
	for _, ex := range s.exercises {
		if _, ok := deleted[ex.ID]; ok {
			s.index.Remove(ex)
			continue
		}
		if next, ok := updated[ex.ID]; ok {
			s.index.Remove(ex)
			s.index.Add(next)
			ex = next
		}
		kept = append(kept, ex)
	}
	clear(s.exercises[len(kept):])
	s.exercises = kept

	removed := make(map[uuid.UUID]struct{}, len(skillIDs))
	for _, id := range skillIDs {
		removed[id] = struct{}{}
	}
	s.skills = slices.DeleteFunc(s.skills, func(sk catalog.Skill) bool {
		_, ok := removed[sk.ID]
		return ok
	})
}

func (s *CatalogService) afterWrite(ctx context.Context, entity, action string) {
	s.generation++
	s.metrics.RecordMutation(ctx, entity, action)
	s.invalidateCache(ctx)
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}

func newDeleteResult(skillIDs []uuid.UUID, plan catalog.RemovalPlan) *DeleteResult {
	res := &DeleteResult{
		DeletedSkillIDs:    slices.Clone(skillIDs),
		DeletedExerciseIDs: slices.Clone(plan.DeleteExerciseIDs),
		UpdatedExerciseIDs: make([]uuid.UUID, 0, len(plan.UpdatedExercises)),
	}
	if res.DeletedSkillIDs == nil {
		res.DeletedSkillIDs = []uuid.UUID{}
	}
	if res.DeletedExerciseIDs == nil {
		res.DeletedExerciseIDs = []uuid.UUID{}
	}
	for _, ex := range plan.UpdatedExercises {
		res.UpdatedExerciseIDs = append(res.UpdatedExerciseIDs, ex.ID)
	}
	return res
}
