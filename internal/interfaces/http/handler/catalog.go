package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"github.com/touchline/backend/internal/domain/shared"
)

// CatalogHandler serves the admin dashboard's catalog endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// handleQueryError answers a failed query binding. Domain errors (an unknown
// age group) keep their code; validator failures list the fields.
func (h *CatalogHandler) handleQueryError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.HandleError(c, err)
		return
	}
	h.ValidationError(c, err)
}

// Reload refetches the whole catalog from the database
func (h *CatalogHandler) Reload(c *gin.Context) {
	if err := h.catalogService.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.catalogService.Stats())
}

// Snapshot returns the flat catalog
func (h *CatalogHandler) Snapshot(c *gin.Context) {
	h.Success(c, h.catalogService.Snapshot())
}

// Tree returns the category > skill > exercise hierarchy
func (h *CatalogHandler) Tree(c *gin.Context) {
	f, err := bindTreeFilter(c)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	h.Success(c, h.catalogService.Tree(f))
}

// Stats returns the dashboard header counters
func (h *CatalogHandler) Stats(c *gin.Context) {
	h.Success(c, h.catalogService.Stats())
}

// ListCategories returns all categories in display order
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	h.Success(c, h.catalogService.Snapshot().Categories)
}

// GetCategory returns one category
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	category, err := h.catalogService.GetCategory(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// CreateCategory adds a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalogapp.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	category, err := h.catalogService.AddCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// UpdateCategory replaces a category's fields
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	var req catalogapp.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory removes a category with its skills and orphaned exercises
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	result, err := h.catalogService.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListSkills returns skills filtered by category, age group and search
func (h *CatalogHandler) ListSkills(c *gin.Context) {
	f, err := bindSkillFilter(c)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	h.Success(c, h.catalogService.GetSkillsForCategory(f))
}

// GetSkill returns one skill
func (h *CatalogHandler) GetSkill(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	skill, err := h.catalogService.GetSkill(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, skill)
}

// CreateSkill adds a skill to an existing category
func (h *CatalogHandler) CreateSkill(c *gin.Context) {
	var req catalogapp.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	skill, err := h.catalogService.AddSkill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, skill)
}

// UpdateSkill replaces a skill's fields
func (h *CatalogHandler) UpdateSkill(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	var req catalogapp.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	skill, err := h.catalogService.UpdateSkill(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, skill)
}

// DeleteSkill removes a skill and its orphaned exercises
func (h *CatalogHandler) DeleteSkill(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	result, err := h.catalogService.DeleteSkill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListExercises returns exercises filtered by skill, difficulty and search
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	f, err := bindExerciseFilter(c)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	h.Success(c, h.catalogService.GetExercisesForSkill(f))
}

// GetExercise returns one exercise
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	exercise, err := h.catalogService.GetExercise(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exercise)
}

// CreateExercise adds an exercise linked to one or more skills
func (h *CatalogHandler) CreateExercise(c *gin.Context) {
	var req catalogapp.ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	exercise, err := h.catalogService.AddExercise(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, exercise)
}

// UpdateExercise replaces an exercise's fields and skill links
func (h *CatalogHandler) UpdateExercise(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	var req catalogapp.ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	exercise, err := h.catalogService.UpdateExercise(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exercise)
}

// DeleteExercise removes an exercise and its skill links
func (h *CatalogHandler) DeleteExercise(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteExercise(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
