package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/catalog"
	"github.com/touchline/backend/internal/domain/shared"
)

var errInvalidID = shared.NewDomainError("INVALID_ID", "Invalid ID format")

// skillQuery holds the query parameters accepted by skill listings
type skillQuery struct {
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	AgeGroup   string `form:"age_group"`
	ExactAge   bool   `form:"exact_age"`
	Search     string `form:"search" binding:"max=200"`
}

// exerciseQuery holds the query parameters accepted by exercise listings
type exerciseQuery struct {
	SkillID       string `form:"skill_id" binding:"omitempty,uuid"`
	Search        string `form:"search" binding:"max=200"`
	MaxDifficulty int    `form:"max_difficulty" binding:"omitempty,min=1,max=5"`
}

// treeQuery holds the query parameters accepted by the tree view
type treeQuery struct {
	AgeGroup string `form:"age_group"`
	ExactAge bool   `form:"exact_age"`
	Search   string `form:"search" binding:"max=200"`
}

func bindSkillFilter(c *gin.Context) (catalog.SkillFilter, error) {
	var q skillQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return catalog.SkillFilter{}, err
	}
	f := catalog.SkillFilter{ExactAgeMatch: q.ExactAge, Search: q.Search}
	id, err := parseOptionalID(q.CategoryID)
	if err != nil {
		return catalog.SkillFilter{}, err
	}
	f.CategoryID = id
	if q.AgeGroup != "" {
		g, err := catalog.ParseAgeGroup(q.AgeGroup)
		if err != nil {
			return catalog.SkillFilter{}, err
		}
		f.AgeGroup = g
	}
	return f, nil
}

func bindExerciseFilter(c *gin.Context) (catalog.ExerciseFilter, error) {
	var q exerciseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return catalog.ExerciseFilter{}, err
	}
	f := catalog.ExerciseFilter{Search: q.Search, MaxDifficulty: q.MaxDifficulty}
	id, err := parseOptionalID(q.SkillID)
	if err != nil {
		return catalog.ExerciseFilter{}, err
	}
	f.SkillID = id
	return f, nil
}

// parseOptionalID parses an optional id query value; empty means unset
func parseOptionalID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errInvalidID
	}
	return &id, nil
}

func bindTreeFilter(c *gin.Context) (catalog.TreeFilter, error) {
	var q treeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return catalog.TreeFilter{}, err
	}
	f := catalog.TreeFilter{ExactAgeMatch: q.ExactAge, Search: q.Search}
	if q.AgeGroup != "" {
		g, err := catalog.ParseAgeGroup(q.AgeGroup)
		if err != nil {
			return catalog.TreeFilter{}, err
		}
		f.AgeGroup = g
	}
	return f, nil
}
