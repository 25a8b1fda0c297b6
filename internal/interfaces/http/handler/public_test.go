package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
)

func TestPublicHandler_Catalog(t *testing.T) {
	s := newTestStack(t)
	cat := s.mustCreateCategory(t, "Passing")
	skill := s.mustCreateSkill(t, cat.ID.String(), "Short pass", "U-7")
	s.mustCreateExercise(t, "Gate passing", 1, skill.ID.String())

	req := httptest.NewRequest(http.MethodGet, "/public/catalog", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	var public catalogapp.PublicCatalog
	s.do(t, http.MethodGet, "/public/catalog", nil, &public)
	require.Len(t, public.Categories, 1)
	require.Len(t, public.Categories[0].Skills, 1)
	assert.Len(t, public.Categories[0].Skills[0].Exercises, 1)
	assert.False(t, public.GeneratedAt.IsZero())
}

func TestPublicHandler_Listings(t *testing.T) {
	s := newTestStack(t)
	cat := s.mustCreateCategory(t, "Defending")
	skill := s.mustCreateSkill(t, cat.ID.String(), "Jockeying", "U-9")
	s.mustCreateExercise(t, "Shadow defending", 3, skill.ID.String())

	var skills []catalogapp.SkillResponse
	code, _ := s.do(t, http.MethodGet, "/public/skills?age_group=u-9", nil, &skills)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, skills, 1)

	var exercises []catalogapp.ExerciseResponse
	code, _ = s.do(t, http.MethodGet, "/public/exercises?search=shadow", nil, &exercises)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, exercises, 1)
}
