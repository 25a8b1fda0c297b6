package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/touchline/backend/internal/domain/shared"
)

func TestParseOptionalID(t *testing.T) {
	t.Run("empty is unset", func(t *testing.T) {
		id, err := parseOptionalID("")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("canonical and urn forms parse", func(t *testing.T) {
		want := uuid.New()
		for _, raw := range []string{want.String(), "urn:uuid:" + want.String()} {
			id, err := parseOptionalID(raw)
			require.NoError(t, err, raw)
			require.NotNil(t, id)
			assert.Equal(t, want, *id)
		}
	})

	t.Run("malformed ids are a domain error", func(t *testing.T) {
		id, err := parseOptionalID("abc")
		assert.Nil(t, id)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ID", domainErr.Code)
	})
}

func TestBindFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newContext := func(target string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		return c
	}

	t.Run("skill filter carries the category", func(t *testing.T) {
		catID := uuid.New()
		f, err := bindSkillFilter(newContext("/skills?category_id=" + catID.String() + "&age_group=U-9"))
		require.NoError(t, err)
		require.NotNil(t, f.CategoryID)
		assert.Equal(t, catID, *f.CategoryID)
		assert.Equal(t, "U-9", f.AgeGroup.String())
	})

	t.Run("exercise filter without skill id", func(t *testing.T) {
		f, err := bindExerciseFilter(newContext("/exercises?max_difficulty=3"))
		require.NoError(t, err)
		assert.Nil(t, f.SkillID)
		assert.Equal(t, 3, f.MaxDifficulty)
	})

	t.Run("malformed skill id fails without panicking", func(t *testing.T) {
		assert.NotPanics(t, func() {
			_, err := bindExerciseFilter(newContext("/exercises?skill_id=not-a-uuid"))
			assert.Error(t, err)
		})
	})
}
