package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/touchline/backend/internal/domain/shared"
)

func baseWithID(id uuid.UUID) shared.BaseEntity {
	b := shared.NewBaseEntity()
	b.ID = id
	return b
}

func TestNormalizeSearch(t *testing.T) {
	assert.Equal(t, []string{"toe", "tap"}, NormalizeSearch("  Toe \t  TAP "))
	assert.Empty(t, NormalizeSearch("   "))
}

func TestMatchesSearch(t *testing.T) {
	tokens := NormalizeSearch("toe tap")

	assert.True(t, MatchesSearch(tokens, "Advanced Toe-Tap Combo"))
	assert.False(t, MatchesSearch(tokens, "Sole Roll"))
	assert.False(t, MatchesSearch(tokens, "Toe Drag"), "every token must match")
	assert.True(t, MatchesSearch(tokens, "Toe Drag", "tap rhythm"), "tokens may match different fields")
	assert.True(t, MatchesSearch(nil, "anything"))
	assert.True(t, MatchesSearch(NormalizeSearch("STRASSE"), "Straße Dribble"), "full case folding")
}

func TestFilterSkills(t *testing.T) {
	ballMastery, passing := uuid.New(), uuid.New()
	skills := []Skill{
		{BaseEntity: baseWithID(uuid.New()), CategoryID: ballMastery, Name: "Toe Taps", AgeGroup: AgeGroupU7},
		{BaseEntity: baseWithID(uuid.New()), CategoryID: ballMastery, Name: "Sole Rolls", AgeGroup: AgeGroupU8},
		{BaseEntity: baseWithID(uuid.New()), CategoryID: ballMastery, Name: "Inside Cuts", AgeGroup: AgeGroupU9},
		{BaseEntity: baseWithID(uuid.New()), CategoryID: ballMastery, Name: "Elastico", AgeGroup: AgeGroupU12},
		{BaseEntity: baseWithID(uuid.New()), CategoryID: passing, Name: "Wall Pass", AgeGroup: AgeGroupU9, Description: "one touch"},
	}

	t.Run("cumulative age filter", func(t *testing.T) {
		got := FilterSkills(skills, SkillFilter{CategoryID: &ballMastery, AgeGroup: AgeGroupU9})
		var groups []AgeGroup
		for _, s := range got {
			groups = append(groups, s.AgeGroup)
		}
		assert.Equal(t, []AgeGroup{AgeGroupU7, AgeGroupU8, AgeGroupU9}, groups)
	})

	t.Run("exact age filter", func(t *testing.T) {
		got := FilterSkills(skills, SkillFilter{AgeGroup: AgeGroupU9, ExactAgeMatch: true})
		assert.Len(t, got, 2)
		for _, s := range got {
			assert.Equal(t, AgeGroupU9, s.AgeGroup)
		}
	})

	t.Run("search covers description", func(t *testing.T) {
		got := FilterSkills(skills, SkillFilter{Search: "ONE   touch"})
		assert.Len(t, got, 1)
		assert.Equal(t, "Wall Pass", got[0].Name)
	})

	t.Run("no filter returns all", func(t *testing.T) {
		assert.Len(t, FilterSkills(skills, SkillFilter{}), len(skills))
	})
}

func TestFilterExercises(t *testing.T) {
	s10, s20 := uuid.New(), uuid.New()
	exercises := []Exercise{
		{BaseEntity: baseWithID(uuid.New()), Name: "Advanced Toe-Tap Combo", Difficulty: 4, SkillID: s10, SkillIDs: []uuid.UUID{s10}},
		{BaseEntity: baseWithID(uuid.New()), Name: "Sole Roll", Difficulty: 1, SkillID: s20, SkillIDs: []uuid.UUID{s20, s10}},
		{BaseEntity: baseWithID(uuid.New()), Name: "Gate Dribble", Difficulty: 2, Equipment: []string{"Cones"}, SkillID: s20, SkillIDs: []uuid.UUID{s20}},
	}

	t.Run("skill filter matches secondary skills", func(t *testing.T) {
		got := FilterExercises(exercises, ExerciseFilter{SkillID: &s10})
		assert.Len(t, got, 2)
	})

	t.Run("tokenized search", func(t *testing.T) {
		got := FilterExercises(exercises, ExerciseFilter{Search: "toe tap"})
		assert.Len(t, got, 1)
		assert.Equal(t, "Advanced Toe-Tap Combo", got[0].Name)
	})

	t.Run("search covers equipment", func(t *testing.T) {
		got := FilterExercises(exercises, ExerciseFilter{Search: "cones"})
		assert.Len(t, got, 1)
		assert.Equal(t, "Gate Dribble", got[0].Name)
	})

	t.Run("difficulty cap", func(t *testing.T) {
		got := FilterExercises(exercises, ExerciseFilter{MaxDifficulty: 2})
		assert.Len(t, got, 2)
	})
}
