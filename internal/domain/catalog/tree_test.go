package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type treeFixture struct {
	categories []Category
	skills     []Skill
	exercises  []Exercise
}

func newTreeFixture() treeFixture {
	mastery := Category{BaseEntity: baseWithID(uuid.New()), Name: "Ball Mastery", SortOrder: 1}
	passing := Category{BaseEntity: baseWithID(uuid.New()), Name: "Passing", SortOrder: 0}
	shooting := Category{BaseEntity: baseWithID(uuid.New()), Name: "Shooting", SortOrder: 2}

	toeTaps := Skill{BaseEntity: baseWithID(uuid.New()), CategoryID: mastery.ID, Name: "Toe Taps", AgeGroup: AgeGroupU9}
	soleRolls := Skill{BaseEntity: baseWithID(uuid.New()), CategoryID: mastery.ID, Name: "Sole Rolls", AgeGroup: AgeGroupU7}
	wallPass := Skill{BaseEntity: baseWithID(uuid.New()), CategoryID: passing.ID, Name: "Wall Pass", AgeGroup: AgeGroupU12}

	return treeFixture{
		categories: []Category{mastery, passing, shooting},
		skills:     []Skill{toeTaps, soleRolls, wallPass},
		exercises: []Exercise{
			{BaseEntity: baseWithID(uuid.New()), Name: "Advanced Toe-Tap Combo", Difficulty: 4, SkillID: toeTaps.ID, SkillIDs: []uuid.UUID{toeTaps.ID}},
			{BaseEntity: baseWithID(uuid.New()), Name: "Basic Toe Taps", Difficulty: 1, SkillID: toeTaps.ID, SkillIDs: []uuid.UUID{toeTaps.ID, soleRolls.ID}},
			{BaseEntity: baseWithID(uuid.New()), Name: "Sole Roll", Difficulty: 1, SkillID: soleRolls.ID, SkillIDs: []uuid.UUID{soleRolls.ID}},
		},
	}
}

func TestBuildTree(t *testing.T) {
	f := newTreeFixture()

	t.Run("orders categories skills and exercises", func(t *testing.T) {
		tree := BuildTree(f.categories, f.skills, f.exercises, TreeFilter{})
		require.Len(t, tree, 3)
		assert.Equal(t, "Passing", tree[0].Category.Name)
		assert.Equal(t, "Ball Mastery", tree[1].Category.Name)
		assert.Equal(t, "Shooting", tree[2].Category.Name)
		assert.Empty(t, tree[2].Skills)

		mastery := tree[1]
		require.Len(t, mastery.Skills, 2)
		assert.Equal(t, "Sole Rolls", mastery.Skills[0].Skill.Name, "lower age band first")
		toeTaps := mastery.Skills[1]
		require.Len(t, toeTaps.Exercises, 2)
		assert.Equal(t, "Basic Toe Taps", toeTaps.Exercises[0].Name)
	})

	t.Run("shared exercise appears under each skill", func(t *testing.T) {
		tree := BuildTree(f.categories, f.skills, f.exercises, TreeFilter{})
		names := func(n SkillNode) []string {
			var out []string
			for _, e := range n.Exercises {
				out = append(out, e.Name)
			}
			return out
		}
		assert.Contains(t, names(tree[1].Skills[0]), "Basic Toe Taps")
		assert.Contains(t, names(tree[1].Skills[1]), "Basic Toe Taps")
	})

	t.Run("search keeps only matching branches", func(t *testing.T) {
		tree := BuildTree(f.categories, f.skills, f.exercises, TreeFilter{Search: "toe tap"})
		require.Len(t, tree, 1)
		assert.Equal(t, "Ball Mastery", tree[0].Category.Name)
		require.Len(t, tree[0].Skills, 2)
		// Sole Rolls survives through its shared exercise only
		assert.Equal(t, []string{"Basic Toe Taps"}, []string{tree[0].Skills[0].Exercises[0].Name})
		assert.Len(t, tree[0].Skills[0].Exercises, 1)
		// Toe Taps matches by name and keeps all exercises
		assert.Len(t, tree[0].Skills[1].Exercises, 2)
	})

	t.Run("matching category keeps all children", func(t *testing.T) {
		tree := BuildTree(f.categories, f.skills, f.exercises, TreeFilter{Search: "passing"})
		require.Len(t, tree, 1)
		assert.Len(t, tree[0].Skills, 1)
	})

	t.Run("age filter prunes skills", func(t *testing.T) {
		tree := BuildTree(f.categories, f.skills, f.exercises, TreeFilter{AgeGroup: AgeGroupU8})
		require.Len(t, tree, 3)
		assert.Empty(t, tree[0].Skills)
		require.Len(t, tree[1].Skills, 1)
		assert.Equal(t, "Sole Rolls", tree[1].Skills[0].Skill.Name)
	})
}
