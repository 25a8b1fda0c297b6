package catalog

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// CategoryNode is a category with its skills in the hierarchical view
type CategoryNode struct {
	Category Category
	Skills   []SkillNode
}

// SkillNode is a skill with the exercises linked to it. An exercise linked to
// several skills appears under each of them.
type SkillNode struct {
	Skill     Skill
	Exercises []Exercise
}

// TreeFilter narrows the hierarchical view. With a search query a node
// survives when it matches or any descendant does; a matching node keeps all
// of its children.
type TreeFilter struct {
	AgeGroup      AgeGroup
	ExactAgeMatch bool
	Search        string
}

// BuildTree assembles the category > skill > exercise hierarchy.
// Categories are ordered by sort order then name, skills by age band then
// name, exercises by difficulty then name.
func BuildTree(categories []Category, skills []Skill, exercises []Exercise, f TreeFilter) []CategoryNode {
	tokens := NormalizeSearch(f.Search)
	ageFilter := SkillFilter{AgeGroup: f.AgeGroup, ExactAgeMatch: f.ExactAgeMatch}

	skillsByCategory := make(map[uuid.UUID][]Skill)
	for _, s := range skills {
		if !ageFilter.matches(s, nil) {
			continue
		}
		skillsByCategory[s.CategoryID] = append(skillsByCategory[s.CategoryID], s)
	}
	exercisesBySkill := make(map[uuid.UUID][]Exercise)
	for _, e := range exercises {
		for _, sid := range e.SkillIDs {
			exercisesBySkill[sid] = append(exercisesBySkill[sid], e)
		}
	}

	sortedCategories := slices.Clone(categories)
	slices.SortStableFunc(sortedCategories, func(a, b Category) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
	})

	nodes := make([]CategoryNode, 0, len(sortedCategories))
	for _, c := range sortedCategories {
		categoryHit := len(tokens) > 0 && MatchesSearch(tokens, c.Name)
		node := CategoryNode{Category: c, Skills: []SkillNode{}}
		for _, s := range sortSkills(skillsByCategory[c.ID]) {
			skillHit := categoryHit || MatchesSearch(tokens, s.Name, s.Description)
			sn := SkillNode{Skill: s, Exercises: []Exercise{}}
			for _, e := range sortExercises(exercisesBySkill[s.ID]) {
				if skillHit || MatchesSearch(tokens, exerciseSearchFields(e)...) {
					sn.Exercises = append(sn.Exercises, e.Clone())
				}
			}
			if skillHit || len(sn.Exercises) > 0 {
				node.Skills = append(node.Skills, sn)
			}
		}
		if len(tokens) == 0 || categoryHit || len(node.Skills) > 0 {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func sortSkills(skills []Skill) []Skill {
	out := slices.Clone(skills)
	slices.SortStableFunc(out, func(a, b Skill) int {
		return cmp.Or(cmp.Compare(a.AgeGroup.Ordinal(), b.AgeGroup.Ordinal()), cmp.Compare(a.Name, b.Name))
	})
	return out
}

func sortExercises(exercises []Exercise) []Exercise {
	out := slices.Clone(exercises)
	slices.SortStableFunc(out, func(a, b Exercise) int {
		return cmp.Or(cmp.Compare(a.Difficulty, b.Difficulty), cmp.Compare(a.Name, b.Name))
	})
	return out
}
