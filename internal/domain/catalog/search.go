package catalog

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// NormalizeSearch folds case, collapses whitespace and splits the query into
// tokens. A blank query yields no tokens.
func NormalizeSearch(query string) []string {
	return strings.Fields(fold(query))
}

// MatchesSearch reports whether every token occurs as a substring of at least
// one of fields. No tokens matches everything.
func MatchesSearch(tokens []string, fields ...string) bool {
	if len(tokens) == 0 {
		return true
	}
	folded := make([]string, len(fields))
	for i, f := range fields {
		folded[i] = fold(f)
	}
	for _, tok := range tokens {
		found := false
		for _, f := range folded {
			if strings.Contains(f, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// fold applies full Unicode case folding. Casers keep state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// SkillFilter selects skills for the dashboard and public site
type SkillFilter struct {
	CategoryID    *uuid.UUID
	AgeGroup      AgeGroup
	ExactAgeMatch bool
	Search        string
}

// Matches reports whether s passes the filter. Search covers name and description.
func (f SkillFilter) Matches(s Skill) bool {
	return f.matches(s, NormalizeSearch(f.Search))
}

func (f SkillFilter) matches(s Skill, tokens []string) bool {
	if f.CategoryID != nil && s.CategoryID != *f.CategoryID {
		return false
	}
	if f.AgeGroup != "" && !s.AgeGroup.IncludedIn(f.AgeGroup, f.ExactAgeMatch) {
		return false
	}
	return MatchesSearch(tokens, s.Name, s.Description)
}

// FilterSkills returns the skills passing the filter, preserving input order
func FilterSkills(skills []Skill, f SkillFilter) []Skill {
	tokens := NormalizeSearch(f.Search)
	out := make([]Skill, 0, len(skills))
	for _, s := range skills {
		if f.matches(s, tokens) {
			out = append(out, s)
		}
	}
	return out
}

// ExerciseFilter selects exercises. SkillID matches any linked skill, not only
// the primary one. MaxDifficulty of zero disables the difficulty cap.
type ExerciseFilter struct {
	SkillID       *uuid.UUID
	Search        string
	MaxDifficulty int
}

// Matches reports whether e passes the filter. Search covers name,
// description and equipment.
func (f ExerciseFilter) Matches(e Exercise) bool {
	return f.matches(e, NormalizeSearch(f.Search))
}

func (f ExerciseFilter) matches(e Exercise, tokens []string) bool {
	if f.SkillID != nil && !e.HasSkill(*f.SkillID) {
		return false
	}
	if f.MaxDifficulty > 0 && e.Difficulty > f.MaxDifficulty {
		return false
	}
	return MatchesSearch(tokens, exerciseSearchFields(e)...)
}

// FilterExercises returns the exercises passing the filter, preserving input order
func FilterExercises(exercises []Exercise, f ExerciseFilter) []Exercise {
	tokens := NormalizeSearch(f.Search)
	out := make([]Exercise, 0, len(exercises))
	for _, e := range exercises {
		if f.matches(e, tokens) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func exerciseSearchFields(e Exercise) []string {
	fields := make([]string, 0, 2+len(e.Equipment))
	fields = append(fields, e.Name, e.Description)
	return append(fields, e.Equipment...)
}
