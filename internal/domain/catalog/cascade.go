package catalog

import "github.com/google/uuid"

// RemovalPlan describes what happens to exercises when a set of skills is
// deleted. Exercises in neither list are unaffected.
type RemovalPlan struct {
	// DeleteExerciseIDs are exercises whose whole skill set is being removed
	DeleteExerciseIDs []uuid.UUID
	// UpdatedExercises keep at least one skill; their SkillIDs and primary
	// SkillID already reflect the removal
	UpdatedExercises []Exercise
}

// IsEmpty reports whether the plan touches no exercise
func (p RemovalPlan) IsEmpty() bool {
	return len(p.DeleteExerciseIDs) == 0 && len(p.UpdatedExercises) == 0
}

// PlanSkillRemoval computes the orphan cleanup for deleting removedSkillIDs.
// The input exercises are not modified; the result preserves input order.
func PlanSkillRemoval(exercises []Exercise, removedSkillIDs []uuid.UUID) RemovalPlan {
	removed := make(map[uuid.UUID]struct{}, len(removedSkillIDs))
	for _, id := range removedSkillIDs {
		removed[id] = struct{}{}
	}

	var plan RemovalPlan
	if len(removed) == 0 {
		return plan
	}
	for _, ex := range exercises {
		candidate := ex.Clone()
		before := len(candidate.SkillIDs)
		if candidate.RemoveSkills(removed) {
			plan.DeleteExerciseIDs = append(plan.DeleteExerciseIDs, ex.ID)
			continue
		}
		if len(candidate.SkillIDs) != before {
			plan.UpdatedExercises = append(plan.UpdatedExercises, candidate)
		}
	}
	return plan
}

// SkillIndex maps a skill id to the ids of exercises linked to it
type SkillIndex map[uuid.UUID][]uuid.UUID

// BuildSkillIndex indexes exercises by each of their skills
func BuildSkillIndex(exercises []Exercise) SkillIndex {
	idx := make(SkillIndex)
	for _, ex := range exercises {
		idx.Add(ex)
	}
	return idx
}

// Add registers ex under each of its skills
func (idx SkillIndex) Add(ex Exercise) {
	for _, sid := range ex.SkillIDs {
		idx[sid] = append(idx[sid], ex.ID)
	}
}

// Remove unregisters ex from every skill it is listed under
func (idx SkillIndex) Remove(ex Exercise) {
	for _, sid := range ex.SkillIDs {
		ids := idx[sid]
		for i, id := range ids {
			if id == ex.ID {
				ids = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(idx, sid)
		} else {
			idx[sid] = ids
		}
	}
}

// Dependents returns the distinct exercise ids linked to any of skillIDs,
// in first-seen order.
func (idx SkillIndex) Dependents(skillIDs ...uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, sid := range skillIDs {
		for _, eid := range idx[sid] {
			if _, ok := seen[eid]; ok {
				continue
			}
			seen[eid] = struct{}{}
			out = append(out, eid)
		}
	}
	return out
}
