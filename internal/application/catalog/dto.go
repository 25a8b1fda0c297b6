package catalog

import (
	"io"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/catalog"
)

// CategoryRequest creates or fully replaces a category
type CategoryRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Icon      string `json:"icon" binding:"max=50"`
	Color     string `json:"color" binding:"max=30"`
	SortOrder *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// SkillRequest creates or fully replaces a skill
type SkillRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required,min=1,max=100"`
	AgeGroup    string    `json:"age_group" binding:"required,oneof=U-7 U-8 U-9 U-10 U-11 U-12 U-13 U-14 U-15+"`
	Description string    `json:"description" binding:"max=2000"`
}

// ExerciseRequest creates or fully replaces an exercise. The first skill id
// becomes the primary skill.
type ExerciseRequest struct {
	Name        string      `json:"name" binding:"required,min=1,max=100"`
	VideoURL    string      `json:"video_url" binding:"omitempty,url,max=2048"`
	Difficulty  int         `json:"difficulty" binding:"required,min=1,max=5"`
	Description string      `json:"description" binding:"max=4000"`
	Equipment   []string    `json:"equipment" binding:"max=30,dive,max=100"`
	SkillIDs    []uuid.UUID `json:"skill_ids" binding:"required,min=1"`
}

func (r ExerciseRequest) toInput() catalog.ExerciseInput {
	return catalog.ExerciseInput{
		Name:        r.Name,
		VideoURL:    r.VideoURL,
		Difficulty:  r.Difficulty,
		Description: r.Description,
		Equipment:   r.Equipment,
		SkillIDs:    r.SkillIDs,
	}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SkillResponse represents a skill in API responses
type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	AgeGroup    string    `json:"age_group"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExerciseResponse represents an exercise in API responses
type ExerciseResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	VideoURL    string      `json:"video_url"`
	Difficulty  int         `json:"difficulty"`
	Description string      `json:"description"`
	Equipment   []string    `json:"equipment"`
	SkillID     uuid.UUID   `json:"skill_id"`
	SkillIDs    []uuid.UUID `json:"skill_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CategoryNodeResponse is a category with its skills in the tree view
type CategoryNodeResponse struct {
	CategoryResponse
	Skills []SkillNodeResponse `json:"skills"`
}

// SkillNodeResponse is a skill with its exercises in the tree view
type SkillNodeResponse struct {
	SkillResponse
	Exercises []ExerciseResponse `json:"exercises"`
}

// SnapshotResponse is the full flat catalog
type SnapshotResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Skills     []SkillResponse    `json:"skills"`
	Exercises  []ExerciseResponse `json:"exercises"`
}

// StatsResponse holds the counters shown in the dashboard header
type StatsResponse struct {
	Categories         int            `json:"categories"`
	Skills             int            `json:"skills"`
	Exercises          int            `json:"exercises"`
	ExercisesWithVideo int            `json:"exercises_with_video"`
	SkillsByAgeGroup   map[string]int `json:"skills_by_age_group"`
}

// DeleteResult reports the side effects of a cascading delete
type DeleteResult struct {
	DeletedSkillIDs    []uuid.UUID `json:"deleted_skill_ids"`
	DeletedExerciseIDs []uuid.UUID `json:"deleted_exercise_ids"`
	UpdatedExerciseIDs []uuid.UUID `json:"updated_exercise_ids"`
}

// PublicCatalog is the read model served to the marketing site
type PublicCatalog struct {
	Categories  []CategoryNodeResponse `json:"categories"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// UploadVideoRequest carries a video file streamed through the API
type UploadVideoRequest struct {
	ExerciseID  *uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PresignVideoRequest asks for a direct browser upload URL
type PresignVideoRequest struct {
	ExerciseID  *uuid.UUID `json:"exercise_id"`
	FileName    string     `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string     `json:"content_type" binding:"required"`
}

// DeleteVideoRequest identifies a stored video by public URL or storage key
type DeleteVideoRequest struct {
	URL string `json:"url" binding:"required"`
}

// VideoResponse describes a stored video
type VideoResponse struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

// PresignVideoResponse describes a pending direct upload
type PresignVideoResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	PublicURL  string    `json:"public_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToSkillResponse converts a domain skill
func ToSkillResponse(s *catalog.Skill) SkillResponse {
	return SkillResponse{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		AgeGroup:    s.AgeGroup.String(),
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToExerciseResponse converts a domain exercise. Slices are copied.
func ToExerciseResponse(e *catalog.Exercise) ExerciseResponse {
	equipment := slices.Clone(e.Equipment)
	if equipment == nil {
		equipment = []string{}
	}
	skillIDs := slices.Clone(e.SkillIDs)
	if skillIDs == nil {
		skillIDs = []uuid.UUID{}
	}
	return ExerciseResponse{
		ID:          e.ID,
		Name:        e.Name,
		VideoURL:    e.VideoURL,
		Difficulty:  e.Difficulty,
		Description: e.Description,
		Equipment:   equipment,
		SkillID:     e.SkillID,
		SkillIDs:    skillIDs,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToSkillResponses converts a list of skills
func ToSkillResponses(skills []catalog.Skill) []SkillResponse {
	out := make([]SkillResponse, len(skills))
	for i := range skills {
		out[i] = ToSkillResponse(&skills[i])
	}
	return out
}

// ToExerciseResponses converts a list of exercises
func ToExerciseResponses(exercises []catalog.Exercise) []ExerciseResponse {
	out := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		out[i] = ToExerciseResponse(&exercises[i])
	}
	return out
}

// ToTreeResponse converts the hierarchical view
func ToTreeResponse(nodes []catalog.CategoryNode) []CategoryNodeResponse {
	out := make([]CategoryNodeResponse, len(nodes))
	for i, n := range nodes {
		skills := make([]SkillNodeResponse, len(n.Skills))
		for j, sn := range n.Skills {
			skills[j] = SkillNodeResponse{
				SkillResponse: ToSkillResponse(&sn.Skill),
				Exercises:     ToExerciseResponses(sn.Exercises),
			}
		}
		out[i] = CategoryNodeResponse{
			CategoryResponse: ToCategoryResponse(&n.Category),
			Skills:           skills,
		}
	}
	return out
}
