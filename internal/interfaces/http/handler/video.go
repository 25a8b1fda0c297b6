package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"github.com/touchline/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// VideoHandler serves exercise video uploads
type VideoHandler struct {
	BaseHandler
	videoService   *catalogapp.VideoService
	catalogService *catalogapp.CatalogService
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videoService *catalogapp.VideoService, catalogService *catalogapp.CatalogService) *VideoHandler {
	return &VideoHandler{
		videoService:   videoService,
		catalogService: catalogService,
	}
}

// UploadVideoResponse is the result of a multipart upload. Exercise is set
// when the upload named an exercise and its video URL was updated.
type UploadVideoResponse struct {
	Video    *catalogapp.VideoResponse    `json:"video"`
	Exercise *catalogapp.ExerciseResponse `json:"exercise,omitempty"`
}

// Upload accepts a multipart form with a "file" part and an optional
// "exercise_id" field. With an exercise id the exercise's video URL is set to
// the stored object.
func (h *VideoHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	var exerciseID *uuid.UUID
	if raw := c.PostForm("exercise_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid exercise_id format")
			return
		}
		if _, err := h.catalogService.GetExercise(id); err != nil {
			h.HandleError(c, err)
			return
		}
		exerciseID = &id
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing video file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	video, err := h.videoService.Upload(ctx, catalogapp.UploadVideoRequest{
		ExerciseID:  exerciseID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := UploadVideoResponse{Video: video}
	if exerciseID != nil {
		exercise, previous, err := h.catalogService.SetExerciseVideo(ctx, *exerciseID, video.URL)
		if err != nil {
			if delErr := h.videoService.Delete(ctx, video.StorageKey); delErr != nil {
				logger.L(ctx, nil).Warn("Failed to remove video after exercise update failed",
					zap.String("key", video.StorageKey),
					zap.Error(delErr),
				)
			}
			h.HandleError(c, err)
			return
		}
		if previous != "" && previous != video.URL {
			h.removeReplacedVideo(ctx, previous)
		}
		resp.Exercise = exercise
	}
	h.Created(c, resp)
}

// removeReplacedVideo deletes the object an upload replaced. URLs outside the
// video bucket are left alone.
func (h *VideoHandler) removeReplacedVideo(ctx context.Context, previousURL string) {
	err := h.videoService.Delete(ctx, previousURL)
	if err == nil || errors.Is(err, catalogapp.ErrInvalidVideoURL) {
		return
	}
	logger.L(ctx, nil).Warn("Failed to remove replaced video",
		zap.String("url", previousURL),
		zap.Error(err),
	)
}

// Presign returns a presigned URL the dashboard uploads to directly
func (h *VideoHandler) Presign(c *gin.Context) {
	var req catalogapp.PresignVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.videoService.PresignUpload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a stored video. The URL comes from the "url" query
// parameter or a JSON body.
func (h *VideoHandler) Delete(c *gin.Context) {
	req := catalogapp.DeleteVideoRequest{URL: c.Query("url")}
	if req.URL == "" {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}
	if err := h.videoService.Delete(c.Request.Context(), req.URL); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
