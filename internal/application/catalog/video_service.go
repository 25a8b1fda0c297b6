package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/touchline/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Video errors
var (
	ErrInvalidContentType = shared.NewDomainError("INVALID_CONTENT_TYPE", "Only video files can be uploaded")
	ErrFileTooLarge       = shared.NewDomainError("FILE_TOO_LARGE", "Video file exceeds the maximum allowed size")
	ErrInvalidVideoURL    = shared.NewDomainError("INVALID_VIDEO_URL", "URL does not point to the video bucket")
	ErrEmptyFile          = shared.NewDomainError("EMPTY_FILE", "Video file is empty")
)

// videoExtensions maps video content types to file extensions used when the
// uploaded file name has none
var videoExtensions = map[string]string{
	"video/mp4":        "mp4",
	"video/webm":       "webm",
	"video/quicktime":  "mov",
	"video/ogg":        "ogv",
	"video/mpeg":       "mpeg",
	"video/x-matroska": "mkv",
	"video/x-msvideo":  "avi",
	"video/3gpp":       "3gp",
}

// VideoServiceConfig holds configuration for the video service
type VideoServiceConfig struct {
	// MaxSize is the largest accepted upload in bytes; zero disables the check
	MaxSize int64
}

// VideoService stores exercise videos in object storage
type VideoService struct {
	storage ObjectStorage
	config  VideoServiceConfig
	logger  *zap.Logger
}

// NewVideoService creates a new VideoService
func NewVideoService(storage ObjectStorage, config VideoServiceConfig, logger *zap.Logger) *VideoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoService{
		storage: storage,
		config:  config,
		logger:  logger.Named("video"),
	}
}

// Upload stores a video at exercises/<exercise id or "new">/<uuid>.<ext>
// and returns its public URL
func (s *VideoService) Upload(ctx context.Context, req UploadVideoRequest) (*VideoResponse, error) {
	contentType, err := normalizeVideoContentType(req.ContentType)
	if err != nil {
		return nil, err
	}
	if req.Size == 0 || req.Body == nil {
		return nil, ErrEmptyFile
	}
	if s.config.MaxSize > 0 && req.Size > s.config.MaxSize {
		return nil, ErrFileTooLarge
	}

	key := videoKey(req.ExerciseID, req.FileName, contentType)
	if err := s.storage.Upload(ctx, key, req.Body, req.Size, contentType); err != nil {
		s.logger.Error("Failed to upload video",
			zap.String("key", key),
			zap.Int64("size", req.Size),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Video uploaded", zap.String("key", key), zap.Int64("size", req.Size))
	return &VideoResponse{
		StorageKey: key,
		URL:        s.storage.PublicURL(key),
	}, nil
}

// PresignUpload returns a presigned URL for a direct browser upload using the
// same key scheme as Upload
func (s *VideoService) PresignUpload(ctx context.Context, req PresignVideoRequest) (*PresignVideoResponse, error) {
	contentType, err := normalizeVideoContentType(req.ContentType)
	if err != nil {
		return nil, err
	}

	key := videoKey(req.ExerciseID, req.FileName, contentType)
	uploadURL, expiresAt, err := s.storage.PresignUpload(ctx, key, contentType)
	if err != nil {
		s.logger.Error("Failed to presign video upload", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &PresignVideoResponse{
		StorageKey: key,
		UploadURL:  uploadURL,
		PublicURL:  s.storage.PublicURL(key),
		ExpiresAt:  expiresAt,
	}, nil
}

// Delete removes a video given its public URL or storage key
func (s *VideoService) Delete(ctx context.Context, urlOrKey string) error {
	urlOrKey = strings.TrimSpace(urlOrKey)
	key := urlOrKey
	if strings.Contains(urlOrKey, "://") {
		var ok bool
		if key, ok = s.storage.KeyFromURL(urlOrKey); !ok {
			return ErrInvalidVideoURL
		}
	}
	if key == "" || strings.Contains(key, "..") {
		return ErrInvalidVideoURL
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to delete video", zap.String("key", key), zap.Error(err))
		return err
	}
	s.logger.Info("Video deleted", zap.String("key", key))
	return nil
}

func normalizeVideoContentType(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !strings.HasPrefix(ct, "video/") || len(ct) == len("video/") {
		return "", ErrInvalidContentType
	}
	return ct, nil
}

func videoKey(exerciseID *uuid.UUID, fileName, contentType string) string {
	folder := "new"
	if exerciseID != nil && *exerciseID != uuid.Nil {
		folder = exerciseID.String()
	}
	return fmt.Sprintf("exercises/%s/%s.%s", folder, uuid.New().String(), videoExtension(fileName, contentType))
}

// videoExtension picks the extension from the file name, then the content
// type, then falls back to "bin"
func videoExtension(fileName, contentType string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext != "" && len(ext) <= 10 && isAlphanumeric(ext) {
		return ext
	}
	if ext, ok := videoExtensions[contentType]; ok {
		return ext
	}
	return "bin"
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
