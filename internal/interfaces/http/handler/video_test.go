package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"github.com/touchline/backend/internal/interfaces/http/dto"
)

// upload posts a multipart form with one file part and optional fields
func (s *testStack) upload(t *testing.T, fileName, contentType string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if data != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeUpload(t *testing.T, w *httptest.ResponseRecorder) UploadVideoResponse {
	t.Helper()
	var env struct {
		Success bool                `json:"success"`
		Data    UploadVideoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)
	return env.Data
}

func TestVideoHandler_Upload(t *testing.T) {
	s := newTestStack(t)
	cat := s.mustCreateCategory(t, "Dribbling")
	skill := s.mustCreateSkill(t, cat.ID.String(), "Inside cut", "U-8")
	ex := s.mustCreateExercise(t, "Cone slalom", 2, skill.ID.String())

	t.Run("stores the file and sets the exercise video", func(t *testing.T) {
		w := s.upload(t, "slalom.MP4", "video/mp4", []byte("fake video"), map[string]string{
			"exercise_id": ex.ID.String(),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		out := decodeUpload(t, w)
		require.NotNil(t, out.Video)
		assert.True(t, strings.HasPrefix(out.Video.StorageKey, "exercises/"+ex.ID.String()+"/"))
		assert.True(t, strings.HasSuffix(out.Video.StorageKey, ".mp4"))
		assert.Equal(t, testVideoBase+"/"+out.Video.StorageKey, out.Video.URL)
		require.NotNil(t, out.Exercise)
		assert.Equal(t, out.Video.URL, out.Exercise.VideoURL)

		obj, ok := s.storage.Get(out.Video.StorageKey)
		require.True(t, ok)
		assert.Equal(t, []byte("fake video"), obj.Data)
		assert.Equal(t, "video/mp4", obj.ContentType)

		var stats catalogapp.StatsResponse
		s.do(t, http.MethodGet, "/admin/catalog/stats", nil, &stats)
		assert.Equal(t, 1, stats.ExercisesWithVideo)
	})

	t.Run("replacing a video removes the previous object", func(t *testing.T) {
		fields := map[string]string{"exercise_id": ex.ID.String()}
		first := decodeUpload(t, s.upload(t, "a.mp4", "video/mp4", []byte("first"), fields))
		second := decodeUpload(t, s.upload(t, "b.mp4", "video/mp4", []byte("second"), fields))

		_, ok := s.storage.Get(first.Video.StorageKey)
		assert.False(t, ok)
		_, ok = s.storage.Get(second.Video.StorageKey)
		assert.True(t, ok)
		assert.Equal(t, second.Video.URL, second.Exercise.VideoURL)
	})

	t.Run("external previous video is left alone", func(t *testing.T) {
		_, _, err := s.catalog.SetExerciseVideo(context.Background(), ex.ID, "https://youtube.test/watch?v=1")
		require.NoError(t, err)

		w := s.upload(t, "c.mp4", "video/mp4", []byte("third"), map[string]string{"exercise_id": ex.ID.String()})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		out := decodeUpload(t, w)
		assert.Equal(t, out.Video.URL, out.Exercise.VideoURL)
	})

	t.Run("without an exercise the video lands under new", func(t *testing.T) {
		w := s.upload(t, "clip", "video/webm", []byte("webm"), nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		out := decodeUpload(t, w)
		assert.True(t, strings.HasPrefix(out.Video.StorageKey, "exercises/new/"))
		assert.True(t, strings.HasSuffix(out.Video.StorageKey, ".webm"))
		assert.Nil(t, out.Exercise)
	})

	t.Run("non-video content type is rejected", func(t *testing.T) {
		w := s.upload(t, "notes.pdf", "application/pdf", []byte("%PDF"), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CONTENT_TYPE")
	})

	t.Run("oversized file is 413", func(t *testing.T) {
		w := s.upload(t, "big.mp4", "video/mp4", make([]byte, 2<<20), nil)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "FILE_TOO_LARGE")
	})

	t.Run("unknown exercise is 404 and nothing is stored", func(t *testing.T) {
		w := s.upload(t, "a.mp4", "video/mp4", []byte("x"), map[string]string{
			"exercise_id": uuid.NewString(),
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing file part is 400", func(t *testing.T) {
		w := s.upload(t, "", "", nil, map[string]string{"note": "nothing"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeBadRequest)
	})
}

func TestVideoHandler_Presign(t *testing.T) {
	s := newTestStack(t)

	var out catalogapp.PresignVideoResponse
	code, resp := s.do(t, http.MethodPost, "/admin/videos/presign", map[string]any{
		"file_name":    "drill.mov",
		"content_type": "video/quicktime",
	}, &out)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.True(t, strings.HasSuffix(out.StorageKey, ".mov"))
	assert.Equal(t, testVideoBase+"/"+out.StorageKey, out.PublicURL)
	assert.Contains(t, out.UploadURL, out.StorageKey)
	assert.False(t, out.ExpiresAt.IsZero())

	t.Run("missing file name is a validation error", func(t *testing.T) {
		code, resp := s.do(t, http.MethodPost, "/admin/videos/presign", map[string]any{
			"content_type": "video/mp4",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})
}

func TestVideoHandler_Delete(t *testing.T) {
	s := newTestStack(t)
	w := s.upload(t, "clip.mp4", "video/mp4", []byte("bytes"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	video := decodeUpload(t, w).Video

	t.Run("deletes by public url", func(t *testing.T) {
		code, _ := s.do(t, http.MethodDelete, "/admin/videos?url="+url.QueryEscape(video.URL), nil, nil)
		assert.Equal(t, http.StatusNoContent, code)
		_, ok := s.storage.Get(video.StorageKey)
		assert.False(t, ok)
	})

	t.Run("foreign url is INVALID_VIDEO_URL", func(t *testing.T) {
		code, resp := s.do(t, http.MethodDelete, "/admin/videos",
			catalogapp.DeleteVideoRequest{URL: "https://youtube.com/watch?v=abc"}, nil)
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_VIDEO_URL", resp.Error.Code)
	})

	t.Run("missing url is a validation error", func(t *testing.T) {
		code, resp := s.do(t, http.MethodDelete, "/admin/videos", map[string]any{}, nil)
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})
}
