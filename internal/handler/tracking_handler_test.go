package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/followback/followback-backend/internal/handler"
)

func getTrackOpen(h *handler.TrackOpenHandler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.HandleOpen(rec, req)
	return rec
}

func TestTrackOpenRecordsAndServesPixel(t *testing.T) {
	messages := &stubMessageRepo{}
	h := &handler.TrackOpenHandler{MessageRepo: messages}

	rec := getTrackOpen(h, "/api/track-open?messageId=msg-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-cache")
	assert.NotEmpty(t, rec.Body.Bytes())
	require.Len(t, messages.opens, 1)
	assert.Equal(t, "msg-1", messages.opens[0])
}

func TestTrackOpenWithoutIDStillServesPixel(t *testing.T) {
	messages := &stubMessageRepo{}
	h := &handler.TrackOpenHandler{MessageRepo: messages}

	rec := getTrackOpen(h, "/api/track-open")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Empty(t, messages.opens)
}

func TestTrackOpenIgnoresStorageError(t *testing.T) {
	h := &handler.TrackOpenHandler{MessageRepo: &stubMessageRepo{openErr: assert.AnError}}

	rec := getTrackOpen(h, "/api/track-open?messageId=msg-1")

	assert.Equal(t, http.StatusOK, rec.Code, "a storage error must not break the image")
	assert.NotEmpty(t, rec.Body.Bytes())
}
