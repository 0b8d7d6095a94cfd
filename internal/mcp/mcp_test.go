package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgeller/clipvault/internal/capture"
	"github.com/mgeller/clipvault/internal/config"
	"github.com/mgeller/clipvault/internal/content"
	"github.com/mgeller/clipvault/internal/item"
	"github.com/mgeller/clipvault/internal/ops"
	"github.com/mgeller/clipvault/internal/store"
)

type fakeClip struct {
	text  string
	image *capture.RawImage
}

func (f *fakeClip) ReadText() (string, error)             { return f.text, nil }
func (f *fakeClip) ReadImage() (*capture.RawImage, error) { return f.image, nil }
func (f *fakeClip) WriteText(text string) error {
	f.text = text
	return nil
}
func (f *fakeClip) WriteImage(img *capture.RawImage) error {
	f.image = img
	return nil
}

func newTestHandlers(t *testing.T) (*Handlers, *fakeClip, *store.Store) {
	t.Helper()
	s, err := store.Open(t.TempDir(), config.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	clip := &fakeClip{}
	return NewHandlers(ops.New(s, clip)), clip, s
}

func insertText(t *testing.T, s *store.Store, text string, capturedAt int64) int64 {
	t.Helper()
	id, err := s.Insert(item.CaptureEvent{
		Content:     text,
		ContentKind: item.KindText,
		Category:    "misc",
		SourceApp:   "Tests",
		Digest:      content.DigestText(text),
		Preview:     content.Preview(text),
		CapturedAt:  capturedAt,
	})
	require.NoError(t, err)
	return id
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultJSON unmarshals a tool result's text payload.
func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is not text")
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func errorCode(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	payload := resultJSON(t, result)
	errObj, ok := payload["error"].(map[string]any)
	require.True(t, ok, "no error object in %v", payload)
	code, _ := errObj["code"].(string)
	return code
}

func TestHandleList(t *testing.T) {
	h, _, s := newTestHandlers(t)
	insertText(t, s, "first", 1)
	insertText(t, s, "second", 2)

	result, err := h.HandleList(context.Background(), callRequest("clip_list", map[string]any{}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	payload := resultJSON(t, result)
	items := payload["items"].([]any)
	assert.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "second", first["content"])
}

func TestHandleSearch(t *testing.T) {
	h, _, s := newTestHandlers(t)
	insertText(t, s, "kubectl get pods", 1)
	insertText(t, s, "lunch order", 2)

	result, err := h.HandleSearch(context.Background(), callRequest("clip_search", map[string]any{
		"query": "kubectl",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	payload := resultJSON(t, result)
	items := payload["items"].([]any)
	require.Len(t, items, 1)
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	result, err := h.HandleSearch(context.Background(), callRequest("clip_search", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, result))
}

func TestHandleCopy(t *testing.T) {
	h, clip, s := newTestHandlers(t)
	id := insertText(t, s, "paste me", 1)

	result, err := h.HandleCopy(context.Background(), callRequest("clip_copy", map[string]any{
		"id": id,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "paste me", clip.text)
}

func TestHandleCopy_NotFound(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	result, err := h.HandleCopy(context.Background(), callRequest("clip_copy", map[string]any{
		"id": 42,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "NOT_FOUND", errorCode(t, result))
}

func TestHandleFavorite_DefaultsTrue(t *testing.T) {
	h, _, s := newTestHandlers(t)
	id := insertText(t, s, "keep this", 1)

	result, err := h.HandleFavorite(context.Background(), callRequest("clip_favorite", map[string]any{
		"id": id,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	it, err := s.Get(id)
	require.NoError(t, err)
	assert.True(t, it.IsFavorite)
}

func TestHandleDelete(t *testing.T) {
	h, _, s := newTestHandlers(t)
	id := insertText(t, s, "remove me", 1)

	result, err := h.HandleDelete(context.Background(), callRequest("clip_delete", map[string]any{
		"id": id,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	_, err = s.Get(id)
	assert.Error(t, err)
}

func TestHandleUpdateSettings_PartialMerge(t *testing.T) {
	h, _, s := newTestHandlers(t)

	result, err := h.HandleUpdateSettings(context.Background(), callRequest("clip_update_settings", map[string]any{
		"retention_days": 7,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	settings, err := s.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 7, settings.RetentionDays)
	// Untouched fields keep their defaults.
	assert.Equal(t, item.DefaultSettings().MaxItems, settings.MaxItems)
}

func TestHandleUpdateSettings_Invalid(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	result, err := h.HandleUpdateSettings(context.Background(), callRequest("clip_update_settings", map[string]any{
		"max_items": 1,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, result))
}

func TestHandleExclusions(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	result, err := h.HandleAddExclusion(context.Background(), callRequest("clip_add_exclusion", map[string]any{
		"app_name": "KeePassXC",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, err = h.HandleListExclusions(context.Background(), callRequest("clip_list_exclusions", map[string]any{}))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	apps := payload["apps"].([]any)
	require.Len(t, apps, 1)
	assert.Equal(t, "KeePassXC", apps[0])

	result, err = h.HandleRemoveExclusion(context.Background(), callRequest("clip_remove_exclusion", map[string]any{
		"app_name": "KeePassXC",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
}

func TestHandleReadImage(t *testing.T) {
	h, _, s := newTestHandlers(t)

	pix := make([]byte, 2*2*4)
	data, err := content.EncodeRGBA(pix, 2, 2)
	require.NoError(t, err)
	digest := content.Digest(pix)
	path := filepath.Join(s.ImagesDir(), content.ImageFilename(1e9, digest))
	require.NoError(t, os.WriteFile(path, data, 0600))
	id, err := s.Insert(item.CaptureEvent{
		Content:     "Image 2x2",
		ContentKind: item.KindImage,
		ImagePath:   path,
		Category:    "misc",
		SourceApp:   "Tests",
		Digest:      digest,
		Preview:     "Image 2x2",
		CapturedAt:  1,
	})
	require.NoError(t, err)

	result, err := h.HandleReadImage(context.Background(), callRequest("clip_read_image", map[string]any{
		"id": id,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	img, ok := result.Content[len(result.Content)-1].(mcp.ImageContent)
	require.True(t, ok, "expected image content")
	assert.Equal(t, "image/png", img.MIMEType)
	assert.NotEmpty(t, img.Data)
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"clip_list", "clip_bogus"})
	assert.Equal(t, []string{"clip_bogus"}, unknown)
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	assert.Len(t, names, len(toolRegistry))
	assert.Contains(t, names, "clip_copy")
	assert.Contains(t, names, "clip_read_image")
}
