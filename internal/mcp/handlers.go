package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/item"
	"github.com/mgeller/clipvault/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	svc *ops.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *ops.Service) *Handlers {
	return &Handlers{svc: svc}
}

// Request types for each tool

// ListRequest represents the arguments for clip_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// SearchRequest represents the arguments for clip_search.
type SearchRequest struct {
	Query       string  `json:"query"`
	Category    *string `json:"category,omitempty"`
	SourceApp   *string `json:"source_app,omitempty"`
	ContentKind *string `json:"content_kind,omitempty"`
	DateFrom    *int64  `json:"date_from,omitempty"`
	DateTo      *int64  `json:"date_to,omitempty"`
	Limit       int     `json:"limit,omitempty"`
}

// IDRequest represents the arguments for tools addressing one item.
type IDRequest struct {
	ID int64 `json:"id"`
}

// FavoriteRequest represents the arguments for clip_favorite.
type FavoriteRequest struct {
	ID       int64 `json:"id"`
	Favorite *bool `json:"favorite,omitempty"` // default true
}

// UpdateSettingsRequest represents the arguments for clip_update_settings.
// Omitted fields keep their current values.
type UpdateSettingsRequest struct {
	RetentionDays        *int    `json:"retention_days,omitempty"`
	MaxItems             *int    `json:"max_items,omitempty"`
	KeyboardShortcut     *string `json:"keyboard_shortcut,omitempty"`
	AutoExcludeSensitive *bool   `json:"auto_exclude_sensitive,omitempty"`
	MaxImageSizeMB       *int    `json:"max_image_size_mb,omitempty"`
}

// ExclusionRequest represents the arguments for exclusion tools.
type ExclusionRequest struct {
	AppName string `json:"app_name"`
}

// Handler implementations

// HandleList handles the clip_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := h.svc.List(ops.ListInput{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSearch handles the clip_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := h.svc.Search(ops.SearchInput{
		Query: input.Query,
		Filters: item.SearchFilters{
			Category:    input.Category,
			SourceApp:   input.SourceApp,
			ContentKind: input.ContentKind,
			DateFrom:    input.DateFrom,
			DateTo:      input.DateTo,
		},
		Limit: input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCopy handles the clip_copy tool call.
func (h *Handlers) HandleCopy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := h.svc.Copy(input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFavorite handles the clip_favorite tool call.
func (h *Handlers) HandleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FavoriteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	favorite := true
	if input.Favorite != nil {
		favorite = *input.Favorite
	}
	if err := h.svc.SetFavorite(input.ID, favorite); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"id": input.ID, "is_favorite": favorite})
}

// HandleDelete handles the clip_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	if err := h.svc.Delete(input.ID); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"id": input.ID, "deleted": true})
}

// HandleGetSettings handles the clip_get_settings tool call.
func (h *Handlers) HandleGetSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings, err := h.svc.GetSettings()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(settings)
}

// HandleUpdateSettings handles the clip_update_settings tool call.
func (h *Handlers) HandleUpdateSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateSettingsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	settings, err := h.svc.GetSettings()
	if err != nil {
		return errorResult(err), nil
	}
	if input.RetentionDays != nil {
		settings.RetentionDays = *input.RetentionDays
	}
	if input.MaxItems != nil {
		settings.MaxItems = *input.MaxItems
	}
	if input.KeyboardShortcut != nil {
		settings.KeyboardShortcut = *input.KeyboardShortcut
	}
	if input.AutoExcludeSensitive != nil {
		settings.AutoExcludeSensitive = *input.AutoExcludeSensitive
	}
	if input.MaxImageSizeMB != nil {
		settings.MaxImageSizeMB = *input.MaxImageSizeMB
	}

	if err := h.svc.UpdateSettings(settings); err != nil {
		return errorResult(err), nil
	}
	return successResult(settings)
}

// HandleListExclusions handles the clip_list_exclusions tool call.
func (h *Handlers) HandleListExclusions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apps, err := h.svc.ListExclusions()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"apps": apps})
}

// HandleAddExclusion handles the clip_add_exclusion tool call.
func (h *Handlers) HandleAddExclusion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExclusionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	if err := h.svc.AddExclusion(input.AppName); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"app_name": input.AppName, "excluded": true})
}

// HandleRemoveExclusion handles the clip_remove_exclusion tool call.
func (h *Handlers) HandleRemoveExclusion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExclusionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	if err := h.svc.RemoveExclusion(input.AppName); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"app_name": input.AppName, "excluded": false})
}

// HandleReadImage handles the clip_read_image tool call.
func (h *Handlers) HandleReadImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := h.svc.ReadImage(input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	encoded := base64.StdEncoding.EncodeToString(result.Data)
	return mcp.NewToolResultImage(result.Path, encoded, result.MimeType), nil
}

// errorResult creates an MCP error result from any error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if clipErr, ok := err.(*errors.ClipError); ok {
		errorObj := map[string]any{
			"code":    clipErr.Code,
			"message": clipErr.Message,
			"status":  clipErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if clipErr.Code != errors.ErrInternal && clipErr.Code != errors.ErrStorageFailure && clipErr.Details != nil {
			errorObj["details"] = clipErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
