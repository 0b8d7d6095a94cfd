package mcp

import "github.com/mark3labs/mcp-go/mcp"

var listToolDef = mcp.NewTool("clip_list",
	mcp.WithDescription("List clipboard history. Favorites come first, then newest first. Sensitive items are never listed."),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip for pagination")),
)

var searchToolDef = mcp.NewTool("clip_search",
	mcp.WithDescription("Full-text search over clipboard history with optional filters."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
	mcp.WithString("category", mcp.Description("Filter by category (url, email, ip, path, command, error, code, misc)")),
	mcp.WithString("source_app", mcp.Description("Filter by the application the item was copied from")),
	mcp.WithString("content_kind", mcp.Description("Filter by kind: text or image")),
	mcp.WithNumber("date_from", mcp.Description("Earliest captured_at, unix seconds, inclusive")),
	mcp.WithNumber("date_to", mcp.Description("Latest captured_at, unix seconds, inclusive")),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 20, max 100)")),
)

var copyToolDef = mcp.NewTool("clip_copy",
	mcp.WithDescription("Copy a stored item back to the system clipboard."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Item id")),
)

var favoriteToolDef = mcp.NewTool("clip_favorite",
	mcp.WithDescription("Mark or unmark an item as a favorite. Favorites are exempt from count-based eviction."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Item id")),
	mcp.WithBoolean("favorite", mcp.Description("Favorite state (default true)")),
)

var deleteToolDef = mcp.NewTool("clip_delete",
	mcp.WithDescription("Delete an item and its image file, if any."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Item id")),
)

var getSettingsToolDef = mcp.NewTool("clip_get_settings",
	mcp.WithDescription("Read the current settings."),
)

var updateSettingsToolDef = mcp.NewTool("clip_update_settings",
	mcp.WithDescription("Update settings. Omitted fields keep their current values."),
	mcp.WithNumber("retention_days", mcp.Description("Days to keep items (minimum 1)")),
	mcp.WithNumber("max_items", mcp.Description("History size cap, 10 to 100000")),
	mcp.WithString("keyboard_shortcut", mcp.Description("Hotkey binding, stored as-is")),
	mcp.WithBoolean("auto_exclude_sensitive", mcp.Description("Drop sensitive text before it is stored")),
	mcp.WithNumber("max_image_size_mb", mcp.Description("Raw image size budget, 1 to 100 MB")),
)

var listExclusionsToolDef = mcp.NewTool("clip_list_exclusions",
	mcp.WithDescription("List applications excluded from capture."),
)

var addExclusionToolDef = mcp.NewTool("clip_add_exclusion",
	mcp.WithDescription("Exclude an application from capture."),
	mcp.WithString("app_name", mcp.Required(), mcp.Description("Application name as reported by the focused window")),
)

var removeExclusionToolDef = mcp.NewTool("clip_remove_exclusion",
	mcp.WithDescription("Re-enable capture for an application."),
	mcp.WithString("app_name", mcp.Required(), mcp.Description("Application name")),
)

var readImageToolDef = mcp.NewTool("clip_read_image",
	mcp.WithDescription("Return the stored PNG for an image item."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Item id")),
)
