// Package mcp exposes the command surface as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"

	"github.com/mgeller/clipvault/internal/config"
	"github.com/mgeller/clipvault/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"clip_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"clip_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"clip_copy": {
		def:     copyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCopy },
	},
	"clip_favorite": {
		def:     favoriteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFavorite },
	},
	"clip_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"clip_get_settings": {
		def:     getSettingsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetSettings },
	},
	"clip_update_settings": {
		def:     updateSettingsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdateSettings },
	},
	"clip_list_exclusions": {
		def:     listExclusionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListExclusions },
	},
	"clip_add_exclusion": {
		def:     addExclusionToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAddExclusion },
	},
	"clip_remove_exclusion": {
		def:     removeExclusionToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRemoveExclusion },
	},
	"clip_read_image": {
		def:     readImageToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReadImage },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the clipboard tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(svc *ops.Service, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"clipvault",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(svc)

	disabled := make(map[string]bool)
	if cfg != nil {
		for _, name := range ValidateDisabledTools(cfg.DisabledTools) {
			log.Warnf("unknown tool in disabled_tools: %s", name)
		}
		for _, name := range cfg.DisabledTools {
			disabled[name] = true
		}
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(svc *ops.Service, cfg *config.Config, version string) error {
	s := NewServer(svc, cfg, version)
	return server.ServeStdio(s)
}
