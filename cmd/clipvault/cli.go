package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mgeller/clipvault/internal/capture"
	"github.com/mgeller/clipvault/internal/config"
	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/ops"
	"github.com/mgeller/clipvault/internal/store"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(svc *ops.Service, st *store.Store, clip capture.Clipboard, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "clipvault",
		Usage:   "Clipboard history with capture, search, and recall",
		Version: Version,
		Commands: []*cli.Command{
			runCmd(svc, st, clip, cfg),
			listCmd(svc),
			searchCmd(svc),
			copyCmd(svc),
			favoriteCmd(svc),
			deleteCmd(svc),
			settingsCmd(svc),
			exclusionsCmd(svc),
			imageCmd(svc),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// runCmd creates the run command (capture daemon).
func runCmd(svc *ops.Service, st *store.Store, clip capture.Clipboard, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the capture daemon (poll, classify, store, sweep)",
		Action: func(c *cli.Context) error {
			if err := runDaemon(svc, st, clip, cfg); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// listCmd creates the list command.
func listCmd(svc *ops.Service) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List clipboard history (favorites first, then newest)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items (default 20, max 100)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := svc.List(ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(svc *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search over clipboard history",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.StringFlag{Name: "app", Aliases: []string{"a"}, Usage: "Filter by source application"},
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Filter by kind: text|image"},
			&cli.Int64Flag{Name: "from", Usage: "Earliest captured_at (unix seconds)"},
			&cli.Int64Flag{Name: "to", Usage: "Latest captured_at (unix seconds)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items (default 20, max 100)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SearchInput{
				Query: strings.Join(c.Args().Slice(), " "),
				Limit: c.Int("limit"),
			}
			if v := c.String("category"); v != "" {
				input.Filters.Category = &v
			}
			if v := c.String("app"); v != "" {
				input.Filters.SourceApp = &v
			}
			if v := c.String("kind"); v != "" {
				input.Filters.ContentKind = &v
			}
			if c.IsSet("from") {
				v := c.Int64("from")
				input.Filters.DateFrom = &v
			}
			if c.IsSet("to") {
				v := c.Int64("to")
				input.Filters.DateTo = &v
			}

			output, err := svc.Search(input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// copyCmd creates the copy command.
func copyCmd(svc *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Copy a stored item back to the system clipboard",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c)
			if err != nil {
				return outputError(err)
			}
			output, err := svc.Copy(id)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// favoriteCmd creates the favorite command.
func favoriteCmd(svc *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "favorite",
		Usage:     "Mark an item as a favorite (exempt from eviction)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "remove", Aliases: []string{"r"}, Usage: "Unmark instead"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c)
			if err != nil {
				return outputError(err)
			}
			favorite := !c.Bool("remove")
			if err := svc.SetFavorite(id, favorite); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"id": id, "is_favorite": favorite})
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(svc *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an item and its image file, if any",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c)
			if err != nil {
				return outputError(err)
			}
			if err := svc.Delete(id); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"id": id, "deleted": true})
		},
	}
}

// settingsCmd creates the settings command with get/set subcommands.
func settingsCmd(svc *ops.Service) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Read or update settings",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show current settings",
				Action: func(c *cli.Context) error {
					settings, err := svc.GetSettings()
					if err != nil {
						return outputError(err)
					}
					return outputJSON(settings)
				},
			},
			{
				Name:  "set",
				Usage: "Update settings (omitted flags keep current values)",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "retention-days", Usage: "Days to keep items (minimum 1)"},
					&cli.IntFlag{Name: "max-items", Usage: "History size cap, 10 to 100000"},
					&cli.StringFlag{Name: "shortcut", Usage: "Hotkey binding, stored as-is"},
					&cli.BoolFlag{Name: "auto-exclude-sensitive", Usage: "Drop sensitive text before storing"},
					&cli.IntFlag{Name: "max-image-size-mb", Usage: "Raw image budget, 1 to 100 MB"},
				},
				Action: func(c *cli.Context) error {
					settings, err := svc.GetSettings()
					if err != nil {
						return outputError(err)
					}
					if c.IsSet("retention-days") {
						settings.RetentionDays = c.Int("retention-days")
					}
					if c.IsSet("max-items") {
						settings.MaxItems = c.Int("max-items")
					}
					if c.IsSet("shortcut") {
						settings.KeyboardShortcut = c.String("shortcut")
					}
					if c.IsSet("auto-exclude-sensitive") {
						settings.AutoExcludeSensitive = c.Bool("auto-exclude-sensitive")
					}
					if c.IsSet("max-image-size-mb") {
						settings.MaxImageSizeMB = c.Int("max-image-size-mb")
					}
					if err := svc.UpdateSettings(settings); err != nil {
						return outputError(err)
					}
					return outputJSON(settings)
				},
			},
		},
	}
}

// exclusionsCmd creates the exclusions command with list/add/remove subcommands.
func exclusionsCmd(svc *ops.Service) *cli.Command {
	return &cli.Command{
		Name:  "exclusions",
		Usage: "Manage applications excluded from capture",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show excluded applications",
				Action: func(c *cli.Context) error {
					apps, err := svc.ListExclusions()
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"apps": apps})
				},
			},
			{
				Name:      "add",
				Usage:     "Exclude an application from capture",
				ArgsUsage: "<app-name>",
				Action: func(c *cli.Context) error {
					name := strings.Join(c.Args().Slice(), " ")
					if err := svc.AddExclusion(name); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"app_name": name, "excluded": true})
				},
			},
			{
				Name:      "remove",
				Usage:     "Re-enable capture for an application",
				ArgsUsage: "<app-name>",
				Action: func(c *cli.Context) error {
					name := strings.Join(c.Args().Slice(), " ")
					if err := svc.RemoveExclusion(name); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"app_name": name, "excluded": false})
				},
			},
		},
	}
}

// imageCmd creates the image command.
func imageCmd(svc *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "image",
		Usage:     "Export the PNG of an image item",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write PNG to this file instead of reporting metadata"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c)
			if err != nil {
				return outputError(err)
			}
			output, err := svc.ReadImage(id)
			if err != nil {
				return outputError(err)
			}
			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, output.Data, 0600); err != nil {
					return outputError(errors.NewInternal(err))
				}
				return outputJSON(map[string]any{"id": id, "written": out, "bytes": len(output.Data)})
			}
			return outputJSON(map[string]any{
				"id":        id,
				"path":      output.Path,
				"mime_type": output.MimeType,
				"bytes":     len(output.Data),
			})
		},
	}
}

// parseID reads the positional item id argument.
func parseID(c *cli.Context) (int64, error) {
	if c.NArg() < 1 {
		return 0, errors.NewInvalidInput("id is required")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInput(fmt.Sprintf("invalid id %q", c.Args().First()))
	}
	return id, nil
}

// outputJSON prints JSON result to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if clipErr, ok := err.(*errors.ClipError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", clipErr.Code, clipErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
