package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/quill/internal"
	"github.com/starford/quill/internal/noteservice"
	pkgconfig "github.com/starford/quill/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOrDefault(cmd.Root().String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func serveMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.ServeMCP(internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func listNotes(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p := noteservice.NotesParams{
		Workspace:  cmd.String("workspace"),
		CreatedKey: cmd.String("created-key"),
		UpdatedKey: cmd.String("updated-key"),
		Start:      int64Flag(cmd, "start"),
		End:        int64Flag(cmd, "end"),
	}
	if cmd.IsSet("group-id") {
		raw := cmd.Uint("group-id")
		if raw > math.MaxUint32 {
			return fmt.Errorf("group-id out of range: %d", raw)
		}
		id := uint32(raw)
		p.GroupID = &id
	}

	notes, err := internal.NewNoteService(cfg).ListNotes(ctx, p)
	if err != nil {
		return err
	}
	return printJSON(notes)
}

func listGroups(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	groups, err := internal.NewNoteService(cfg).ListGroups(ctx, cmd.String("workspace"))
	if err != nil {
		return err
	}
	return printJSON(groups)
}

func search(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one pattern argument, got %d", cmd.Args().Len())
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	items, err := internal.NewNoteService(cfg).Search(ctx, noteservice.SearchParams{
		Pattern:    cmd.Args().First(),
		Workspace:  cmd.String("workspace"),
		CreatedKey: cmd.String("created-key"),
		UpdatedKey: cmd.String("updated-key"),
		Start:      int64Flag(cmd, "start"),
		End:        int64Flag(cmd, "end"),
	})
	if err != nil {
		return err
	}
	return printJSON(items)
}

func int64Flag(cmd *cli.Command, name string) *int64 {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Int(name)
	return &v
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func workspaceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "workspace",
			Aliases: []string{"w"},
			Usage:   "Workspace root; defaults to the first configured root",
		},
		&cli.StringFlag{Name: "created-key", Usage: "Frontmatter key holding the created date"},
		&cli.StringFlag{Name: "updated-key", Usage: "Frontmatter key holding the updated date"},
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "quill",
		Usage:   "Browse and search an Obsidian-style note workspace",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and the change event stream",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdin/stdout",
				Action: serveMCP,
			},
			{
				Name:  "notes",
				Usage: "List notes created strictly between --start and --end",
				Flags: append(workspaceFlags(),
					&cli.IntFlag{Name: "start", Usage: "Exclusive lower bound, ms since epoch (default -1)"},
					&cli.IntFlag{Name: "end", Usage: "Exclusive upper bound, ms since epoch (default max int64)"},
					&cli.UintFlag{Name: "group-id", Usage: "Only notes of this group"},
				),
				Action: listNotes,
			},
			{
				Name:   "groups",
				Usage:  "List the groups that contain at least one note",
				Flags:  workspaceFlags()[:1],
				Action: listGroups,
			},
			{
				Name:      "search",
				Usage:     "Search note names and lines with a regular expression",
				ArgsUsage: "<pattern>",
				Flags: append(workspaceFlags(),
					&cli.IntFlag{Name: "start", Usage: "Inclusive lower bound, ms since epoch (default 0)"},
					&cli.IntFlag{Name: "end", Usage: "Inclusive upper bound, ms since epoch (default max int64)"},
				),
				Action: search,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
