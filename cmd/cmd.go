// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// app builds the root command with the global flags shared by every subcommand.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "spotstats",
		Usage:   "Listening statistics from the Spotify catalog and the mirror store",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file loaded before reading the environment",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		statsCommand, profileCommand, playlistsCommand, topTracksCommand, mirrorCommand, serveCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func limitFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of rows (default 10, max 20)",
	}
}

// statsCommand computes full listening statistics
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Compute listening statistics across the user's playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, json, csv, markdown, text",
				Value:   "table",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		},
		Action: r.Stats,
	}
}

// profileCommand shows the user's catalog profile
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "profile",
		Usage:  "Show the user's Spotify profile",
		Flags:  jsonFlags(),
		Action: r.Profile,
	}
}

// playlistsCommand lists the user's playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "playlists",
		Usage:  "List the user's public playlists",
		Flags:  jsonFlags(),
		Action: r.Playlists,
	}
}

// topTracksCommand previews tracks from the most recent playlist
func topTracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "top-tracks",
		Usage:  "Preview tracks from the user's most recent playlist",
		Flags:  jsonFlags(),
		Action: r.TopTracks,
	}
}

// mirrorCommand reads precomputed statistics from the mirror store
func mirrorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mirror",
		Usage: "Read precomputed statistics from the mirror store",
		Commands: []*cli.Command{
			{
				Name:   "user",
				Usage:  "Show the mirrored user profile",
				Flags:  jsonFlags(),
				Action: r.MirrorUser,
			},
			{
				Name:   "artists",
				Usage:  "List the user's top artists",
				Flags:  append(jsonFlags(), limitFlag()),
				Action: r.MirrorArtists,
			},
			{
				Name:   "tracks",
				Usage:  "List the user's top tracks",
				Flags:  append(jsonFlags(), limitFlag()),
				Action: r.MirrorTracks,
			},
			{
				Name:   "genres",
				Usage:  "List the user's favorite genres",
				Flags:  append(jsonFlags(), limitFlag()),
				Action: r.MirrorGenres,
			},
		},
	}
}

// serveCommand runs the JSON API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve statistics as a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the statistics endpoint in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and the mirror database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the mirror database schema",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recently applied migration",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write an example config file to the --config path",
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive statistics viewer.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive statistics viewer",
		Action:  r.TUI,
	}
}
