// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// musicCommand handles Spotify authentication and playback
func musicCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "music",
		Aliases: []string{"m"},
		Usage:   "Spotify authentication and playback",
		Commands: []*cli.Command{
			{
				Name:   "auth",
				Usage:  "Authenticate with Spotify in the browser",
				Action: r.Auth,
			},
			{
				Name:   "unauth",
				Usage:  "Remove the cached Spotify token",
				Action: r.Unauth,
			},
			{
				Name:   "status",
				Usage:  "Show the cached token state without contacting Spotify",
				Action: r.Status,
			},
			{
				Name:   "toggle",
				Usage:  "Pause if playing, otherwise resume",
				Action: r.Toggle,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Action: r.Pause,
			},
			{
				Name:   "resume",
				Usage:  "Resume playback",
				Action: r.Resume,
			},
			{
				Name:  "play",
				Usage: "Play a track, a context, or a track within a context",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "track",
						Aliases: []string{"t"},
						Usage:   "Track ID",
					},
					&cli.StringFlag{
						Name:  "context",
						Usage: "Context to play from: album:<id>, playlist:<id> or artist:<id>",
					},
				},
				Action: r.Play,
			},
			{
				Name:   "next",
				Usage:  "Skip to the next track",
				Action: r.Next,
			},
			{
				Name:    "prev",
				Aliases: []string{"previous"},
				Usage:   "Skip to the previous track",
				Action:  r.Previous,
			},
			{
				Name:  "current",
				Usage: "Show the currently playing track",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.Current,
			},
			{
				Name:  "shuffle",
				Usage: "Turn shuffle on or off",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "state", UsageText: "on|off"},
				},
				Action: r.Shuffle,
			},
			{
				Name:      "search",
				Usage:     "Search the catalog",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "type",
						Usage: "Item type: track, album, artist or playlist",
						Value: "track",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.Search,
			},
			{
				Name:  "top",
				Usage: "Show your top tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "range",
						Usage: "Time range: short, medium or long",
						Value: "medium",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv or json",
						Value:   "text",
					},
				},
				Action: r.Top,
			},
			{
				Name:      "save",
				Usage:     "Save tracks to your library",
				ArgsUsage: "<track-id>...",
				Action:    r.Save,
			},
			{
				Name:   "devices",
				Usage:  "List available playback devices",
				Action: r.Devices,
			},
			tuiCommand(r),
		},
	}
}

// setupCommand handles setup operations for configuration and the token database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file template to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the sqlite token cache and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the TUI command for the interactive playback remote.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playback remote",
		Action:  r.TUI,
	}
}
