// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Create a config.toml from the embedded template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Delete the persisted session",
				Action: r.AuthLogout,
			},
		},
	}
}

// devicesCommand lists playback devices.
func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List registered playback devices",
		Flags: append(jsonFlags(),
			&cli.BoolFlag{
				Name:  "fresh",
				Usage: "Bypass the device cache",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Output CSV",
			},
		),
		Action: r.Devices,
	}
}

// nowCommand shows the currently playing track.
func nowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "now",
		Aliases: []string{"current"},
		Usage:   "Show the currently playing track",
		Flags: append(jsonFlags(),
			&cli.BoolFlag{
				Name:  "desktop",
				Usage: "Fall back to the desktop player window title when the API reports nothing",
			},
		),
		Action: r.Now,
	}
}

// playCommand launches playback through the device-discovery machine.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a track, launching a web player when no device is registered",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "track",
				Aliases: []string{"t"},
				Usage:   "Track ID or spotify:track: URI",
			},
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist context ID (use \"Liked Songs\" for the virtual liked-songs playlist)",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Album ID, used for web player launch targeting",
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Position within the playlist context",
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: "Target device ID, skips discovery",
			},
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "How long to wait for playback confirmation",
				Value: 0,
			},
		},
		Action: r.Play,
	}
}

// trackCommand shows a single track's details.
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Show a track by ID or spotify:track: URI",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: append(jsonFlags(),
			&cli.BoolFlag{
				Name:  "artists",
				Usage: "Fetch full artist records and genre",
			},
			&cli.BoolFlag{
				Name:  "features",
				Usage: "Include the audio analysis",
			},
		),
		Action: r.Track,
	}
}

// recentCommand lists recently played tracks.
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List recently played tracks",
		Flags: append(jsonFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of tracks to return",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Write the listing to {value}_tracks.csv",
			},
			&cli.StringFlag{
				Name:  "markdown",
				Usage: "Write the listing to {value}/README.md",
			},
		),
		Action: r.Recent,
	}
}

// recommendCommand fetches recommendations from seed tracks, artists, and genres.
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Fetch track recommendations from seeds",
		Flags: append(jsonFlags(),
			&cli.StringSliceFlag{
				Name:  "track",
				Usage: "Seed track ID (repeatable, max 5)",
			},
			&cli.StringSliceFlag{
				Name:  "artist",
				Usage: "Seed artist ID (repeatable, max 5)",
			},
			&cli.StringSliceFlag{
				Name:  "genre",
				Usage: "Seed genre (repeatable, max 5)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of recommendations",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "market",
				Usage: "Market code, e.g. US",
			},
		),
		Action: r.Recommend,
	}
}

// searchCommand resolves a track from artist and title.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search for a track by artist and title",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
			&cli.StringArg{Name: "title"},
		},
		Flags:  jsonFlags(),
		Action: r.Search,
	}
}

// repeatCommand toggles repeat state.
func repeatCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "repeat",
		Usage: "Set repeat to on (track) or off",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "state"},
		},
		Action: r.Repeat,
	}
}

// webCommand opens the web player on a resource.
func webCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Open the web player in a browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "track",
				Aliases: []string{"t"},
				Usage:   "Track ID to open",
			},
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist ID to open",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Album ID to open",
			},
		},
		Action: r.Web,
	}
}

// tuiCommand returns the top-level TUI command for interactive playback.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playback",
		Action:  r.TUI,
	}
}
