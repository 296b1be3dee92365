package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/aerial/internal/formatter"
	"github.com/desertthunder/aerial/internal/shared"
	"github.com/desertthunder/aerial/internal/spotify"
	"github.com/urfave/cli/v3"
)

// Toggle pauses playback when playing, otherwise resumes it.
func (r *Runner) Toggle(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		state, err := p.Toggle(ctx)
		if err != nil {
			return err
		}
		return r.success("✓ Playback %s", state)
	})
}

func (r *Runner) Pause(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		if err := p.Pause(ctx); err != nil {
			return err
		}
		return r.success("✓ Paused")
	})
}

func (r *Runner) Resume(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		if err := p.Resume(ctx); err != nil {
			return err
		}
		return r.success("✓ Resumed")
	})
}

// Play starts a track, a context, or a track inside a context.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	target := spotify.PlayTarget{TrackID: cmd.String("track"), Context: cmd.String("context")}
	if _, err := target.Body(); err != nil {
		return err
	}

	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		if err := p.Play(ctx, target); err != nil {
			return err
		}
		return r.success("✓ Playing")
	})
}

func (r *Runner) Next(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		if err := p.Next(ctx); err != nil {
			return err
		}
		return r.success("✓ Skipped to next track")
	})
}

func (r *Runner) Previous(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		if err := p.Previous(ctx); err != nil {
			return err
		}
		return r.success("✓ Skipped to previous track")
	})
}

// Current prints the currently playing track and its context.
func (r *Runner) Current(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		current, ok, err := p.CurrentTrack(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return r.warn("Nothing is playing")
		}

		if cmd.Bool("json") {
			return r.writeJSON(current, cmd.Bool("pretty"))
		}
		return r.writePlainln("%s", formatter.CurrentlyPlaying(current))
	})
}

// Shuffle sets the shuffle state from the on|off argument.
func (r *Runner) Shuffle(ctx context.Context, cmd *cli.Command) error {
	state, err := parseToggle(cmd.StringArg("state"))
	if err != nil {
		return err
	}

	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		if err := p.SetShuffle(ctx, state); err != nil {
			return err
		}
		return r.success("✓ Shuffle %s", formatter.YesNo(state))
	})
}

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	case "":
		return false, fmt.Errorf("%w: state (on|off)", shared.ErrMissingArgument)
	default:
		return false, fmt.Errorf("%w: state %q (want on|off)", shared.ErrInvalidArgument, s)
	}
}

// Search queries the catalog for one item type.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	t, err := spotify.ParseSearchType(cmd.String("type"))
	if err != nil {
		return err
	}

	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		res, err := p.Search(ctx, query, t)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(res, true)
		}
		return r.writePlainln("%s", formatter.SearchResults(res, t))
	})
}

// Top prints the user's top tracks as text, CSV or JSON.
func (r *Runner) Top(ctx context.Context, cmd *cli.Command) error {
	timeRange, err := spotify.ParseTimeRange(cmd.String("range"))
	if err != nil {
		return err
	}

	format := cmd.String("format")
	switch format {
	case "text", "csv", "json":
	default:
		return fmt.Errorf("%w: format %q (want text, csv or json)", shared.ErrInvalidArgument, format)
	}

	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		page, err := p.TopTracks(ctx, timeRange)
		if err != nil {
			return err
		}

		switch format {
		case "csv":
			data, err := formatter.TracksToCSV(page.Items)
			if err != nil {
				return err
			}
			return r.writePlain("%s", data)
		case "json":
			return r.writeJSON(page.Items, true)
		default:
			return r.writePlainln("%s", formatter.TrackList(page.Items))
		}
	})
}

// Save adds the given track ids to the user's library.
func (r *Runner) Save(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track id", shared.ErrMissingArgument)
	}

	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		if err := p.SaveTracks(ctx, ids); err != nil {
			return err
		}
		return r.success("✓ Saved %d track(s)", len(ids))
	})
}

func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayer(ctx, func(ctx context.Context, p *spotify.Player) error {
		devices, err := p.Devices(ctx)
		if err != nil {
			return err
		}
		return r.writePlainln("%s", formatter.Devices(devices))
	})
}
