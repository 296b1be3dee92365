package main

import (
	"context"
	"errors"
	"time"

	"github.com/desertthunder/aerial/internal/auth"
	"github.com/desertthunder/aerial/internal/cache"
	"github.com/desertthunder/aerial/internal/shared"
	"github.com/urfave/cli/v3"
)

// Auth runs the browser authorization flow and caches the resulting token.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.flow()
	if err != nil {
		return err
	}

	return r.withCache(func(c *cache.Cache) error {
		r.logger.Info("waiting for authorization", "redirect_uri", flow.RedirectURI())

		tok, err := flow.InitialAuth(ctx)
		if err != nil {
			return err
		}
		c.Set(auth.Integration, tok)

		return r.success("✓ Authenticated with Spotify")
	})
}

// Unauth removes the cached Spotify token.
func (r *Runner) Unauth(ctx context.Context, cmd *cli.Command) error {
	return r.withCache(func(c *cache.Cache) error {
		if !c.Remove(auth.Integration) {
			return r.warn("Not authenticated")
		}
		return r.success("✓ Removed cached Spotify token")
	})
}

// Status reports the cached token state. It never refreshes.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	return r.withCache(func(c *cache.Cache) error {
		tok, err := auth.Status(c, r.now())
		expires := tok.ExpiresAt().Local().Format(time.DateTime)

		switch {
		case errors.Is(err, shared.ErrNeedsInitialAuth):
			return r.warn("Not authenticated. Run `aerial music auth`.")
		case errors.Is(err, shared.ErrNeedsRefresh):
			return r.warn("Token expired at %s; it will be refreshed on the next command", expires)
		case err != nil:
			return err
		}
		return r.success("✓ Authenticated, token valid until %s", expires)
	})
}
