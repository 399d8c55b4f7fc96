package app

import (
	"context"
	"fmt"

	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf TUI.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses default ~/.config/shelf/prefs.toml
}

// Run boots the shelf TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session, err := Open(ctx, opts.Config)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)
	StartRefresher(ctx, session.Manager(), opts.Config.RefreshInterval(), session.Logger())

	uiOpts := ui.Options{
		Context:   ctx,
		Library:   session.Manager(),
		Logger:    session.Logger(),
		LogPath:   opts.Config.LogFile,
		APIURL:    opts.Config.APIURL,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	}
	if err := ui.Run(uiOpts); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
