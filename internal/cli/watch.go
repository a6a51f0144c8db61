package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tartampluch/go-contact-sync/internal/calendar"
	"github.com/tartampluch/go-contact-sync/internal/config"
)

// NewServeCalendarCommand creates the serve-calendar command.
func NewServeCalendarCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		port     string
		interval time.Duration
		reminder string
	)

	cmd := &cobra.Command{
		Use:   "serve-calendar",
		Short: "Serve a birthday calendar of the device contacts over HTTP",
		Long: `serve-calendar reads the device contacts every --interval and publishes
their birthdays and anniversaries as an iCalendar feed that calendar
applications can subscribe to.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return errors.New(config.ErrRefreshInterval)
			}
			if err := checkPort(port); err != nil {
				return err
			}
			ctx := cmd.Context()
			feed := calendar.NewFeed(port)
			p := plan{receive: true, quiet: true, feed: feed, reminder: reminder}

			refresh := func() {
				if err := rootOpts.run(cmd, p); err != nil {
					slog.Warn(config.MsgRefreshFailed,
						config.LogKeyComponent, config.CompCLI,
						config.LogKeyError, err,
					)
				}
			}
			refresh()

			serverError := make(chan error, config.ChannelBufferSize)
			go func() { serverError <- feed.Start(ctx) }()
			say(cmd.OutOrStdout(), rootOpts.tr.Format(config.TKeyCalendarServe, map[string]any{
				"Port":     port,
				"Interval": interval.String(),
			}))

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case err := <-serverError:
					return err
				case <-ticker.C:
					refresh()
				}
			}
		},
	}

	cmd.Flags().StringVar(&port, config.FlagPort, config.DefaultCalPort, config.FlagDescCalPort)
	cmd.Flags().DurationVar(&interval, config.FlagInterval, config.DefaultRefresh, config.FlagDescInterval)
	cmd.Flags().StringVar(&reminder, config.FlagReminder, "", config.FlagDescReminder)
	return cmd
}

// NewMirrorCommand creates the mirror command.
func NewMirrorCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Replace the device contacts with the local .vcf file, again on every change",
		Long: `mirror wipes the device and transfers the local address book, then watches
the file and repeats the replacement each time it is saved. The wipe warning
is shown once, before the first replacement.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := rootOpts.Options
			if opts.Source != config.SourceModeLocal {
				return errors.New(config.ErrWatchLocalOnly)
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if err := rootOpts.confirmWipe(ctx, out); err != nil {
				return err
			}
			replace := plan{wipe: true, transfer: true, confirmed: true}
			if err := rootOpts.run(cmd, replace); err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrWatch, err)
			}
			defer watcher.Close()

			// Editors often save by renaming a temporary file, so watch the directory.
			path := filepath.Clean(opts.LocalPath)
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("%s: %w", config.ErrWatch, err)
			}
			say(out, rootOpts.tr.Format(config.TKeyMirrorWatch, map[string]any{"File": path}))

			debounce := time.NewTimer(config.WatchDebounce)
			debounce.Stop()
			defer debounce.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
						continue
					}
					slog.Debug(config.MsgWatchEvent,
						config.LogKeyComponent, config.CompCLI,
						config.LogKeyFile, event.Name,
						config.LogKeyOp, event.Op.String(),
					)
					debounce.Reset(config.WatchDebounce)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					slog.Warn(config.MsgWatchError,
						config.LogKeyComponent, config.CompCLI,
						config.LogKeyError, err,
					)
				case <-debounce.C:
					if err := rootOpts.run(cmd, replace); err != nil {
						if errors.Is(err, context.Canceled) {
							return nil
						}
						slog.Error(config.MsgMirrorFailed,
							config.LogKeyComponent, config.CompCLI,
							config.LogKeyError, err,
						)
					}
				}
			}
		},
	}
}
