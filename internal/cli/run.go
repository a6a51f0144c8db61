package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tartampluch/go-contact-sync/internal/calendar"
	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
	"github.com/tartampluch/go-contact-sync/internal/record"
	"github.com/tartampluch/go-contact-sync/internal/session"
	"github.com/tartampluch/go-contact-sync/internal/store"
)

// plan lists the phases one session runs, in execution order:
// receive, wipe, transfer.
type plan struct {
	receive  bool
	wipe     bool
	transfer bool

	// confirmed skips the wipe warning and delay.
	confirmed bool
	// quiet discards user messages.
	quiet bool

	print     bool
	upcoming  bool
	photoDir  string
	exportVCF string
	exportICS string
	reminder  string
	feed      *calendar.Feed
}

// run executes p in a single session. The session is always stopped, even
// when ctx is cancelled.
func (o *RootOptions) run(cmd *cobra.Command, p plan) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	if p.quiet {
		out = io.Discard
	}

	// Load the source first so a bad address book fails before touching the device.
	var local contact.Map
	if p.transfer {
		if local, err = o.loadLocal(ctx); err != nil {
			return err
		}
	}

	sess, err := o.newSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := sess.Stop(context.WithoutCancel(ctx)); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	kind, err := sess.Start(ctx)
	if err != nil {
		return err
	}
	say(out, o.tr.Format(config.TKeySyncKind, map[string]any{"Kind": kind.String()}))

	if p.receive {
		if err := o.receive(ctx, out, sess, p); err != nil {
			return err
		}
	}

	if p.wipe {
		if !p.confirmed {
			if err := o.confirmWipe(ctx, out); err != nil {
				return err
			}
		}
		if err := sess.WipeAll(ctx); err != nil {
			return err
		}
		say(out, o.tr.Msg(config.TKeyWipeDone))
	}

	if p.transfer {
		if len(local) == 0 {
			say(out, o.tr.Msg(config.TKeyNoLocal))
			return nil
		}
		if err := sess.SendContacts(ctx, local); err != nil {
			return err
		}
		say(out, o.tr.Format(config.TKeySent, map[string]any{"Count": len(local)}))
	}
	return nil
}

// receive reads every contact from the device, then prints and exports them.
// Records the device sent malformed are reported but do not fail the command.
func (o *RootOptions) receive(ctx context.Context, out io.Writer, sess *session.Session, p plan) error {
	contacts, err := sess.ReceiveContacts(ctx)
	switch {
	case err == nil:
	case errors.Is(err, record.ErrValidation):
		say(out, o.tr.Format(config.TKeyDecodeIssues, map[string]any{"Error": err.Error()}))
	default:
		return err
	}

	if len(contacts) == 0 {
		say(out, o.tr.Msg(config.TKeyReceivedZero))
	} else {
		say(out, o.tr.Format(config.TKeyReceived, map[string]any{"Count": len(contacts)}))
	}

	if p.print {
		if err := contacts.Dump(out); err != nil {
			return err
		}
	}
	if p.photoDir != "" {
		n, err := savePhotos(p.photoDir, contacts)
		if err != nil {
			return err
		}
		say(out, o.tr.Format(config.TKeyPhotosSaved, map[string]any{"Count": n, "Dir": p.photoDir}))
	}
	if p.exportVCF != "" {
		if err := writeFile(p.exportVCF, func(w io.Writer) error { return store.WriteVCards(w, contacts) }); err != nil {
			return err
		}
		say(out, o.tr.Format(config.TKeyExported, map[string]any{"File": p.exportVCF}))
	}
	if p.exportICS == "" && p.feed == nil && !p.upcoming {
		return nil
	}

	data, entries, _, err := o.generator().Generate(ctx, contacts, p.reminder)
	if err != nil {
		return err
	}
	if p.upcoming {
		say(out, o.upcomingTable(entries))
	}
	if p.feed != nil {
		p.feed.Update(data)
	}
	if p.exportICS != "" {
		if err := writeFile(p.exportICS, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}); err != nil {
			return err
		}
		say(out, o.tr.Format(config.TKeyExported, map[string]any{"File": p.exportICS}))
	}
	return nil
}

// loadLocal reads the configured local address book.
func (o *RootOptions) loadLocal(ctx context.Context) (contact.Map, error) {
	if err := o.Options.Validate(); err != nil {
		return nil, err
	}
	src, err := o.source()
	if err != nil {
		return nil, err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}
	return src.Load(ctx)
}

// confirmWipe warns the user and waits for the wipe delay. Cancelling ctx
// (Ctrl+C) aborts the wipe.
func (o *RootOptions) confirmWipe(ctx context.Context, out io.Writer) error {
	delay := o.Options.WipeDelay
	say(out, o.tr.Format(config.TKeyWipeWarning, map[string]any{"Delay": delay.String()}))
	if delay <= 0 {
		return nil
	}
	say(out, o.tr.Msg(config.TKeyWipeInterrupt))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// generator returns a calendar generator with localized event titles.
func (o *RootOptions) generator() *calendar.Generator {
	return &calendar.Generator{
		FormatSummary: func(name string, age int, yearKnown bool) string {
			switch {
			case !yearKnown:
				return o.tr.Format(config.TKeyEvtSummary, map[string]any{"Name": name})
			case age == 0:
				return o.tr.Format(config.TKeyEvtBirth, map[string]any{"Name": name})
			default:
				return o.tr.Format(config.TKeyEvtAge, map[string]any{"Name": name, "Age": age})
			}
		},
		FormatAnniversary: func(name string, years int, yearKnown bool) string {
			if !yearKnown || years == 0 {
				return o.tr.Format(config.TKeyEvtAnniv, map[string]any{"Name": name})
			}
			return o.tr.Format(config.TKeyEvtAnnivYears, map[string]any{"Name": name, "Years": years})
		},
	}
}

func say(w io.Writer, msg string) {
	fmt.Fprintln(w, msg)
}

// writeFile creates path and fills it with write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteFile, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: %w", config.ErrWriteFile, cerr)
		}
	}()
	if err := write(f); err != nil {
		return err
	}
	slog.Info(config.MsgExportWritten,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyFile, path,
	)
	return nil
}
