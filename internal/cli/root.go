// Package cli implements the contact-sync command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/device"
	"github.com/tartampluch/go-contact-sync/internal/i18n"
	"github.com/tartampluch/go-contact-sync/internal/session"
	"github.com/tartampluch/go-contact-sync/internal/store"
	"github.com/tartampluch/go-contact-sync/internal/transport"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	ConfigFile string

	// Options is resolved from flags, environment and config file before any command runs.
	Options config.Options

	// OnConfigured, when set, is called once Options is resolved (logging setup).
	OnConfigured func(config.Options)

	// Device, when set, replaces the device selected by --device.
	Device transport.Transport

	// Fetcher downloads web sources. Defaults to store.NewHTTPFetcher().
	Fetcher store.Fetcher

	tr *i18n.Translator
}

// NewRootCommand creates the root command.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = &RootOptions{}
	}
	defaults := config.DefaultOptions()

	cmd := &cobra.Command{
		Use:   config.BinaryName,
		Short: "Synchronize a vCard address book with a device contacts store",
		Long: `contact-sync exchanges contacts with a device-resident contacts sync service.

It reads every contact stored on the device, can wipe it, and transfers a local
address book (a .vcf file, a CardDAV/WebDAV export or a MySQL table) to it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.Load(opts.ConfigFile, cmd.Flags())
			if err != nil {
				return err
			}
			opts.Options = resolved
			opts.tr = i18n.New(resolved.Lang)
			if opts.OnConfigured != nil {
				opts.OnConfigured(resolved)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigFile, config.FlagConfig, "", config.FlagDescConfig)
	pf.Bool(config.FlagDebug, false, config.FlagDescDebug)
	pf.Bool(config.FlagDump, false, config.FlagDescDump)
	pf.String(config.FlagLang, defaults.Lang, config.FlagDescLang)
	pf.String(config.FlagDevice, defaults.Device, config.FlagDescDevice)
	pf.String(config.FlagDeviceUser, "", config.FlagDescDeviceUser)
	pf.Int(config.FlagChunkSize, defaults.ChunkSize, config.FlagDescChunkSize)
	pf.String(config.FlagSource, defaults.Source, config.FlagDescSource)
	pf.String(config.FlagLocalPath, "", config.FlagDescLocalPath)
	pf.String(config.FlagWebURL, "", config.FlagDescWebURL)
	pf.String(config.FlagWebUser, "", config.FlagDescWebUser)
	pf.String(config.FlagWebPass, "", config.FlagDescWebPass)
	pf.String(config.FlagMySQLDSN, "", config.FlagDescMySQLDSN)
	pf.Duration(config.FlagWipeDelay, defaults.WipeDelay, config.FlagDescWipeDelay)

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewPushCommand(opts))
	cmd.AddCommand(NewWipeCommand(opts))
	cmd.AddCommand(NewMirrorCommand(opts))
	cmd.AddCommand(NewServeDeviceCommand(opts))
	cmd.AddCommand(NewServeCalendarCommand(opts))
	cmd.AddCommand(NewCredentialsCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// connect returns the device selected by the options.
func (o *RootOptions) connect() (transport.Transport, error) {
	if o.Device != nil {
		return o.Device, nil
	}
	switch o.Options.Device {
	case "":
		return nil, errors.New(config.ErrDeviceEmpty)
	case config.DeviceMemory:
		return device.NewMemory(o.Options.ChunkSize), nil
	default:
		user := o.Options.DeviceUser
		return transport.NewHTTPTransport(o.Options.Device, user, secret(user))
	}
}

// source returns the local contact source selected by the options.
// The web password falls back on the keyring.
func (o *RootOptions) source() (store.Source, error) {
	resolved := o.Options
	if resolved.Source == config.SourceModeWeb && resolved.WebPass == "" {
		resolved.WebPass = secret(resolved.WebUser)
	}
	fetcher := o.Fetcher
	if fetcher == nil {
		fetcher = store.NewHTTPFetcher()
	}
	return store.NewSource(resolved, fetcher)
}

// newSession opens a session on the selected device.
func (o *RootOptions) newSession(cmd *cobra.Command) (*session.Session, error) {
	t, err := o.connect()
	if err != nil {
		return nil, err
	}
	var dump io.Writer
	if o.Options.Dump {
		dump = cmd.ErrOrStderr()
	}
	return session.New(t, session.Options{DumpWriter: dump}), nil
}

// checkPort validates a listening port given on the command line.
func checkPort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < config.MinPort || n > config.MaxPort {
		return fmt.Errorf("%s: %q", config.ErrPortRange, port)
	}
	return nil
}

// secret reads the password stored for user, empty when there is none.
func secret(user string) string {
	if user == "" {
		return ""
	}
	pass, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyUser, user,
			config.LogKeyError, err,
		)
		return ""
	}
	return pass
}
