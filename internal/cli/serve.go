package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/device"
)

// NewServeDeviceCommand creates the serve-device command.
func NewServeDeviceCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve-device",
		Short: "Expose the selected device over HTTP as a device bridge",
		Long: `serve-device publishes the device selected by --device (the in-memory
emulator by default) on the bridge protocol, so that another contact-sync
can reach it with --device http://host:port.

When --device-user is set, clients must authenticate with that user and the
password stored in the keyring.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkPort(port); err != nil {
				return err
			}
			dev, err := rootOpts.connect()
			if err != nil {
				return err
			}
			user := rootOpts.Options.DeviceUser
			srv := device.NewServer(dev, port, user, secret(user))

			say(cmd.OutOrStdout(), rootOpts.tr.Format(config.TKeyBridgeListen, map[string]any{"Port": port}))
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	return cmd
}

// NewCredentialsCommand creates the credentials command group.
func NewCredentialsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage passwords stored in the system keyring",
	}
	cmd.AddCommand(newCredentialsSetCommand(rootOpts))
	return cmd
}

func newCredentialsSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <user>",
		Short:         "Store the password of a web source or device user, read from stdin",
		Example:       `  echo "s3cret" | contact-sync credentials set alice`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := args[0]
			pass, err := readPassword(cmd)
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrPasswordRead, err)
			}

			if err := keyring.Set(config.KeyringService, user, pass); err != nil {
				return fmt.Errorf("%s: %w", config.ErrKeyring, err)
			}
			say(cmd.OutOrStdout(), rootOpts.tr.Format(config.TKeyCredSaved, map[string]any{"User": user}))
			return nil
		},
	}
}

// readPassword prompts without echo on a terminal and reads the first
// line of input otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), config.PromptPassword)
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		return string(data), err
	}
	data, err := io.ReadAll(io.LimitReader(in, config.MaxPasswordBytes))
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), config.MsgVersionOutput, config.BinaryName, config.Version, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
