package cli

import (
	"github.com/spf13/cobra"

	"github.com/tartampluch/go-contact-sync/internal/config"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var p plan

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Read the device contacts, then optionally wipe the device and transfer the local address book",
		Long: `sync runs one session against the device: it receives every contact,
optionally exports them, then wipes the device when --delete-all-contacts is set
and transfers the local address book when --transfer is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.receive = true
			return rootOpts.run(cmd, p)
		},
	}

	cmd.Flags().BoolVar(&p.transfer, config.FlagTransfer, false, config.FlagDescTransfer)
	cmd.Flags().BoolVar(&p.wipe, config.FlagWipe, false, config.FlagDescWipe)
	addExportFlags(cmd, &p)
	return cmd
}

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	var p plan

	cmd := &cobra.Command{
		Use:           "pull",
		Short:         "Read every contact stored on the device",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.receive = true
			return rootOpts.run(cmd, p)
		},
	}

	cmd.Flags().BoolVar(&p.print, config.FlagPrint, false, config.FlagDescPrint)
	cmd.Flags().BoolVar(&p.upcoming, config.FlagUpcoming, false, config.FlagDescUpcoming)
	addExportFlags(cmd, &p)
	return cmd
}

// NewPushCommand creates the push command.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "push",
		Short:         "Transfer the local address book to the device",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, plan{transfer: true})
		},
	}
}

// NewWipeCommand creates the wipe command.
func NewWipeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "wipe",
		Short:         "Delete every contact stored on the device",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, plan{wipe: true})
		},
	}
}

func addExportFlags(cmd *cobra.Command, p *plan) {
	cmd.Flags().StringVar(&p.photoDir, config.FlagSavePhotos, "", config.FlagDescSavePhotos)
	cmd.Flags().StringVar(&p.exportVCF, config.FlagExportVCard, "", config.FlagDescExportVCard)
	cmd.Flags().StringVar(&p.exportICS, config.FlagExportICS, "", config.FlagDescExportICS)
	cmd.Flags().StringVar(&p.reminder, config.FlagReminder, "", config.FlagDescReminder)
}
