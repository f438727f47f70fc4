package main

import (
	"fmt"

	"chat-relay/storage/seed"

	"github.com/spf13/cobra"
)

func NewSeedCommand(opts *RootOptions, config Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create the users, channels and memberships listed in a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			store, err := opts.open(cmd.Context(), config)
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := seed.Apply(cmd.Context(), store, file, opts.logger())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "users: %d, channels: %d, memberships: %d\n",
				report.Users, report.Channels, report.Memberships)
			return err
		},
	}
}
