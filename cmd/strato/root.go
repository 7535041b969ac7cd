package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	region     string
	verbose    bool
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "strato",
		Short:         "Strato orchestrates services, devices and credentials on the platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", defaultConfigPath(), "Path to the configuration file")
	cmd.PersistentFlags().StringVar(&flags.region, "region", "", "Target region (overrides the configured default)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "Output results in JSON format")

	cmd.AddCommand(newServiceCmd(flags))
	cmd.AddCommand(newDeviceCmd(flags))
	cmd.AddCommand(newCredentialCmd(flags))
	cmd.AddCommand(newWebhookCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
