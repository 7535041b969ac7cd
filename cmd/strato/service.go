package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newServiceCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage service instances",
	}

	cmd.AddCommand(newServiceProvisionCmd(root))

	return cmd
}

func newServiceProvisionCmd(root *rootFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "provision <name>",
		Short: "Provision a service into a region and wait for it to come up",
		Long: `Provision requests asynchronous creation of a service instance and polls
the platform until the service reaches a terminal state or the attempt
ceiling is hit. An already provisioned service is reported as a warning; an
in-flight provisioning is joined rather than re-requested.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			name := args[0]
			region := app.regionOrDefault(root.region)

			if watch && isTerminal(cmd.OutOrStdout()) {
				led, opErr := watchProvisioning(cmd, app, name, region)
				return finish(cmd, root.jsonOut, led, opErr)
			}

			led, opErr := app.Engine.ProvisionService(context.Background(), name, region)
			return finish(cmd, root.jsonOut, led, opErr)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Show a live progress indicator while waiting")

	return cmd
}
