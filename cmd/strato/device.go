package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newDeviceCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage device assignments",
	}

	cmd.AddCommand(newDeviceAssignCmd(root))
	cmd.AddCommand(newDeviceUnassignCmd(root))
	cmd.AddCommand(newDeviceLocateCmd(root))

	return cmd
}

func newDeviceAssignCmd(root *rootFlags) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "assign <serial>...",
		Short: "Assign devices to a service",
		Long: `Assign attaches one or more devices, identified by serial number or
display name, to a service instance. Devices already assigned to the target
service are reported as warnings; unknown, ambiguous or ineligible devices
are reported as failures. Eligible devices are assigned in a single batched
call.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			led, opErr := app.Engine.AssignDevices(context.Background(), args, service, app.regionOrDefault(root.region))
			return finish(cmd, root.jsonOut, led, opErr)
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Target service name")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

func newDeviceUnassignCmd(root *rootFlags) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "unassign <serial>...",
		Short: "Unassign devices from a service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			led, opErr := app.Engine.UnassignDevices(context.Background(), args, service, app.regionOrDefault(root.region))
			return finish(cmd, root.jsonOut, led, opErr)
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service name to unassign from")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

func newDeviceLocateCmd(root *rootFlags) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "locate <serial>...",
		Short: "Assign devices to a location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			led, opErr := app.Engine.AssignLocation(context.Background(), args, location)
			return finish(cmd, root.jsonOut, led, opErr)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Target location name")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}
