package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCredentialCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage API credentials",
	}

	cmd.AddCommand(newCredentialCreateCmd(root))
	cmd.AddCommand(newCredentialListCmd(root))

	return cmd
}

func newCredentialCreateCmd(root *rootFlags) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Issue an API credential for a service",
		Long: `Create issues a new API credential bound to a service. Creation is gated
by the platform's per-tenant credential limit; the current count is read
fresh before every attempt. The secret is returned exactly once and cached
for the rest of the session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			led, opErr := app.Engine.CreateCredential(context.Background(), args[0], service, app.regionOrDefault(root.region))
			return finish(cmd, root.jsonOut, led, opErr)
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service the credential is bound to")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

func newCredentialListCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issued API credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			credentials, err := app.Client.ListCredentials(context.Background())
			if err != nil {
				return err
			}

			if root.jsonOut || !isTerminal(cmd.OutOrStdout()) {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(credentials)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tSERVICE")
			for _, c := range credentials {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", c.ID, c.Name, c.ServiceID)
			}
			return writer.Flush()
		},
	}

	return cmd
}
