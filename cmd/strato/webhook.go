package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newWebhookCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage event webhooks",
	}

	cmd.AddCommand(newWebhookCreateCmd(root))
	cmd.AddCommand(newWebhookDeleteCmd(root))
	cmd.AddCommand(newWebhookListCmd(root))

	return cmd
}

func newWebhookCreateCmd(root *rootFlags) *cobra.Command {
	var (
		target string
		events []string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register an event webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			led, opErr := app.Engine.CreateWebhook(context.Background(), args[0], target, events)
			return finish(cmd, root.jsonOut, led, opErr)
		},
	}

	cmd.Flags().StringVar(&target, "url", "", "Delivery URL for events")
	cmd.Flags().StringSliceVar(&events, "events", nil, "Event types to subscribe to")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newWebhookDeleteCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete webhooks by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			led, opErr := app.Engine.DeleteWebhooks(context.Background(), args)
			return finish(cmd, root.jsonOut, led, opErr)
		},
	}

	return cmd
}

func newWebhookListCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered webhooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(root)
			if err != nil {
				fatalConfig(err)
			}
			defer app.Close()

			webhooks, err := app.Client.ListWebhooks(context.Background())
			if err != nil {
				return err
			}

			if root.jsonOut || !isTerminal(cmd.OutOrStdout()) {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(webhooks)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tURL")
			for _, w := range webhooks {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", w.ID, w.Name, w.URL)
			}
			return writer.Flush()
		},
	}

	return cmd
}
