package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/viant/participant"
)

func newAttrCommand(opts *options, run serviceRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attr",
		Short: "Manage attributes of the configured application",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.requireApp = true
			return nil
		},
	}
	cmd.AddCommand(newAttrGetCommand(opts, run))
	cmd.AddCommand(newAttrSetCommand(opts, run))
	cmd.AddCommand(newAttrDeleteCommand(opts, run))
	cmd.AddCommand(newAttrExistsCommand(opts, run))
	return cmd
}

func newAttrGetCommand(opts *options, run serviceRunner) *cobra.Command {
	var def string
	cmd := &cobra.Command{
		Use:   "get <field>",
		Short: "Print an attribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, srv *participant.Service) error {
				var fallback any
				if cmd.Flags().Changed("default") {
					fallback = parseValue(def, false)
				}
				value, err := srv.GetAttribute(ctx, args[0], fallback)
				if err != nil {
					return err
				}
				return write(cmd.OutOrStdout(), opts.output, value)
			})
		},
	}
	cmd.Flags().StringVar(&def, "default", "", "value printed when the attribute is absent")
	return cmd
}

func newAttrSetCommand(opts *options, run serviceRunner) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Store an attribute; JSON values are stored structured unless --raw",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, srv *participant.Service) error {
				return srv.SetAttribute(ctx, args[0], parseValue(args[1], raw))
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "store the value as a string")
	return cmd
}

func newAttrDeleteCommand(opts *options, run serviceRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <field>",
		Short: "Delete an attribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, srv *participant.Service) error {
				return srv.DeleteAttribute(ctx, args[0])
			})
		},
	}
}

func newAttrExistsCommand(opts *options, run serviceRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <field>",
		Short: "Report whether an attribute is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, srv *participant.Service) error {
				ok, err := srv.AttributeExists(ctx, args[0])
				if err != nil {
					return err
				}
				return write(cmd.OutOrStdout(), opts.output, ok)
			})
		},
	}
}

// parseValue decodes text as JSON, falling back to the string itself.
func parseValue(text string, raw bool) any {
	if raw {
		return text
	}
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return text
	}
	return value
}
