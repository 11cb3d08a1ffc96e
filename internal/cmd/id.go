package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/viant/participant"
)

var errForce = errors.New("this breaks continuity with systems that recorded the identifier; rerun with --force")

func newIDCommand(opts *options, run serviceRunner) *cobra.Command {
	var noGenerate bool
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Print the participant identifier, generating it when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, srv *participant.Service) error {
				id, err := srv.GetID(ctx, !noGenerate)
				if err != nil {
					return err
				}
				return write(cmd.OutOrStdout(), opts.output, id)
			})
		},
	}
	cmd.Flags().BoolVar(&noGenerate, "no-generate", false, "do not generate an identifier when none is stored")
	cmd.AddCommand(newIDInfoCommand(opts, run))
	cmd.AddCommand(newIDRegenerateCommand(opts, run))
	cmd.AddCommand(newIDDeleteCommand(opts, run))
	return cmd
}

func newIDInfoCommand(opts *options, run serviceRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the identity record without generating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, srv *participant.Service) error {
				record, err := srv.Record(ctx)
				if err != nil {
					return err
				}
				format := opts.output
				if format == "text" {
					format = "yaml"
				}
				return write(cmd.OutOrStdout(), format, record)
			})
		},
	}
}

func newIDRegenerateCommand(opts *options, run serviceRunner) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Replace the identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errForce
			}
			return run(cmd, func(ctx context.Context, srv *participant.Service) error {
				id, err := srv.Regenerate(ctx)
				if err != nil {
					return err
				}
				return write(cmd.OutOrStdout(), opts.output, id)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm the replacement")
	return cmd
}

func newIDDeleteCommand(opts *options, run serviceRunner) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the identifier and its timestamps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errForce
			}
			return run(cmd, func(ctx context.Context, srv *participant.Service) error {
				return srv.Delete(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm the deletion")
	return cmd
}
