package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/participant"
)

var errAppRequired = errors.New("application name is required; set --app, PARTICIPANT_APP or appName in the config file")

// OpenFunc builds the service a command operates on.
type OpenFunc func(ctx context.Context, cfg *participant.Config) (*participant.Service, error)

type options struct {
	configPath string
	appName    string
	prefix     string
	storeKind  string
	storePath  string
	storeURL   string
	logLevel   string
	output     string
	requireApp bool
}

// NewRoot constructs the root command. A nil open uses
// participant.NewFromConfig.
func NewRoot(open OpenFunc) *cobra.Command {
	if open == nil {
		open = func(ctx context.Context, cfg *participant.Config) (*participant.Service, error) {
			return participant.NewFromConfig(ctx, cfg)
		}
	}
	opts := &options{}
	root := &cobra.Command{
		Use:           "participant",
		Short:         "Inspect and manage participant identifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       participant.Version,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (.yaml, .toml or .json)")
	flags.StringVar(&opts.appName, "app", "", "application name for attributes")
	flags.StringVar(&opts.prefix, "prefix", "", "storage key prefix")
	flags.StringVar(&opts.storeKind, "store", "", "store kind: memory, fs, pebble, bolt, postgres, s3")
	flags.StringVar(&opts.storePath, "path", "", "store path (fs base URL, pebble directory, bolt file)")
	flags.StringVar(&opts.storeURL, "url", "", "postgres connection string or s3 endpoint URL")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text, json or yaml")

	withService := func(cmd *cobra.Command, fn func(ctx context.Context, srv *participant.Service) error) error {
		cfg, err := opts.config(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		srv, err := open(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = srv.Close() }()
		return fn(ctx, srv)
	}

	root.AddCommand(newIDCommand(opts, withService))
	root.AddCommand(newAttrCommand(opts, withService))
	return root
}

type serviceRunner func(cmd *cobra.Command, fn func(ctx context.Context, srv *participant.Service) error) error

func (o *options) config(cmd *cobra.Command) (*participant.Config, error) {
	cfg := participant.DefaultConfig()
	if o.configPath != "" {
		loaded, err := participant.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}
	flags := cmd.Flags()
	if flags.Changed("app") {
		cfg.AppName = o.appName
	}
	if flags.Changed("prefix") {
		cfg.Prefix = o.prefix
	}
	if flags.Changed("store") {
		cfg.Store.Kind = o.storeKind
	}
	if flags.Changed("path") {
		cfg.Store.Path = o.storePath
	}
	if flags.Changed("url") {
		cfg.Store.URL = o.storeURL
	}
	if o.configPath == "" || flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if cfg.AppName == "" {
		if o.requireApp {
			return nil, errAppRequired
		}
		// identifier commands do not use the application name
		cfg.AppName = "participant"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
