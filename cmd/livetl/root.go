package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/livetl/config"
	"github.com/ZaguanLabs/livetl/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	translate := newTranslateCmd(opts)

	root := &cobra.Command{
		Use:   "livetl",
		Short: "Live translation as you type",
		Long: `livetl translates text while you type. Edits are debounced, so only the
text you settle on is sent to the translation service.

Running livetl without a subcommand starts the interactive session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          translate.RunE,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: search ./livetl.toml, ~/.config/livetl, /etc/livetl)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	// The root command shares the translate flags so it can stand in for it
	root.Flags().AddFlagSet(translate.Flags())

	root.AddCommand(translate, newServeCmd(opts), newVersionCmd())
	return root
}

// load reads the config file and applies the persistent flags.
func (o *rootOptions) load() (*config.Config, string, error) {
	cfg, path, err := config.Load(o.configPath)
	if err != nil {
		return nil, "", err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	return cfg, path, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level, cfg.Log.Format), nil
}
