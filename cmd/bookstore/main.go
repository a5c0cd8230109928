// Command bookstore serves the book store HTTP API.
//
// Configuration is read from BOOKSTORE_* environment variables, flags of the serve command win over them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/bookstore-go/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "bookstore:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookstore",
		Short:         "In-memory book store with a JSON HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(), newVersionCommand())

	return root
}

func newServeCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}

			cfg = flags.applyTo(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			return serve(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.addr, flagAddr, "", "listen address, overrides BOOKSTORE_HTTP_ADDR")
	cmd.Flags().StringVar(&flags.logLevel, flagLogLevel, "", "debug, info, warn or error, overrides BOOKSTORE_LOG_LEVEL")
	cmd.Flags().StringVar(&flags.logFormat, flagLogFormat, "", "json or text, overrides BOOKSTORE_LOG_FORMAT")
	cmd.Flags().StringVar(&flags.idFormat, flagIDFormat, "", "uuid or compact, overrides BOOKSTORE_ID_FORMAT")

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

const (
	flagAddr      = "addr"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagIDFormat  = "id-format"
)

type serveFlags struct {
	addr      string
	logLevel  string
	logFormat string
	idFormat  string
}

// applyTo overrides cfg with every flag that was set explicitly.
func (f serveFlags) applyTo(cmd *cobra.Command, cfg config.Config) config.Config {
	if cmd.Flags().Changed(flagAddr) {
		cfg.HTTPAddr = f.addr
	}

	if cmd.Flags().Changed(flagLogLevel) {
		cfg.LogLevel = f.logLevel
	}

	if cmd.Flags().Changed(flagLogFormat) {
		cfg.LogFormat = f.logFormat
	}

	if cmd.Flags().Changed(flagIDFormat) {
		cfg.IDFormat = f.idFormat
	}

	return cfg
}
