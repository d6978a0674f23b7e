// Package main provides storefrontctl, an operator tool for inspecting and repairing
// persisted storefront collections and dry-running the alert engines.
package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"storefront-state-api/internal/app"
	"storefront-state-api/internal/config"
	"storefront-state-api/internal/storage"
)

var version = "1.0.0"

// env holds what PersistentPreRunE opened for the running command.
type env struct {
	cfg     *config.Config
	storage storage.Storage
	closers []app.Closer
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

func main() {
	e := &env{}
	err := rootCmd(e).Execute()
	e.close()
	if err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree. Callers close e after Execute, since cobra skips
// PersistentPostRun when a command fails.
func rootCmd(e *env) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:          "storefrontctl",
		Short:        "Inspect and repair storefront session state",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				log.SetOutput(io.Discard)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg

			backend, closeFn, err := app.OpenStorage(cfg.Storage)
			if err != nil {
				return err
			}
			e.storage = backend
			e.closers = append(e.closers, closeFn)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show component logs")

	cmd.AddCommand(
		collectionsCmd(e),
		alertsCmd(e),
	)
	return cmd
}
