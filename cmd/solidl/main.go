// Command solidl inspects, renders, and decodes Solana program IDLs
//. It is a thin wrapper over the idl package: all
// parsing, hydration, encoding, and resolution logic lives there.
package main

import (
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/solana-toolbox/solidl/cmd/solidl/internal/cli"
)

func main() {
	logger := log.New(os.Stderr)

	root := &cobra.Command{
		Use:           "solidl",
		Short:         "Inspect and decode Solana program IDLs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetLevel(log.DebugLevel)
		}
	}

	root.AddCommand(
		cli.NewParseCommand(logger),
		cli.NewRenderCommand(logger),
		cli.NewGuessAccountCommand(logger),
		cli.NewNativeCommand(logger),
	)

	if err := root.Execute(); err != nil {
		logger.Error("solidl failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
