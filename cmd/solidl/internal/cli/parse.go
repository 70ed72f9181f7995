package cli

import (
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/solana-toolbox/solidl/idl"
)

// NewParseCommand builds `solidl parse <idl.json>`: parses and hydrates
// the file, then prints a one-line summary of every top-level collection
// it declares.
func NewParseCommand(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <idl.json>",
		Short: "Parse and hydrate an IDL file, reporting a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read idl file: %w", err)
			}
			program, err := idl.ParseProgram(raw)
			if err != nil {
				return err
			}
			logger.Debug("parsed program", "name", program.Metadata.Name, "version", program.Metadata.Version)
			fmt.Printf("program: %s (%s)\n", program.Metadata.Name, program.Metadata.Version)
			if program.Address != nil {
				fmt.Printf("address: %s\n", program.Address.String())
			}
			fmt.Printf("instructions: %d\n", len(program.Instructions()))
			fmt.Printf("accounts:     %d\n", len(program.Accounts()))
			fmt.Printf("events:       %d\n", len(program.Events()))
			fmt.Printf("errors:       %d\n", len(program.Errors()))
			fmt.Printf("types:        %d\n", len(program.Typedefs))
			fmt.Printf("constants:    %d\n", len(program.Constants))
			return nil
		},
	}
}
