package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/solana-toolbox/solidl/idl"
)

// NewGuessAccountCommand builds `solidl guess-account <idl.json>
// <base64-data>`: finds the best-matching declared account schema for raw
// data and decodes it.
func NewGuessAccountCommand(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "guess-account <idl.json> <base64-data>",
		Short: "Guess which declared account schema matches raw data, and decode it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read idl file: %w", err)
			}
			program, err := idl.ParseProgram(raw)
			if err != nil {
				return err
			}
			data, err := base64.StdEncoding.DecodeString(args[1])
			if err != nil {
				return fmt.Errorf("decode base64 account data: %w", err)
			}
			account, ok := program.GuessAccount(data)
			if !ok {
				return fmt.Errorf("no declared account schema matches the given data")
			}
			logger.Debug("matched account schema", "name", account.Name)
			decoded, err := account.Decode(data)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(map[string]any{"account": account.Name, "data": decoded}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
