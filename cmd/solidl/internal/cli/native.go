package cli

import (
	"fmt"

	"charm.land/log/v2"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/solana-toolbox/solidl/idl/native"
)

// NewNativeCommand builds `solidl native list` and `solidl native derive`:
// inspecting the bundled native-program IDLs and exercising their standard
// PDA derivations.
func NewNativeCommand(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "native",
		Short: "Inspect the bundled native-program IDLs",
	}
	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the bundled native programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := native.Names()
			logger.Debug("listing bundled native programs", "count", len(names))
			for _, name := range names {
				program, ok := native.ByName(name)
				if !ok {
					continue
				}
				addr := "(no fixed address)"
				if program.Address != nil {
					addr = program.Address.String()
				}
				fmt.Printf("%-28s %s\n", name, addr)
			}
			return nil
		},
	})
	root.AddCommand(newNativeDeriveCommand(logger))
	return root
}

// newNativeDeriveCommand builds `solidl native derive ata --wallet=...
// --mint=...` and `solidl native derive program-data --program=...`,
// exercising native.DeriveAssociatedTokenAccount and
// native.DeriveProgramDataAddress respectively.
func newNativeDeriveCommand(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "derive",
		Short: "Derive addresses owned by the bundled native programs",
	}

	var wallet, mint string
	ataCmd := &cobra.Command{
		Use:   "ata",
		Short: "Derive an associated-token-account address",
		RunE: func(cmd *cobra.Command, args []string) error {
			walletKey, err := solana.PublicKeyFromBase58(wallet)
			if err != nil {
				return fmt.Errorf("parsing --wallet: %w", err)
			}
			mintKey, err := solana.PublicKeyFromBase58(mint)
			if err != nil {
				return fmt.Errorf("parsing --mint: %w", err)
			}
			address, bump, err := native.DeriveAssociatedTokenAccount(walletKey, mintKey)
			if err != nil {
				return err
			}
			logger.Debug("derived associated token account", "bump", bump)
			fmt.Println(address.String())
			return nil
		},
	}
	ataCmd.Flags().StringVar(&wallet, "wallet", "", "wallet owner public key")
	ataCmd.Flags().StringVar(&mint, "mint", "", "mint public key")
	root.AddCommand(ataCmd)

	var program string
	programDataCmd := &cobra.Command{
		Use:   "program-data",
		Short: "Derive a BPF Loader Upgradeable program-data address",
		RunE: func(cmd *cobra.Command, args []string) error {
			programKey, err := solana.PublicKeyFromBase58(program)
			if err != nil {
				return fmt.Errorf("parsing --program: %w", err)
			}
			address, bump, err := native.DeriveProgramDataAddress(programKey)
			if err != nil {
				return err
			}
			logger.Debug("derived program-data address", "bump", bump)
			fmt.Println(address.String())
			return nil
		},
	}
	programDataCmd.Flags().StringVar(&program, "program", "", "upgradeable program id")
	root.AddCommand(programDataCmd)

	return root
}
