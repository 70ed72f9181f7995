package cli

import (
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/solana-toolbox/solidl/idl"
)

// NewRenderCommand builds `solidl render <idl.json> --dialect=<name>
// --out=<path>`: re-emits a parsed IDL into one of the supported JSON
// dialects.
func NewRenderCommand(logger *log.Logger) *cobra.Command {
	var dialectName, outPath string
	cmd := &cobra.Command{
		Use:   "render <idl.json>",
		Short: "Re-emit an IDL file in a chosen JSON dialect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := parseDialect(dialectName)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read idl file: %w", err)
			}
			program, err := idl.ParseProgram(raw)
			if err != nil {
				return err
			}
			rendered, err := idl.RenderProgram(program, dialect)
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(string(rendered))
				return nil
			}
			logger.Debug("writing rendered idl", "path", outPath, "dialect", dialectName)
			return os.WriteFile(outPath, rendered, 0o644)
		},
	}
	cmd.Flags().StringVar(&dialectName, "dialect", "human-compact", "output dialect: human-compact, anchor-26, anchor-30")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (default stdout)")
	return cmd
}

func parseDialect(name string) (idl.Dialect, error) {
	switch name {
	case "human-compact", "":
		return idl.DialectHumanCompact, nil
	case "anchor-26":
		return idl.DialectAnchor26, nil
	case "anchor-30":
		return idl.DialectAnchor30, nil
	default:
		return 0, fmt.Errorf("unknown dialect %q", name)
	}
}
