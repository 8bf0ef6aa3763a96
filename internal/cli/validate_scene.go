package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seantiz/rssd/internal/scene/loader"
)

// newValidateSceneCommand creates the "validate-scene" subcommand that decodes
// scene files without opening a window.
func newValidateSceneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-scene <file>...",
		Short: "Check that scene files decode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			var failed int
			for _, path := range args {
				doc, err := loader.Decode(path)
				if err != nil {
					logger.Error("invalid scene", "path", path, "error", err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %d nodes, %d entities\n",
					path, doc.Name, doc.NodeCount(), doc.EntityCount())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scene files invalid", failed, len(args))
			}
			return nil
		},
	}
}
