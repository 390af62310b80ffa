package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/tnplan/normalize"
	"github.com/katalvlaran/tnplan/parse"
	"github.com/katalvlaran/tnplan/planar"
)

var checkCmd = &cobra.Command{
	Use:   "check <statements>",
	Short: "Check that diagram statements are planar",
	Long: `Check parses the given statements and verifies each assignment is
realizable without leg crossings: some admissible cyclic ordering of
the right-hand side matches the target's boundary order.`,
	Example: `  tnplan check 'E[a,b] := A[a;c] * B[c;b]'`,
	Args:    cobra.ExactArgs(1),
	RunE:    runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	stmts, err := parse.Parse(args[0])
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		norm := normalize.Normalize(stmt)
		logger.Debug("checking", zap.Stringer("stmt", norm))
		if err := planar.Check(norm); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "planar: %s\n", stmt)
	}
	return nil
}
