package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/tnplan"
	"github.com/katalvlaran/tnplan/exec"
	"github.com/katalvlaran/tnplan/parse"
	"github.com/katalvlaran/tnplan/registry"
	"github.com/katalvlaran/tnplan/texpr"
)

var (
	modeFlag    string
	executeFlag bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <statement>",
	Short: "Compile one diagram assignment into a contraction plan",
	Long: `Compile parses one assignment statement, lowers it through the full
pass pipeline and prints the resulting plan: bindings, arity checks,
pre-statements and the final expression.

Crossing placeholders (the reserved name "braid") are resolved
according to --mode: "braid" constructs concrete crossing tensors
(this needs --registry to answer leg-space queries), "nobraid"
removes them by rewiring indices across each crossing.`,
	Example: `  tnplan compile -r objects.yaml 'E[a,b] := A[a;c] * B[c;b]'
  tnplan compile --mode nobraid 'F[p,q] = braid[p,q;r,s] * G[r,s]'`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&modeFlag, "mode", "braid", "Crossing treatment: braid | nobraid")
	compileCmd.Flags().BoolVar(&executeFlag, "execute", false, "Replay the plan against the registry's space-level objects")
}

func runCompile(cmd *cobra.Command, args []string) error {
	stmt, err := parse.ParseAssign(args[0])
	if err != nil {
		return err
	}
	logger.Debug("parsed statement", zap.Stringer("stmt", stmt))

	opts := []tnplan.Option{tnplan.WithOnStep(func(s texpr.Step) {
		logger.Debug("emitted step", zap.Stringer("step", s))
	})}
	switch modeFlag {
	case "braid":
		opts = append(opts, tnplan.WithMode(tnplan.ConstructBraids))
	case "nobraid":
		opts = append(opts, tnplan.WithMode(tnplan.RemoveBraids))
	default:
		return fmt.Errorf("cli: unknown --mode %q (want braid or nobraid)", modeFlag)
	}

	var reg *registry.Registry
	if registryPath != "" {
		if reg, err = registry.Load(registryPath); err != nil {
			return err
		}
		opts = append(opts, tnplan.WithInventory(reg))
	}

	plan, err := tnplan.Compile(stmt, opts...)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, plan)

	if !executeFlag {
		return nil
	}
	if reg == nil {
		return fmt.Errorf("cli: --execute needs --registry")
	}
	final, err := exec.NewRunner().Run(plan, reg.Env())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "result legs: %s\n", spaceList(final.Legs()))
	return nil
}

func spaceList(spaces []texpr.Space) string {
	parts := make([]string, len(spaces))
	for i, s := range spaces {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
