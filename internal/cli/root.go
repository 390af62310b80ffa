// Package cli implements the tnplan command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	registryPath string
	verbose      bool

	logger = zap.NewNop()
)

// rootCmd is the root command for tnplan.
var rootCmd = &cobra.Command{
	Use:     "tnplan",
	Version: "dev",
	Short:   "Planar tensor-network contraction compiler",
	Long: `tnplan lowers named-index tensor diagram expressions into ordered
plans of elementary binary contractions.

It verifies that each diagram is realizable without leg crossings and,
where crossings are explicit, either synthesizes concrete crossing
tensors or removes them by index rewiring.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("cli: init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// SetVersion stamps the build version onto the root command.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&registryPath, "registry", "r", "", "YAML object registry (leg counts and spaces)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log compilation passes")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
