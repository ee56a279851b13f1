package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/foldeval/refold/pkg/config"
)

var (
	rootVerbose    bool
	rootConfigPath string
)

var log = logrus.New()

// NewRootCmd builds the refold command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "refold",
		Short: "Set up and dispatch protein backbone refolding evaluations",
		Long: `refold prepares an environment for the Scaffold-Lab refolding pipeline
and dispatches motif-scaffolding or unconditional evaluation runs against it.

All structure prediction and metric computation happens inside the external
pipeline; refold owns provisioning, configuration and the single dispatch.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootVerbose {
				log.SetLevel(logrus.DebugLevel)
			} else {
				log.SetLevel(logrus.WarnLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", config.DefaultFileName, "Path to the run configuration file")

	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
