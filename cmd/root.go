package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/equivrw"
	"github.com/gnoswap-labs/equivrw/formatter"
)

var (
	cfgFile string
	verbose bool

	config equivrw.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "equivrw",
	Short:            "equivrw - rewrite goals and hypotheses along equivalences",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// display help when only 'equivrw' is entered
		_ = cmd.Help()
	},
}

// setup loads the configuration and builds the logger. --verbose wins
// over the verbose setting of the file.
func setup() error {
	var err error
	config, err = equivrw.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		config.Verbose = true
	}
	if !config.Verbose {
		logger = zap.NewNop()
		return nil
	}
	dev, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	logger = dev
	return nil
}

// Execute runs the command line and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprint(rootCmd.ErrOrStderr(), formatter.FormatError(err))
	}
	_ = logger.Sync()
	return err
}

func init() {
	logger = zap.NewNop()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to the configuration file (default "+equivrw.DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log search and rewrite events")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(hypCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(namesCmd)
}

// newSession starts a session on the problem file at path, or on the
// empty problem when path is empty.
func newSession(path string) (*equivrw.Session, error) {
	var p *equivrw.Problem
	if path != "" {
		var err error
		if p, err = equivrw.LoadProblem(path); err != nil {
			return nil, err
		}
	}
	return equivrw.NewSession(config, p, equivrw.WithLogger(logger))
}
