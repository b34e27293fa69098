// Package commands implements the dirtrun CLI (§4.8, §6 "CLI"), grounded in
// marmos91-dittofs's cmd/dittofs/commands package layout.
package commands

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dirtrun",
	Short: "dirtrun - multi-application RPC service host",
	Long: `dirtrun launches the apps declared in a settings document as
supervised child processes and wires them together over a pluggable RPC
fabric.

Use "dirtrun run --help" for the apps sub-command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "dirt.yaml", "settings document path")
	rootCmd.AddCommand(runCmd)
}
