package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rootfind/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rootfind",
	Short: "Find roots of real functions numerically",
	Long: `rootfind runs bisection, fixed-point iteration, Newton's method, the secant
method and regula falsi on functions written as infix expressions in x.

Batch files hold one job per line, e.g.

  BISSECAO;x^2-4;0;3;1e-6;100
  NEWTON;x^2-2;2*x;1

Configuration is read from --config, $` + config.EnvVar + `, ./rootfind.toml or
./rootfind.yaml, in that order.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML or YAML)")
}

// loadConfig loads the configuration named by --config, or else finds one.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
