package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rootfind"
)

var evalFlags struct {
	xs   []float64
	prec uint
	verb string
}

var evalCmd = &cobra.Command{
	Use:   "eval EXPR",
	Short: "Evaluate an expression in x",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := rootfind.Compile(args[0])
		if err != nil {
			return err
		}
		verb := evalFlags.verb + "\n"
		out := cmd.OutOrStdout()
		for _, x := range evalFlags.xs {
			if evalFlags.prec != 0 {
				r, err := f.EvalPrec(x, evalFlags.prec)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, verb, r)
				continue
			}
			r, err := f.Eval(x)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, verb, r)
		}
		return nil
	},
}

var rpnCmd = &cobra.Command{
	Use:   "rpn EXPR",
	Short: "Print the postfix form of an expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rpn, err := rootfind.Parse(rootfind.Preprocess(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rootfind.FormatRPN(rpn))
		return nil
	},
}

var funcsCmd = &cobra.Command{
	Use:   "funcs",
	Short: "List the functions expressions may use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(rootfind.Funcs(), " "))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cfg.WriteTOML(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(evalCmd, rpnCmd, funcsCmd, configCmd)
	addEvalFlags(evalCmd)
}

func addEvalFlags(c *cobra.Command) {
	f := c.Flags()
	f.Float64SliceVar(&evalFlags.xs, "x", []float64{0}, "value of x (any number of times)")
	f.UintVarP(&evalFlags.prec, "prec", "p", 0, "precision of calculations in bits (0 for float64)")
	f.StringVar(&evalFlags.verb, "fmt", "%g", "result formatting string")
}
