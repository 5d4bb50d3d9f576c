package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/equivrw/formatter"
)

var problemPath string

// deriveCmd: equivrw derive --seed natFin5 "List Nat"
var deriveCmd = &cobra.Command{
	Use:   "derive <pattern>",
	Short: "Show the derivation of a relation shaped like a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(problemPath)
		if err != nil {
			return err
		}
		d, err := s.Derive(seed, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDerivation(d))
		return nil
	},
}

// evalCmd: equivrw eval "Equiv.toFun natFin5 7"
var evalCmd = &cobra.Command{
	Use:   "eval <term>",
	Short: "Print the normal form of a term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(problemPath)
		if err != nil {
			return err
		}
		t, err := s.Eval(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

// rulesCmd: equivrw rules
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the congruence rules in search order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession("")
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRules(s.Rules()))
		return nil
	},
}

// namesCmd: equivrw names Equiv
var namesCmd = &cobra.Command{
	Use:   "names [namespace]",
	Short: "List the declared constants of a namespace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(problemPath)
		if err != nil {
			return err
		}
		ns := ""
		if len(args) == 1 {
			ns = args[0]
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatConstants(s.Constants(ns)))
		return nil
	},
}

func init() {
	deriveCmd.Flags().StringVarP(&seed, "seed", "s", "", "Equivalence to start from")
	deriveCmd.Flags().StringVarP(&problemPath, "problem", "p", "", "Problem file declaring constants and context")
	_ = deriveCmd.MarkFlagRequired("seed")

	evalCmd.Flags().StringVarP(&problemPath, "problem", "p", "", "Problem file declaring constants and context")
	namesCmd.Flags().StringVarP(&problemPath, "problem", "p", "", "Problem file declaring constants and context")
}
