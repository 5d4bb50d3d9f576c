package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/equivrw"
	"github.com/gnoswap-labs/equivrw/formatter"
	"github.com/gnoswap-labs/equivrw/internal/watch"
)

var (
	seed       string
	hypName    string
	jsonOutput bool
	outPath    string
	watchMode  bool
)

// goalCmd: equivrw goal problem.yaml --seed e
var goalCmd = &cobra.Command{
	Use:   "goal <problem.yaml>",
	Short: "Rewrite the main goal of a problem along an equivalence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0])
		if err != nil {
			return err
		}
		if err := s.RewriteGoal(seed); err != nil {
			logger.Debug("goal rewrite failed", zap.String("seed", seed), zap.Error(err))
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatState(s.State()))
		return nil
	},
}

// hypCmd: equivrw hyp problem.yaml --name x --seed e
var hypCmd = &cobra.Command{
	Use:   "hyp <problem.yaml>",
	Short: "Rewrite the type of a hypothesis along an equivalence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0])
		if err != nil {
			return err
		}
		if err := s.RewriteHypothesis(hypName, seed); err != nil {
			logger.Debug("hypothesis rewrite failed", zap.String("hyp", hypName), zap.String("seed", seed), zap.Error(err))
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatState(s.State()))
		return nil
	},
}

// runCmd: equivrw run problem.yaml
var runCmd = &cobra.Command{
	Use:   "run <problem.yaml>",
	Short: "Run the steps of a problem and print the resulting proof",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !watchMode {
			return runProblem(cmd.OutOrStdout(), args[0])
		}
		return watchProblem(cmd, args[0])
	},
}

func runProblem(out io.Writer, path string) error {
	s, err := newSession(path)
	if err != nil {
		return err
	}
	results, runErr := s.Run()
	if jsonOutput {
		if err := writeReport(out, newReport(s, results, runErr)); err != nil {
			logger.Error("Error writing JSON report", zap.Error(err))
			return err
		}
		return runErr
	}

	fmt.Fprint(out, formatter.FormatSteps(results))
	if runErr != nil {
		return runErr
	}
	if s.State().Done() {
		fmt.Fprintf(out, "proof: %s\n", s.NormalProof())
	} else {
		fmt.Fprint(out, formatter.FormatState(s.State()))
	}
	return nil
}

// watchProblem reruns the problem every time its file is saved, until
// interrupted.
func watchProblem(cmd *cobra.Command, path string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w, err := watch.New(logger, watch.DefaultDelay, path)
	if err != nil {
		return err
	}
	rerun := func(string) {
		if err := runProblem(cmd.OutOrStdout(), path); err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err))
		}
	}
	rerun(path)
	logger.Info("watching", zap.String("problem", path))
	if err := w.Run(ctx, rerun); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// report is the JSON form of a run.
type report struct {
	Steps []reportStep `json:"steps"`
	Goals []string     `json:"goals"`
	Proof string       `json:"proof"`
	Error string       `json:"error,omitempty"`
	Kind  string       `json:"kind,omitempty"`
}

type reportStep struct {
	Tactic string `json:"tactic"`
	State  string `json:"state"`
}

func newReport(s *equivrw.Session, results []equivrw.StepResult, err error) report {
	r := report{
		Steps: make([]reportStep, len(results)),
		Goals: []string{},
		Proof: s.NormalProof().String(),
	}
	for i, res := range results {
		r.Steps[i] = reportStep{Tactic: res.Step.String(), State: res.State}
	}
	for _, g := range s.State().Goals() {
		r.Goals = append(r.Goals, g.String())
	}
	if err != nil {
		r.Error = err.Error()
		if k := equivrw.KindOf(err); k != 0 {
			r.Kind = k.String()
		}
	}
	return r
}

func writeReport(stdout io.Writer, r report) error {
	d, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	d = append(d, '\n')
	if outPath == "" {
		_, err = stdout.Write(d)
		return err
	}
	return os.WriteFile(outPath, d, 0o644)
}

func init() {
	goalCmd.Flags().StringVarP(&seed, "seed", "s", "", "Equivalence to rewrite with")
	_ = goalCmd.MarkFlagRequired("seed")

	hypCmd.Flags().StringVarP(&seed, "seed", "s", "", "Equivalence to rewrite with")
	hypCmd.Flags().StringVarP(&hypName, "name", "n", "", "Hypothesis to rewrite")
	_ = hypCmd.MarkFlagRequired("seed")
	_ = hypCmd.MarkFlagRequired("name")

	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run in JSON format")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	runCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rerun the problem whenever its file changes")
}
