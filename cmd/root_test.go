package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/equivrw"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const hypProblem = `
context:
  - {name: x, type: Nat}
  - {name: h, type: P x}
target: Q x
steps:
  - {hyp: x, seed: natFin5}
  - {exact: "f x h"}
`

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{}, args...))
	err = Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGoalCmd(t *testing.T) {
	p := writeFile(t, "p.yaml", "target: List Nat")

	out, _, err := execute(t, "goal", p, "--seed", "natFin5")
	require.NoError(t, err)
	assert.Equal(t, "goal 1 of 1\n⊢ List Fin5\n", out)

	_, _, err = execute(t, "goal", p)
	assert.ErrorContains(t, err, `required flag(s) "seed" not set`)
}

func TestHypCmd(t *testing.T) {
	p := writeFile(t, "p.yaml", hypProblem)

	out, _, err := execute(t, "hyp", p, "-n", "x", "-s", "natFin5")
	require.NoError(t, err)
	expected := "goal 1 of 1\n" +
		"x : Fin5\n" +
		"h : P (Equiv.invFun natFin5 x)\n" +
		"⊢ Q (Equiv.invFun natFin5 x)\n"
	assert.Equal(t, expected, out)
}

func TestRunCmd(t *testing.T) {
	p := writeFile(t, "p.yaml", hypProblem)

	out, _, err := execute(t, "run", p)
	require.NoError(t, err)
	expected := `1. equiv_rw natFin5 at x
   x : Fin5
   h : P (Equiv.invFun natFin5 x)
   ⊢ Q (Equiv.invFun natFin5 x)
2. exact f x h
   no goals
proof: f (Fin.mk (Nat.mod x 5)) h
`
	assert.Equal(t, expected, out)
}

func TestRunCmd_JSON(t *testing.T) {
	p := writeFile(t, "p.yaml", hypProblem)
	dst := filepath.Join(t.TempDir(), "out.json")

	out, _, err := execute(t, "run", p, "--json", "-o", dst)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	var r report
	require.NoError(t, json.Unmarshal(data, &r))
	require.Len(t, r.Steps, 2)
	assert.Equal(t, "equiv_rw natFin5 at x", r.Steps[0].Tactic)
	assert.Empty(t, r.Goals)
	assert.Equal(t, "f (Fin.mk (Nat.mod x 5)) h", r.Proof)
	assert.Empty(t, r.Error)
}

func TestRunCmd_Failure(t *testing.T) {
	p := writeFile(t, "p.yaml", `
target: Bool
steps:
  - {seed: natFin5}
`)
	out, stderr, err := execute(t, "run", p, "--json")
	require.Error(t, err)
	assert.ErrorIs(t, err, equivrw.ErrVacuousDerivation)
	assert.Contains(t, stderr, "error: vacuous derivation\n")

	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "vacuous derivation", r.Kind)
	assert.Equal(t, []string{"⊢ Bool"}, r.Goals)
	assert.Equal(t, "?g1", r.Proof)
}

func TestDeriveCmd(t *testing.T) {
	out, _, err := execute(t, "derive", "--seed", "natFin5", "Option Nat")
	require.NoError(t, err)
	expected := "functor: Option Nat ≃ Option Fin5\n" +
		"  seed: Nat ≃ Fin5\n" +
		"= Equiv.mapCongr Option.map natFin5 (2 steps)\n"
	assert.Equal(t, expected, out)

	_, stderr, err := execute(t, "derive", "--seed", "Nat", "Nat")
	require.Error(t, err)
	assert.Contains(t, stderr, "error: not an equivalence")
}

func TestEvalCmd(t *testing.T) {
	out, _, err := execute(t, "eval", "Equiv.toFun natFin5 7")
	require.NoError(t, err)
	assert.Equal(t, "Fin.mk 2\n", out)

	p := writeFile(t, "p.yaml", `
constants:
  - {name: two, type: Nat, value: "Nat.succ 1"}
target: "True"
`)
	out, _, err = execute(t, "eval", "-p", p, "Equiv.toFun natFin5 two")
	require.NoError(t, err)
	assert.Equal(t, "Fin.mk 2\n", out)
}

func TestRulesCmd(t *testing.T) {
	cfg := writeFile(t, "cfg.yaml", "disabled_rules: [sigmaCongrLeft]\n")

	out, _, err := execute(t, "-c", cfg, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. equivCongr ")
	assert.Contains(t, out, "sigmaCongrLeft  Sigma (x : α), F x (disabled)\n")
	assert.Contains(t, out, " 9. refl ")
}

func TestConfigFlag(t *testing.T) {
	cfg := writeFile(t, "cfg.yaml", "disabled_rules: [functor]\n")
	p := writeFile(t, "p.yaml", "target: List Nat")

	_, stderr, err := execute(t, "--config", cfg, "goal", p, "-s", "natFin5")
	assert.ErrorIs(t, err, equivrw.ErrVacuousDerivation)
	assert.Contains(t, stderr, "error: vacuous derivation")

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "rules")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equivrw.yaml")

	out, _, err := execute(t, "init", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, "Configuration file created/updated: "+path+"\n", out)

	cfg, err := equivrw.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, equivrw.DefaultConfig(), cfg)
}

func TestRootShowsHelp(t *testing.T) {
	out, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "equivrw - rewrite goals and hypotheses along equivalences")
}

func TestNamesCmd(t *testing.T) {
	out, _, err := execute(t, "names", "Equiv.symm")
	require.NoError(t, err)
	assert.Equal(t, "Equiv.symm [builtin]\n", out)

	p := writeFile(t, "p.yaml", `
constants:
  - {name: Geom.area, type: "Nat -> Nat"}
target: "True"
`)
	out, _, err = execute(t, "names", "-p", p, "Geom")
	require.NoError(t, err)
	assert.Equal(t, "Geom.area : Nat -> Nat\n", out)
}
