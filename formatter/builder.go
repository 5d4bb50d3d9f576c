// Package formatter renders proof states, derivations and rewrite errors
// for the terminal.
package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/equivrw"
	"github.com/gnoswap-labs/equivrw/internal/search"
	"github.com/gnoswap-labs/equivrw/internal/tactic"
)

var (
	errorStyle     = color.New(color.FgRed, color.Bold)
	ruleStyle      = color.New(color.FgYellow, color.Bold)
	hypStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle      = color.New(color.FgHiBlue, color.Bold)
	messageStyle   = color.New(color.FgRed, color.Bold)
	turnstileStyle = color.New(color.FgGreen, color.Bold)
	disabledStyle  = color.New(color.FgHiBlack)
	noStyle        = color.New(color.FgWhite)
)

const goalTemplate = `{{header .Index .Total}}
{{range .Context}}{{hyp .}}
{{end}}{{target .Target}}
`

type goalData struct {
	Index   int
	Total   int
	Context tactic.Context
	Target  fmt.Stringer
}

var goalTmpl = template.Must(template.New("goal").Funcs(template.FuncMap{
	"header": header,
	"hyp":    hyp,
	"target": target,
}).Parse(goalTemplate))

// FormatState renders every open goal of st, the main one first.
func FormatState(st *tactic.State) string {
	goals := st.Goals()
	if len(goals) == 0 {
		return turnstileStyle.Sprint("no goals") + "\n"
	}

	var buf bytes.Buffer
	for i, g := range goals {
		if i > 0 {
			buf.WriteByte('\n')
		}
		data := goalData{Index: i + 1, Total: len(goals), Context: g.Context, Target: g.Target}
		if err := goalTmpl.Execute(&buf, data); err != nil {
			return fmt.Sprintf("Error formatting goal: %v", err)
		}
	}
	return buf.String()
}

// utils functions used in the goal template

func header(index, total int) string {
	return lineStyle.Sprintf("goal %d of %d", index, total)
}

func hyp(h tactic.Hyp) string {
	s := hypStyle.Sprint(h.Name) + noStyle.Sprintf(" : %s", h.Type)
	if h.Value != nil {
		s += noStyle.Sprintf(" := %s", h.Value)
	}
	return s
}

func target(t fmt.Stringer) string {
	return turnstileStyle.Sprint("⊢ ") + noStyle.Sprint(t.String())
}

// FormatDerivation renders the rule tree of d, one obligation per line.
func FormatDerivation(d *search.Derivation) string {
	var sb strings.Builder
	writeNode(&sb, d.Root, 0)
	sb.WriteString(lineStyle.Sprintf("= %s", d.Relation.Term))
	sb.WriteString(noStyle.Sprintf(" (%d steps)\n", d.Steps))
	return sb.String()
}

func writeNode(sb *strings.Builder, n *search.Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(ruleStyle.Sprint(n.Rule))
	sb.WriteString(": ")
	for _, b := range n.Binders {
		sb.WriteString(noStyle.Sprintf("(%s : %s) ", b.Name, b.Type))
	}
	sb.WriteString(noStyle.Sprintf("%s ≃ %s", n.Left, n.Right))
	sb.WriteByte('\n')
	for _, c := range n.Children {
		writeNode(sb, c, depth+1)
	}
}

// FormatError renders a rewrite failure with its kind.
func FormatError(err error) string {
	kind := equivrw.KindOf(err)
	if kind == 0 {
		return errorStyle.Sprint("error: ") + messageStyle.Sprintf("%v\n", err)
	}
	return errorStyle.Sprint("error: ") + ruleStyle.Sprintf("%s\n", kind) + lineStyle.Sprint("  = ") + messageStyle.Sprintf("%v\n", err)
}

// FormatRules renders the rule registry in search order.
func FormatRules(rules []equivrw.RuleInfo) string {
	width := 0
	for _, r := range rules {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}

	var sb strings.Builder
	for i, r := range rules {
		line := fmt.Sprintf("%2d. %-*s  %s", i+1, width, r.Name, r.Shape)
		if !r.Enabled {
			sb.WriteString(disabledStyle.Sprintf("%s (disabled)\n", line))
			continue
		}
		sb.WriteString(ruleStyle.Sprintf("%2d. %-*s", i+1, width, r.Name))
		sb.WriteString(noStyle.Sprintf("  %s\n", r.Shape))
	}
	return sb.String()
}

// FormatSteps renders the state after each step of a run.
func FormatSteps(results []equivrw.StepResult) string {
	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(lineStyle.Sprintf("%d. %s\n", i+1, r.Step))
		for _, line := range strings.Split(r.State, "\n") {
			sb.WriteString(noStyle.Sprintf("   %s\n", line))
		}
	}
	return sb.String()
}

// FormatConstants renders one constant per line with its type, marking
// definitions and builtins.
func FormatConstants(consts []equivrw.ConstInfo) string {
	var sb strings.Builder
	for _, c := range consts {
		sb.WriteString(hypStyle.Sprint(c.Name))
		if c.Type != "" {
			sb.WriteString(noStyle.Sprintf(" : %s", c.Type))
		}
		switch {
		case c.Builtin:
			sb.WriteString(disabledStyle.Sprint(" [builtin]"))
		case c.Defined:
			sb.WriteString(disabledStyle.Sprint(" [defined]"))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
