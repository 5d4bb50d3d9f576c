package equivrw

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/equivrw/internal/parser"
	"github.com/gnoswap-labs/equivrw/internal/tactic"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Problem is a proof state written down as YAML, with the rewrites to run
// on it.
//
//	constants:
//	  - {name: P, type: "Nat -> Prop"}
//	seeds:
//	  - {name: e, left: Nat, right: Fin5}
//	context:
//	  - {name: x, type: Nat}
//	  - {name: h, type: P x}
//	target: Q x
//	steps:
//	  - {hyp: x, seed: e}
//	  - {exact: "f x h"}
type Problem struct {
	Constants []ConstDecl `yaml:"constants,omitempty"`
	Seeds     []SeedDecl  `yaml:"seeds,omitempty"`
	Context   []HypDecl   `yaml:"context,omitempty"`
	Target    string      `yaml:"target"`
	Steps     []Step      `yaml:"steps,omitempty"`
}

// ConstDecl declares a constant. Type and Value are optional.
type ConstDecl struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// SeedDecl declares an opaque equivalence Name : Equiv Left Right.
type SeedDecl struct {
	Name  string `yaml:"name"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// HypDecl is a hypothesis of the initial context. Types and values may
// mention the hypotheses declared before.
type HypDecl struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Value  string `yaml:"value,omitempty"`
	Frozen bool   `yaml:"frozen,omitempty"`
}

// Step is one tactic call: a goal rewrite when only Seed is set, a
// hypothesis rewrite when Hyp is set too, or the closing term Exact.
type Step struct {
	Hyp   string `yaml:"hyp,omitempty"`
	Seed  string `yaml:"seed,omitempty"`
	Exact string `yaml:"exact,omitempty"`
}

func (s Step) String() string {
	switch {
	case s.Exact != "":
		return "exact " + s.Exact
	case s.Hyp != "":
		return fmt.Sprintf("equiv_rw %s at %s", s.Seed, s.Hyp)
	default:
		return "equiv_rw " + s.Seed
	}
}

func (s Step) validate() error {
	switch {
	case s.Exact != "" && (s.Seed != "" || s.Hyp != ""):
		return fmt.Errorf("step %q: exact takes no seed or hypothesis", s)
	case s.Exact == "" && s.Seed == "":
		return fmt.Errorf("step needs a seed or an exact term")
	}
	return nil
}

// ParseProblem decodes a problem. Unknown fields are rejected.
func ParseProblem(data []byte) (*Problem, error) {
	var p Problem
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding problem: %w", err)
	}
	if p.Target == "" {
		return nil, fmt.Errorf("problem has no target")
	}
	for i, s := range p.Steps {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &p, nil
}

// LoadProblem reads and decodes the problem file at path.
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParseProblem(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// declare adds the constants and seeds of p to sig.
func (p *Problem) declare(sig *term.Signature) error {
	for _, c := range p.Constants {
		if c.Name == "" {
			return fmt.Errorf("constant without a name")
		}
		d := term.Decl{Name: c.Name}
		var err error
		if c.Type != "" {
			if d.Type, err = parser.Parse(c.Type); err != nil {
				return fmt.Errorf("type of %s: %w", c.Name, err)
			}
		}
		if c.Value != "" {
			if d.Value, err = parser.Parse(c.Value); err != nil {
				return fmt.Errorf("value of %s: %w", c.Name, err)
			}
		}
		sig.Declare(d)
	}
	for _, s := range p.Seeds {
		left, err := parser.Parse(s.Left)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Name, err)
		}
		right, err := parser.Parse(s.Right)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Name, err)
		}
		sig.Declare(term.Decl{Name: s.Name, Type: term.EquivType(left, right)})
	}
	return nil
}

// state builds the initial proof state of p over sig.
func (p *Problem) state(sig *term.Signature) (*tactic.State, error) {
	var ctx tactic.Context
	var locals []string
	for _, h := range p.Context {
		ty, err := parser.ParseWithLocals(h.Type, locals)
		if err != nil {
			return nil, fmt.Errorf("type of %s: %w", h.Name, err)
		}
		hyp := tactic.Hyp{Name: h.Name, Type: ty, Frozen: h.Frozen}
		if h.Value != "" {
			if hyp.Value, err = parser.ParseWithLocals(h.Value, locals); err != nil {
				return nil, fmt.Errorf("value of %s: %w", h.Name, err)
			}
		}
		ctx = append(ctx, hyp)
		locals = append(locals, h.Name)
	}
	target, err := parser.ParseWithLocals(p.Target, locals)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return tactic.NewState(sig, ctx, target), nil
}
