package failure

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"partfail-sim/internal/damage"
	"partfail-sim/internal/vessel"
)

// ExprRelation relates parts through a CEL expression evaluated with the
// variables source and target, e.g.
//
//	"fuel-line" in source.tags && source.networks.exists(n, n in target.networks)
type ExprRelation struct {
	expr string
	kind damage.Kind
	prg  cel.Program
	log  *slog.Logger
}

// NewExprRelation compiles expr. Cascades along it use kind.
func NewExprRelation(expr string, kind damage.Kind, log *slog.Logger) (*ExprRelation, error) {
	env, err := cel.NewEnv(
		cel.Variable("source", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("target", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile relation %q: %w", expr, iss.Err())
	}
	if k := ast.OutputType().Kind(); k != types.BoolKind && k != types.DynKind {
		return nil, fmt.Errorf("relation %q must evaluate to bool, not %s", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program relation %q: %w", expr, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &ExprRelation{expr: expr, kind: kind, prg: prg, log: log}, nil
}

// Related returns the parts for which the expression is true, in vessel order.
// Evaluation errors count as unrelated.
func (r *ExprRelation) Related(src *vessel.Part, v *vessel.Vessel) []*vessel.Part {
	srcVars := partVars(src)
	var out []*vessel.Part
	for _, p := range v.Parts {
		if p == src {
			continue
		}
		val, _, err := r.prg.Eval(map[string]any{"source": srcVars, "target": partVars(p)})
		if err != nil {
			r.log.Debug("relation eval failed", "expr", r.expr, "part_id", p.ID, "err", err)
			continue
		}
		if ok, _ := val.Value().(bool); ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *ExprRelation) Kind() damage.Kind { return r.kind }

func partVars(p *vessel.Part) map[string]any {
	tags := make([]string, 0, len(p.Tags))
	for t := range p.Tags {
		tags = append(tags, t)
	}
	resources := make([]string, 0, len(p.Resources))
	for _, res := range p.Resources {
		resources = append(resources, res.Name)
	}
	networks := append([]string{}, p.Networks...)
	return map[string]any{
		"id":        p.ID,
		"title":     p.Title,
		"tags":      tags,
		"resources": resources,
		"networks":  networks,
		"damaged":   p.Damage != nil,
	}
}
