package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/uuid"
	"github.com/viant/participant/internal/clock"
	"github.com/viant/participant/internal/idgen"
)

// Expression accepts candidates for which a CEL expression evaluates to
// true. The expression sees:
//
//	id       string  canonical identifier
//	version  int     UUID version
//	ts_ms    int     timestamp embedded in the identifier, ms since epoch
//	now_ms   int     current time, ms since epoch
type Expression struct {
	source string
	prog   cel.Program
}

// NewExpression compiles expr.
func NewExpression(expr string) (*Expression, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("validator: empty expression")
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("version", cel.IntType),
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("validator: compile %q: %w", expr, iss.Err())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return &Expression{source: expr, prog: prog}, nil
}

func (e *Expression) String() string { return e.source }

func (e *Expression) Validate(ctx context.Context, id string) (bool, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false, fmt.Errorf("validator: %w", err)
	}
	out, _, err := e.prog.ContextEval(ctx, map[string]any{
		"id":      id,
		"version": int64(parsed.Version()),
		"ts_ms":   idgen.Timestamp(parsed).UnixMilli(),
		"now_ms":  clock.Now().UnixMilli(),
	})
	if err != nil {
		return false, fmt.Errorf("validator: eval %q: %w", e.source, err)
	}
	accepted, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("validator: expression %q returned %T", e.source, out.Value())
	}
	return accepted, nil
}

// All accepts a candidate only when every validator accepts it. Validators
// run in order and stop at the first rejection or error.
func All(validators ...Validator) Validator {
	return Func(func(ctx context.Context, id string) (bool, error) {
		for _, v := range validators {
			ok, err := v.Validate(ctx, id)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	})
}
