package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// VarPage is the name of the page variable.
const VarPage = "page"

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// ErrNotBool is returned when an expression does not evaluate to a bool.
var ErrNotBool = errors.New("expression must evaluate to a bool")

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment] with the page variable and
// function library declared.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts,
		cel.Variable(VarPage, cel.MapType(cel.StringType, cel.DynType)),
		cel.Lib(&lib{}),
	)

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// Program is a compiled boolean expression.
type Program struct {
	prg    cel.Program
	source string
}

// Compile compiles a boolean CEL expression.
func (e *Environment) Compile(expression string) (*Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: got %s", ErrNotBool, t)
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return &Program{prg: prg, source: expression}, nil
}

// Match evaluates the program with the given page variables.
func (p *Program) Match(page map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{VarPage: page})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", p.source, err)
	}

	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: %w: got %s", p.source, ErrNotBool, out.Type())
	}

	return bool(b), nil
}

// String returns the expression source.
func (p *Program) String() string {
	return p.source
}
