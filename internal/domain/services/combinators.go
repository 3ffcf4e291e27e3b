package services

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/values"
)

// Built-in combinator names.
const (
	CombinatorSum = "sum"
	CombinatorMax = "max"
)

const (
	maxExpressionLength = 1000
	maxASTNodes         = 100
)

var (
	_ entities.Combinator = Max{}
	_ entities.Combinator = (*ExprCombinator)(nil)
)

// Max keeps the largest child result. Costs are never negative, so an empty
// composite folds to zero.
type Max struct{}

// Identity returns zero.
func (Max) Identity() values.Amount { return values.Zero }

// Combine returns the larger of acc and next.
func (Max) Combine(acc, next values.Amount) (values.Amount, error) {
	return acc.Max(next), nil
}

// ExprCombinator folds child results with a user expression over acc and next.
// The integer operators +, - and * run through the checked helpers add, sub
// and mul, and / through div, so overflow and division by zero fail instead
// of wrapping.
type ExprCombinator struct {
	program    *vm.Program
	expression string
}

// Identity returns zero.
func (c *ExprCombinator) Identity() values.Amount { return values.Zero }

// Combine runs the expression with acc and next bound.
func (c *ExprCombinator) Combine(acc, next values.Amount) (values.Amount, error) {
	env := map[string]interface{}{
		"acc":  acc.Int64(),
		"next": next.Int64(),
	}

	output, err := expr.Run(c.program, env)
	if err != nil {
		return 0, fmt.Errorf("combinator %q: %w", c.expression, err)
	}

	n, err := toAmount(output)
	if err != nil {
		return 0, fmt.Errorf("combinator %q did not return an integer: %w", c.expression, err)
	}
	return n, nil
}

// String returns the source expression.
func (c *ExprCombinator) String() string { return c.expression }

// CompileCombinator compiles an expression into a combinator. The expression
// must produce an integer; float arithmetic such as ** is rejected.
func CompileCombinator(expression string) (*ExprCombinator, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("combinator expression cannot be empty")
	}
	if len(expression) > maxExpressionLength {
		return nil, fmt.Errorf("combinator expression too long (max %d chars): %d chars", maxExpressionLength, len(expression))
	}

	options := []expr.Option{
		expr.Env(map[string]interface{}{"acc": int64(0), "next": int64(0)}),
		expr.MaxNodes(maxASTNodes),
		checkedFunction("add", values.Amount.Add),
		checkedFunction("sub", values.Amount.Sub),
		checkedFunction("mul", values.Amount.Mul),
		checkedFunction("div", values.Amount.Div),
		expr.Operator("+", "add"),
		expr.Operator("-", "sub"),
		expr.Operator("*", "mul"),
		expr.Operator("/", "div"),
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, fmt.Errorf("compile combinator %q: %w", expression, err)
	}
	if t := program.Node().Type(); t != nil && t.Kind() != reflect.Interface && !isIntegerKind(t.Kind()) {
		return nil, fmt.Errorf("compile combinator %q: expected an integer result, got %s", expression, t)
	}
	return &ExprCombinator{program: program, expression: expression}, nil
}

// integerSignatures are the operand pairs the checked helpers accept. Integer
// literals are int in expressions while acc and next are int64.
var integerSignatures = []interface{}{
	new(func(int64, int64) int64),
	new(func(int64, int) int64),
	new(func(int, int64) int64),
	new(func(int, int) int64),
}

func checkedFunction(name string, op func(a, b values.Amount) (values.Amount, error)) expr.Option {
	return expr.Function(name, func(params ...interface{}) (interface{}, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments", name)
		}
		a, err := toAmount(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		b, err := toAmount(params[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out, err := op(a, b)
		if err != nil {
			return nil, fmt.Errorf("%s(%d, %d): %w", name, a, b, err)
		}
		return out.Int64(), nil
	}, integerSignatures...)
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func toAmount(v interface{}) (values.Amount, error) {
	switch n := v.(type) {
	case int:
		return values.Amount(n), nil
	case int8:
		return values.Amount(n), nil
	case int16:
		return values.Amount(n), nil
	case int32:
		return values.Amount(n), nil
	case int64:
		return values.Amount(n), nil
	case uint8:
		return values.Amount(n), nil
	case uint16:
		return values.Amount(n), nil
	case uint32:
		return values.Amount(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, values.ErrOverflow
		}
		return values.Amount(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, values.ErrOverflow
		}
		return values.Amount(n), nil
	default:
		return 0, fmt.Errorf("argument must be an integer, got %T", v)
	}
}

// CombinatorRegistry resolves combinator names and expressions.
// Compiled expressions are cached and the registry is safe for concurrent use.
type CombinatorRegistry struct {
	builtin      map[string]entities.Combinator
	programCache map[string]*ExprCombinator
	cacheMu      sync.RWMutex
}

// NewCombinatorRegistry creates a registry holding sum and max.
func NewCombinatorRegistry() *CombinatorRegistry {
	return &CombinatorRegistry{
		builtin: map[string]entities.Combinator{
			CombinatorSum: entities.Sum{},
			CombinatorMax: Max{},
		},
		programCache: make(map[string]*ExprCombinator),
	}
}

// Names returns the built-in combinator names in sorted order.
func (r *CombinatorRegistry) Names() []string {
	names := make([]string, 0, len(r.builtin))
	for name := range r.builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the combinator for a built-in name or an expression.
// An empty string selects sum.
func (r *CombinatorRegistry) Resolve(spec string) (entities.Combinator, error) {
	key := strings.TrimSpace(spec)
	if key == "" {
		return entities.Sum{}, nil
	}
	if c, ok := r.builtin[strings.ToLower(key)]; ok {
		return c, nil
	}

	r.cacheMu.RLock()
	c, found := r.programCache[key]
	r.cacheMu.RUnlock()
	if found {
		return c, nil
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	if c, found := r.programCache[key]; found {
		return c, nil
	}

	c, err := CompileCombinator(key)
	if err != nil {
		return nil, err
	}
	r.programCache[key] = c
	return c, nil
}
