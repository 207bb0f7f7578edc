// Package expr evaluates the template expression dialect used in braced
// attribute values and {interpolations}. Expressions are Starlark: a
// small, hermetic Python-like expression language with no statements, no
// side effects and no I/O.
package expr

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Span is a byte range inside an expression's source text.
type Span struct {
	Start int
	End   int
}

// Error is a parse or evaluation failure, with a span into the
// expression text for highlighting.
type Error struct {
	Message string
	Span    Span
}

func (e *Error) Error() string { return e.Message }

// Expr is a parsed expression, ready to evaluate any number of times.
type Expr struct {
	Text   string
	parsed syntax.Expr
}

// Parse parses an expression without evaluating it.
func Parse(text string) (*Expr, *Error) {
	parsed, err := syntax.ParseExpr("<expr>", text, 0)
	if err != nil {
		return nil, &Error{
			Message: fmt.Sprintf("could not parse expression: %v", err),
			Span:    Span{Start: 0, End: len(text)},
		}
	}
	return &Expr{Text: text, parsed: parsed}, nil
}

// Env is the set of globals an expression can reference.
type Env struct {
	globals starlark.StringDict
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{globals: make(starlark.StringDict)}
}

// AddGlobal binds a name. Later bindings shadow earlier ones.
func (e *Env) AddGlobal(name string, v Value) {
	e.globals[name] = toStarlark(v)
}

// Clone returns an independent copy of the environment. Component
// evaluation clones the page environment before injecting attribute
// values.
func (e *Env) Clone() *Env {
	out := NewEnv()
	for k, v := range e.globals {
		out.globals[k] = v
	}
	return out
}

// Eval evaluates the expression against the environment.
func (x *Expr) Eval(env *Env) (Value, *Error) {
	thread := &starlark.Thread{Name: "docapella-expr"}

	val, err := starlark.EvalExpr(thread, x.parsed, env.globals)
	if err != nil {
		return Null(), &Error{
			Message: fmt.Sprintf("could not evaluate expression: %v", evalErrMessage(err)),
			Span:    Span{Start: 0, End: len(x.Text)},
		}
	}
	return fromStarlark(val), nil
}

// EvalString parses and evaluates in one step.
func EvalString(text string, env *Env) (Value, *Error) {
	parsed, err := Parse(text)
	if err != nil {
		return Null(), err
	}
	return parsed.Eval(env)
}

func evalErrMessage(err error) string {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		return evalErr.Msg
	}
	return err.Error()
}

func toStarlark(v Value) starlark.Value {
	switch v.Kind {
	case KindNull:
		return starlark.None
	case KindBool:
		return starlark.Bool(v.Bool)
	case KindNumber:
		if v.Num == float64(int64(v.Num)) {
			return starlark.MakeInt64(int64(v.Num))
		}
		return starlark.Float(v.Num)
	case KindString:
		return starlark.String(v.Str)
	case KindList:
		items := make([]starlark.Value, len(v.List))
		for i, item := range v.List {
			items[i] = toStarlark(item)
		}
		return starlark.NewList(items)
	case KindObject:
		dict := starlark.NewDict(len(v.Object))
		for key, val := range v.Object {
			_ = dict.SetKey(starlark.String(key), toStarlark(val))
		}
		return dict
	}
	return starlark.None
}

func fromStarlark(val starlark.Value) Value {
	switch v := val.(type) {
	case nil, starlark.NoneType:
		return Null()
	case starlark.Bool:
		return BoolValue(bool(v))
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return NumberValue(float64(i))
		}
		return StringValue(v.String())
	case starlark.Float:
		return NumberValue(float64(v))
	case starlark.String:
		return StringValue(string(v))
	case *starlark.List:
		items := make([]Value, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = fromStarlark(v.Index(i))
		}
		return ListValue(items)
	case *starlark.Dict:
		fields := make(map[string]Value, v.Len())
		for _, item := range v.Items() {
			key := item[0]
			if keyStr, ok := key.(starlark.String); ok {
				fields[string(keyStr)] = fromStarlark(item[1])
			} else {
				fields[key.String()] = fromStarlark(item[1])
			}
		}
		return ObjectValue(fields)
	case starlark.Tuple:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = fromStarlark(item)
		}
		return ListValue(items)
	default:
		return StringValue(val.String())
	}
}
