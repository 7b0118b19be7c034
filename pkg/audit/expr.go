package audit

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	"github.com/pkg/errors"
)

// Condition expressions are a restricted text form of a Predicate:
//
//	{ "." field } op literal
//
// e.g. "> 4", ".length === 4", `.name != "bob"`. The implicit subject is the
// checked value. Nothing is compiled to host code.

var (
	exprLexer = lexer.Must(
		lexer.Regexp(`(\s+)` +
			`|(?P<Keyword>\b(?:true|false|null)\b)` +
			`|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_]*)` +
			`|(?P<Number>[-+]?\d*\.?\d+([eE][-+]?\d+)?)` +
			`|(?P<String>"(?:\\.|[^"\\])*")` +
			`|(?P<Operator>===|!==|==|!=|<=|>=|<|>)` +
			`|(?P<Punct>[.])`,
		),
	)
	exprParser = participle.MustBuild(&conditionAST{}, exprLexer)
)

type conditionAST struct {
	Path  []string    `parser:"{ \".\" @Ident }"`
	Op    string      `parser:"@Operator"`
	Value *literalAST `parser:"@@"`
}

type literalAST struct {
	Number  *string `parser:"  @Number"`
	String  *string `parser:"| @String"`
	Keyword *string `parser:"| @Keyword"`
}

type literalKind int

const (
	litNumber literalKind = iota
	litString
	litBool
	litNull
)

type literal struct {
	kind literalKind
	num  float64
	str  string
	b    bool
}

type conditionExpr struct {
	path []string
	op   string
	lit  literal
}

func parseCondition(text string) (*conditionExpr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty condition")
	}
	ast := &conditionAST{}
	if err := exprParser.ParseString(text, ast); err != nil {
		return nil, err
	}
	if ast.Op == "" {
		return nil, errors.New("missing operator")
	}
	if ast.Value == nil {
		return nil, errors.New("missing literal")
	}
	lit, err := ast.Value.build()
	if err != nil {
		return nil, err
	}
	return &conditionExpr{
		path: ast.Path,
		op:   ast.Op,
		lit:  lit,
	}, nil
}

func (l *literalAST) build() (literal, error) {
	switch {
	case l.Number != nil:
		f, err := strconv.ParseFloat(*l.Number, 64)
		if err != nil {
			return literal{}, errors.Wrapf(err, "bad number %s", *l.Number)
		}
		return literal{kind: litNumber, num: f}, nil
	case l.String != nil:
		s, err := strconv.Unquote(*l.String)
		if err != nil {
			return literal{}, errors.Wrapf(err, "bad string %s", *l.String)
		}
		return literal{kind: litString, str: s}, nil
	case l.Keyword != nil:
		switch *l.Keyword {
		case "true", "false":
			return literal{kind: litBool, b: *l.Keyword == "true"}, nil
		case "null":
			return literal{kind: litNull}, nil
		}
	}
	return literal{}, errors.New("missing literal")
}

// Expr returns a checker for the condition expression text.
func Expr(text string) (Checker, error) {
	expr, err := parseCondition(text)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing condition %q", text)
	}
	return Condition(strings.TrimSpace(text), expr.eval), nil
}

// Cond checks v against the condition expression text and returns v.
func Cond(text string, v interface{}) (interface{}, error) {
	c, err := Expr(text)
	if err != nil {
		return v, err
	}
	return Pass(c, v)
}

func (e *conditionExpr) eval(v interface{}) bool {
	subject := v
	for _, segment := range e.path {
		subject = resolve(subject, segment)
	}

	switch e.lit.kind {
	case litNull:
		kind := TypeOf(subject)
		var matches bool
		switch e.op {
		case "==", "!=":
			matches = kind == KNull || kind == KUndefined
		case "===", "!==":
			matches = kind == KNull
		default:
			return false
		}
		return matches == (e.op == "==" || e.op == "===")
	case litNumber:
		f, ok := toFloat(subject)
		if !ok || math.IsNaN(f) {
			return isNegation(e.op)
		}
		return compare(e.op, cmpFloat(f, e.lit.num))
	case litString:
		s, ok := subject.(string)
		if !ok {
			return isNegation(e.op)
		}
		return compare(e.op, strings.Compare(s, e.lit.str))
	case litBool:
		b, ok := subject.(bool)
		if !ok {
			return isNegation(e.op)
		}
		switch e.op {
		case "==", "===":
			return b == e.lit.b
		case "!=", "!==":
			return b != e.lit.b
		}
	}
	return false
}

// resolve reads segment off v. "length" prefers the value's length.
func resolve(v interface{}, segment string) interface{} {
	if segment == "length" {
		if n, ok := LengthOf(v); ok {
			return n
		}
	}
	return Field(v, segment)
}

func isNegation(op string) bool {
	return op == "!=" || op == "!=="
}

func compare(op string, cmp int) bool {
	switch op {
	case "==", "===":
		return cmp == 0
	case "!=", "!==":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
