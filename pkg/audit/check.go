// Package audit checks values against declared type signatures, predicates
// and flat interface descriptors at runtime. Every check returns the value
// it was given when it passes, so checks can be chained in front of real
// work. It is a development aid, not a validation layer.
package audit

import (
	"fmt"
	"math"
	"reflect"

	pp "github.com/vilterp/audit/pkg/prettyprint"
)

// Checker validates a value against a pre-bound rule.
// Implementations are immutable and safe for concurrent use.
type Checker interface {
	Check(v interface{}) error
	Format() pp.Doc
}

// Predicate reports whether v satisfies a condition.
type Predicate func(v interface{}) bool

// Pass runs c on v and returns v unchanged if it passes.
func Pass[T any](c Checker, v T) (T, error) {
	if err := c.Check(v); err != nil {
		return v, err
	}
	return v, nil
}

// Must panics on err, otherwise returns v.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("contract violation: %s", err.Error()))
	}
	return v
}

// Type

// IsType returns a reusable checker for sig.
func IsType(sig string) (Checker, error) {
	parsed, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

// Is checks v against sig and returns v.
func Is(sig string, v interface{}) (interface{}, error) {
	c, err := IsType(sig)
	if err != nil {
		return v, err
	}
	return Pass(c, v)
}

func IsNumber(v interface{}) (interface{}, error)    { return Is("number", v) }
func IsString(v interface{}) (interface{}, error)    { return Is("string", v) }
func IsArray(v interface{}) (interface{}, error)     { return Is("array", v) }
func IsObject(v interface{}) (interface{}, error)    { return Is("object", v) }
func IsDate(v interface{}) (interface{}, error)      { return Is("date", v) }
func IsFunction(v interface{}) (interface{}, error)  { return Is("function", v) }
func IsRegExp(v interface{}) (interface{}, error)    { return Is("regexp", v) }
func IsBoolean(v interface{}) (interface{}, error)   { return Is("boolean", v) }
func IsNull(v interface{}) (interface{}, error)      { return Is("null", v) }
func IsUndefined(v interface{}) (interface{}, error) { return Is("undefined", v) }

// Map

type mapChecker struct {
	elem *Signature
}

var _ Checker = &mapChecker{}

// MapType returns a checker applying sig to every element of a slice or array.
func MapType(sig string) (Checker, error) {
	elem, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	return &mapChecker{elem: elem}, nil
}

// Map checks every element of seq against sig and returns seq.
func Map(sig string, seq interface{}) (interface{}, error) {
	c, err := MapType(sig)
	if err != nil {
		return seq, err
	}
	return Pass(c, seq)
}

func (m *mapChecker) Check(seq interface{}) error {
	rv := reflect.ValueOf(seq)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return &TypeMismatch{Value: seq, Expected: KArray, Actual: TypeOf(seq)}
	}
	for idx := 0; idx < rv.Len(); idx++ {
		if err := m.elem.Check(rv.Index(idx).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (m *mapChecker) Format() pp.Doc {
	return pp.Surround("array<", m.elem.Format(), ">")
}

// Condition

type condition struct {
	desc string
	pred Predicate
}

var _ Checker = &condition{}

// Condition returns a checker failing when pred is false. desc describes the
// condition in failure messages.
func Condition(desc string, pred Predicate) Checker {
	return &condition{desc: desc, pred: pred}
}

// Satisfies checks v against pred and returns v.
func Satisfies(desc string, pred Predicate, v interface{}) (interface{}, error) {
	return Pass(Condition(desc, pred), v)
}

func (c *condition) Check(v interface{}) error {
	if !c.pred(v) {
		return &ConditionFailed{Value: v, Condition: c.desc}
	}
	return nil
}

func (c *condition) Format() pp.Doc {
	return pp.Surround("condition(", pp.Text(c.desc), ")")
}

// Presence

type presence struct {
	loose bool
}

var (
	// Present fails on nil, Undefined and nil pointers, maps, slices, funcs,
	// chans and interfaces. Zero values such as 0, "" and false pass.
	Present Checker = presence{}
	// Truthy additionally fails on false, 0, NaN and "".
	Truthy Checker = presence{loose: true}
)

func (p presence) Check(v interface{}) error {
	if isNullish(v) || (p.loose && isFalsy(v)) {
		return &MissingValue{Value: v}
	}
	return nil
}

func (p presence) Format() pp.Doc {
	if p.loose {
		return pp.Text("truthy")
	}
	return pp.Text("present")
}

func NotNullOrUndefined(v interface{}) (interface{}, error) {
	return Pass(Present, v)
}

func NotFalsy(v interface{}) (interface{}, error) {
	return Pass(Truthy, v)
}

func isNullish(v interface{}) bool {
	if v == nil || v == Undefined {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func isFalsy(v interface{}) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0 || math.IsNaN(rv.Float())
	}
	return false
}

// All

type all []Checker

// All runs checkers in order and stops at the first failure.
func All(checkers ...Checker) Checker {
	return all(checkers)
}

func (a all) Check(v interface{}) error {
	for _, c := range a {
		if err := c.Check(v); err != nil {
			return err
		}
	}
	return nil
}

func (a all) Format() pp.Doc {
	docs := make([]pp.Doc, len(a))
	for idx, c := range a {
		docs[idx] = c.Format()
	}
	return pp.Join(docs, pp.Text(" & "))
}
