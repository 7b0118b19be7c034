package audit

import (
	"reflect"
	"regexp"
	"time"
	"unicode/utf8"
)

// Kind is the lowercase type tag of a runtime value.
type Kind string

const (
	KArray     Kind = "array"
	KObject    Kind = "object"
	KString    Kind = "string"
	KDate      Kind = "date"
	KRegexp    Kind = "regexp"
	KFunction  Kind = "function"
	KBoolean   Kind = "boolean"
	KNumber    Kind = "number"
	KNull      Kind = "null"
	KUndefined Kind = "undefined"

	// Reported for values outside the recognized set.
	KMap     Kind = "map"
	KChan    Kind = "chan"
	KError   Kind = "error"
	KComplex Kind = "complex"
	KPointer Kind = "pointer"
)

// Kinds lists the recognized type names.
var Kinds = []Kind{
	KArray, KObject, KString, KDate, KRegexp,
	KFunction, KBoolean, KNumber, KNull, KUndefined,
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined stands for an absent value, e.g. a field missing from an object.
var Undefined interface{} = undefined{}

var (
	timeType   = reflect.TypeOf(time.Time{})
	regexpType = reflect.TypeOf(regexp.Regexp{})
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// TypeOf returns the type tag of v.
func TypeOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KNull
	case undefined:
		return KUndefined
	}
	return kindOf(reflect.ValueOf(v))
}

func kindOf(rv reflect.Value) Kind {
	if !rv.IsValid() {
		return KNull
	}
	typ := rv.Type()
	switch typ {
	case timeType:
		return KDate
	case regexpType:
		return KRegexp
	}
	if typ.Kind() != reflect.Ptr && typ.Kind() != reflect.Interface && typ.Implements(errorType) {
		return KError
	}

	switch typ.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return KNull
		}
		if typ.Implements(errorType) {
			return KError
		}
		return kindOf(rv.Elem())
	case reflect.String:
		return KString
	case reflect.Bool:
		return KBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return KNumber
	case reflect.Complex64, reflect.Complex128:
		return KComplex
	case reflect.Slice, reflect.Array:
		return KArray
	case reflect.Map:
		if typ.Key().Kind() == reflect.String {
			return KObject
		}
		return KMap
	case reflect.Struct:
		return KObject
	case reflect.Func:
		return KFunction
	case reflect.Chan:
		return KChan
	default:
		return KPointer
	}
}

type lengther interface {
	Len() int
}

// LengthOf returns the length of v and whether v has one. Strings count
// runes, functions count declared parameters.
func LengthOf(v interface{}) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	// A nil pointer is null and has no length, even if its type has Len.
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return 0, false
	}
	if l, ok := v.(lengther); ok {
		return l.Len(), true
	}
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), true
	case reflect.Func:
		n := rv.Type().NumIn()
		if rv.Type().IsVariadic() {
			n--
		}
		return n, true
	default:
		return 0, false
	}
}
