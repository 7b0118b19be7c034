package audit

import (
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
	pp "github.com/vilterp/audit/pkg/prettyprint"
)

// Descriptor maps field names to signatures.
type Descriptor map[string]string

type field struct {
	name string
	sig  *Signature
}

type iface struct {
	fields []field
}

var _ Checker = &iface{}

// Interface returns a checker verifying every field named in desc. Fields
// are checked in sorted name order. Values that are not objects fail before
// any field is read.
func Interface(desc Descriptor) (Checker, error) {
	names := make([]string, 0, len(desc))
	for name := range desc {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]field, len(names))
	for idx, name := range names {
		sig, err := ParseSignature(desc[name])
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", name)
		}
		fields[idx] = field{name: name, sig: sig}
	}
	return &iface{fields: fields}, nil
}

// Implements checks obj against desc and returns obj.
func Implements(desc Descriptor, obj interface{}) (interface{}, error) {
	c, err := Interface(desc)
	if err != nil {
		return obj, err
	}
	return Pass(c, obj)
}

func (i *iface) Check(obj interface{}) error {
	if kind := TypeOf(obj); kind != KObject {
		return &TypeMismatch{Value: obj, Expected: KObject, Actual: kind}
	}
	for _, f := range i.fields {
		if err := f.sig.Check(Field(obj, f.name)); err != nil {
			return &FieldMismatch{Field: f.name, Err: err}
		}
	}
	return nil
}

func (i *iface) Format() pp.Doc {
	docs := make([]pp.Doc, len(i.fields))
	for idx, f := range i.fields {
		docs[idx] = pp.KV(f.name, f.sig.Format())
	}
	return pp.Seq(pp.Text("interface "), pp.Surround("{", pp.Join(docs, pp.CommaSpace), "}"))
}

// Field returns the property name of obj, or Undefined if obj has none.
// String-keyed maps are looked up by key. Structs are looked up by exported
// field name, then json tag name, then case-insensitive name.
func Field(obj interface{}, name string) interface{} {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Undefined
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Undefined
		}
		val := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return Undefined
		}
		return val.Interface()
	case reflect.Struct:
		sf, ok := structField(rv.Type(), name)
		if !ok {
			return Undefined
		}
		val, err := rv.FieldByIndexErr(sf.Index)
		if err != nil {
			return Undefined
		}
		return val.Interface()
	default:
		return Undefined
	}
}

func structField(typ reflect.Type, name string) (reflect.StructField, bool) {
	if sf, ok := typ.FieldByName(name); ok && sf.PkgPath == "" {
		return sf, true
	}
	var byFold *reflect.StructField
	for idx := 0; idx < typ.NumField(); idx++ {
		sf := typ.Field(idx)
		if sf.PkgPath != "" {
			continue
		}
		tag := strings.Split(sf.Tag.Get("json"), ",")[0]
		if tag == name {
			return sf, true
		}
		if byFold == nil && strings.EqualFold(sf.Name, name) {
			byFold = &sf
		}
	}
	if byFold != nil {
		return *byFold, true
	}
	return reflect.StructField{}, false
}
