package audit

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"time"

	pp "github.com/vilterp/audit/pkg/prettyprint"
)

// nesting past this depth is elided
const maxFormatDepth = 3

// FormatValue renders v on a single line for error messages.
func FormatValue(v interface{}) pp.Doc {
	switch tv := v.(type) {
	case nil:
		return pp.Text("null")
	case undefined:
		return pp.Text("undefined")
	case error:
		return pp.Textf("error(%q)", tv.Error())
	}
	return formatValue(reflect.ValueOf(v), 0)
}

func formatValue(rv reflect.Value, depth int) pp.Doc {
	if !rv.IsValid() {
		return pp.Text("null")
	}
	switch tv := rv.Interface().(type) {
	case time.Time:
		return pp.Text(tv.Format(time.RFC3339))
	case *regexp.Regexp:
		if tv == nil {
			return pp.Text("null")
		}
		return pp.Surround("/", pp.Text(tv.String()), "/")
	case undefined:
		return pp.Text("undefined")
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return pp.Text("null")
		}
		return formatValue(rv.Elem(), depth)
	case reflect.String:
		return pp.Quote(rv.String())
	case reflect.Bool:
		return pp.Text(strconv.FormatBool(rv.Bool()))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return pp.Text("NaN")
		}
		return pp.Text(strconv.FormatFloat(f, 'g', -1, 64))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return pp.Text("[]")
		}
		if depth >= maxFormatDepth {
			return pp.Text("[...]")
		}
		docs := make([]pp.Doc, rv.Len())
		for idx := 0; idx < rv.Len(); idx++ {
			docs[idx] = formatValue(rv.Index(idx), depth+1)
		}
		return pp.Surround("[", pp.Join(docs, pp.CommaSpace), "]")
	case reflect.Map:
		if depth >= maxFormatDepth {
			return pp.Text("{...}")
		}
		return formatMap(rv, depth)
	case reflect.Struct:
		if depth >= maxFormatDepth {
			return pp.Text("{...}")
		}
		return formatStruct(rv, depth)
	case reflect.Func:
		if rv.IsNil() {
			return pp.Text("null")
		}
		return pp.Text(rv.Type().String())
	case reflect.Chan:
		return pp.Text(rv.Type().String())
	default:
		return pp.Textf("%v", rv.Interface())
	}
}

func formatMap(rv reflect.Value, depth int) pp.Doc {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{
			key: fmt.Sprintf("%v", iter.Key().Interface()),
			val: iter.Value(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	kvDocs := make([]pp.Doc, len(entries))
	for idx, e := range entries {
		kvDocs[idx] = pp.KV(e.key, formatValue(e.val, depth+1))
	}
	return pp.Surround("{", pp.Join(kvDocs, pp.CommaSpace), "}")
}

func formatStruct(rv reflect.Value, depth int) pp.Doc {
	typ := rv.Type()
	var kvDocs []pp.Doc
	for idx := 0; idx < typ.NumField(); idx++ {
		field := typ.Field(idx)
		if field.PkgPath != "" {
			continue
		}
		kvDocs = append(kvDocs, pp.KV(field.Name, formatValue(rv.Field(idx), depth+1)))
	}
	return pp.Surround("{", pp.Join(kvDocs, pp.CommaSpace), "}")
}
