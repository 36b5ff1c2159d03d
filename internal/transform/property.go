package transform

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/dgallion1/replout/internal/display"
	"github.com/dgallion1/replout/internal/value"
)

// ReadProperty reads prop from obj. A read that panics or reports an error
// yields a display.ReadError rendering whatever was thrown; nothing escapes.
// Missing properties read as value.Undefined, and reading from null or
// undefined returns obj itself.
func (t *Transformer) ReadProperty(obj any, prop string) (v any) {
	if value.IsNull(obj) || obj == value.Undefined {
		return obj
	}
	defer func() {
		if r := recover(); r != nil {
			v = t.readError(r)
		}
	}()
	got, err := lookup(obj, prop)
	if err != nil {
		return t.readError(err)
	}
	return got
}

func (t *Transformer) readError(thrown any) (n display.ReadError) {
	defer func() {
		if recover() != nil {
			n = display.ReadError{Inner: display.Raw{Value: thrown}}
		}
	}()
	t.log.Debug("property read failed", "thrown", fmt.Sprint(thrown))
	return display.ReadError{Inner: t.Render(thrown)}
}

func lookup(obj any, prop string) (any, error) {
	if g, ok := obj.(value.Getter); ok {
		return g.Get(prop)
	}

	rv := reflect.ValueOf(obj)
	if m := rv.MethodByName(prop); m.IsValid() && isGetter(m.Type()) {
		return callGetter(m)
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return value.Undefined, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if k, ok := mapKey(rv, prop); ok {
			if mv := rv.MapIndex(k); mv.IsValid() {
				return mv.Interface(), nil
			}
		}
	case reflect.Struct:
		if f, ok := rv.Type().FieldByName(prop); ok {
			return rv.FieldByIndex(f.Index).Interface(), nil
		}
	case reflect.Slice, reflect.Array:
		if prop == "length" {
			return rv.Len(), nil
		}
		if i, err := strconv.Atoi(prop); err == nil && i >= 0 && i < rv.Len() {
			return rv.Index(i).Interface(), nil
		}
	case reflect.String:
		s := rv.String()
		if prop == "length" {
			return len(s), nil
		}
		if i, err := strconv.Atoi(prop); err == nil && i >= 0 && i < len(s) {
			return s[i : i+1], nil
		}
	}
	return value.Undefined, nil
}

// mapKey converts prop to the map's key type. Non-string keys are matched
// by their printed form.
func mapKey(m reflect.Value, prop string) (reflect.Value, bool) {
	kt := m.Type().Key()
	if kt.Kind() == reflect.String {
		return reflect.ValueOf(prop).Convert(kt), true
	}
	iter := m.MapRange()
	for iter.Next() {
		if fmt.Sprint(iter.Key().Interface()) == prop {
			return iter.Key(), true
		}
	}
	return reflect.Value{}, false
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// isGetter reports whether a bound method takes no arguments and returns
// a value, optionally followed by an error. Methods returning only an error
// are actions like Close, not getters.
func isGetter(mt reflect.Type) bool {
	if mt.NumIn() != 0 {
		return false
	}
	switch mt.NumOut() {
	case 1:
		return mt.Out(0) != errorType
	case 2:
		return mt.Out(1) == errorType
	}
	return false
}

func callGetter(m reflect.Value) (any, error) {
	out := m.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// Properties lists the names ReadProperty can read from obj, in a stable
// order: declared fields first, then getter methods.
func (t *Transformer) Properties(obj any) (names []string) {
	if value.IsNull(obj) || obj == value.Undefined {
		return nil
	}
	defer func() {
		if recover() != nil {
			names = nil
		}
	}()

	if k, ok := obj.(value.Keyed); ok {
		return k.Keys()
	}

	rv := reflect.ValueOf(obj)
	methods := getterNames(rv)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return methods
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		for _, k := range rv.MapKeys() {
			names = append(names, fmt.Sprint(k.Interface()))
		}
		sort.Strings(names)
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if f := rv.Type().Field(i); f.IsExported() {
				names = append(names, f.Name)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			names = append(names, strconv.Itoa(i))
		}
		names = append(names, "length")
		return names
	}
	return append(names, methods...)
}

func getterNames(rv reflect.Value) []string {
	var names []string
	rt := rv.Type()
	for i := 0; i < rt.NumMethod(); i++ {
		if isGetter(rv.Method(i).Type()) {
			names = append(names, rt.Method(i).Name)
		}
	}
	return names
}

// Property is one expanded member of an object.
type Property struct {
	Name string       `json:"name"`
	Node display.Node `json:"node"`
}

// Expand reads and renders every property of obj. It is the lazy, one-level
// expansion a renderer performs when the user opens an object.
func (t *Transformer) Expand(obj any) []Property {
	names := t.Properties(obj)
	props := make([]Property, 0, len(names))
	for _, name := range names {
		v := t.ReadProperty(obj, name)
		var n display.Node
		if re, ok := v.(display.ReadError); ok {
			n = re
		} else {
			n = t.Render(v)
		}
		props = append(props, Property{Name: name, Node: n})
	}
	return props
}
