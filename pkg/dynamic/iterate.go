package dynamic

import (
	"errors"
	"fmt"
	"reflect"
)

type StructFieldIterator func(tag string, ft reflect.StructField, fv reflect.Value) error

var ErrCanNotIterateNilPointer = errors.New("can not iterate struct on a nil pointer")

func structOf(obj interface{}) (reflect.Type, reflect.Value, error) {
	if obj == nil {
		return nil, reflect.Value{}, errors.New("can not iterate field, given object is nil")
	}

	sv := reflect.ValueOf(obj)
	st := reflect.TypeOf(obj)

	if st.Kind() != reflect.Ptr {
		return nil, reflect.Value{}, fmt.Errorf("f should be a pointer of a struct, %s given", st)
	}

	// for pointer, check if it's nil
	if sv.IsNil() {
		return nil, reflect.Value{}, ErrCanNotIterateNilPointer
	}

	// solve the reference
	st = st.Elem()
	sv = sv.Elem()

	if st.Kind() != reflect.Struct {
		return nil, reflect.Value{}, fmt.Errorf("f should be a struct, %s given", st)
	}

	return st, sv, nil
}

// IterateFieldsByTag calls cb on every exported field that carries the given tag
func IterateFieldsByTag(obj interface{}, tagName string, cb StructFieldIterator) error {
	st, sv, err := structOf(obj)
	if err != nil {
		return err
	}

	for i := 0; i < sv.NumField(); i++ {
		ft := st.Field(i)

		// skip unexported fields
		if !ft.IsExported() {
			continue
		}

		tag, ok := ft.Tag.Lookup(tagName)
		if !ok || tag == "-" {
			continue
		}

		if err := cb(tag, ft, sv.Field(i)); err != nil {
			return err
		}
	}

	return nil
}
