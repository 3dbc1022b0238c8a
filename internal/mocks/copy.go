package mocks

import "reflect"

func copyInto(dst, src any) {
	d := reflect.ValueOf(dst)
	if d.Kind() != reflect.Pointer || d.IsNil() {
		return
	}
	s := reflect.ValueOf(src)
	if s.Kind() == reflect.Pointer {
		s = s.Elem()
	}
	d.Elem().Set(s)
}
