package models

import "reflect"

// ApplyPatch copies every non-nil pointer field of patch into the
// same-named field of dst. Fields absent from the patch (nil pointers)
// never overwrite existing values, which is the merge contract every
// entity update shares.
//
// dst must be a pointer to a struct; patch must be a pointer to a struct
// whose fields are pointers to the types of the dst fields they target.
func ApplyPatch(dst, patch interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	pv := reflect.ValueOf(patch).Elem()
	pt := pv.Type()

	for i := 0; i < pv.NumField(); i++ {
		f := pv.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		target := dv.FieldByName(pt.Field(i).Name)
		if !target.IsValid() || !target.CanSet() {
			continue
		}
		val := f.Elem()
		switch {
		case val.Type().AssignableTo(target.Type()):
			target.Set(val)
		case target.Kind() == reflect.Ptr && val.Type().AssignableTo(target.Type().Elem()):
			ptr := reflect.New(val.Type())
			ptr.Elem().Set(val)
			target.Set(ptr)
		}
	}
}
