package result

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ashenguard/easysql/sqlerr"
)

// Scan copies the row into the struct pointed to by dest. A field maps to
// the column named by its `db` tag, or to its field name ignoring case.
// Fields without a selected column are left untouched.
func (r Row) Scan(dest any) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.IsNil() {
		return sqlerr.TypeMismatch("dest must be a non-nil pointer to struct, got %T", dest)
	}
	destValue = destValue.Elem()
	if destValue.Kind() != reflect.Struct {
		return sqlerr.TypeMismatch("dest must be a pointer to struct, got %T", dest)
	}

	row := r.Map()
	destType := destValue.Type()
	for i := 0; i < destType.NumField(); i++ {
		field := destType.Field(i)
		fieldValue := destValue.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		name := columnName(field)
		if name == "" {
			continue
		}
		value, ok := row[name]
		if !ok {
			value, ok = findCaseInsensitive(row, name)
			if !ok {
				continue
			}
		}

		if err := setField(fieldValue, value); err != nil {
			return &sqlerr.Error{Kind: sqlerr.ErrTypeMismatch, Column: name,
				Message: fmt.Sprintf("cannot scan into field %s", field.Name), Cause: err}
		}
	}
	return nil
}

func columnName(field reflect.StructField) string {
	tag, ok := field.Tag.Lookup("db")
	if !ok {
		return field.Name
	}
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return field.Name
}

func findCaseInsensitive(row map[string]any, key string) (any, bool) {
	for k, v := range row {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func setField(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	v := reflect.ValueOf(value)
	fieldType := field.Type()

	if fieldType.Kind() == reflect.Ptr {
		ptr := reflect.New(fieldType.Elem())
		if err := setField(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	if v.Type().AssignableTo(fieldType) {
		field.Set(v)
		return nil
	}

	switch {
	case isInteger(v.Kind()) && isInteger(fieldType.Kind()):
		conv := v.Convert(fieldType)
		if !conv.Convert(v.Type()).Equal(v) || negative(v) != negative(conv) {
			return fmt.Errorf("value %v overflows %s", value, fieldType)
		}
		field.Set(conv)
		return nil
	case v.Kind() == reflect.String && fieldType.Kind() == reflect.String:
		field.SetString(v.String())
		return nil
	case v.Kind() == reflect.Bool && fieldType.Kind() == reflect.Bool:
		field.SetBool(v.Bool())
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, fieldType)
}

// negative reports whether an integer value is below zero.
func negative(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	}
	return false
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
