package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/miko1qq/colink-sub000/models"
)

// Minimal internal validator to avoid external dependency. Supports:
// - required (strings non-empty, numbers non-zero, pointers non-nil)
// - email (basic RFC-ish shape, 3-120 chars)
// - nameok (letters, numbers, space, hyphen, apostrophe, 1-100 chars)
// - pwdmin (min length 6)
// - roleok (one of the account roles)
// - eqfield=OtherField (field equals another field)

var (
	reEmail  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	reNameOK = regexp.MustCompile(`^[A-Za-z0-9 \-']{1,100}$`)
)

// isSet reports whether a field counts as present for the required rule.
func isSet(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String:
		return fv.String() != ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return fv.Float() != 0
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return !fv.IsNil()
	default:
		return !fv.IsZero()
	}
}

// ValidateStruct inspects struct tags `validate:"..."` and returns the first error encountered.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("ValidateStruct expects a struct or pointer to struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		fv := v.Field(i)
		var sval string
		if fv.IsValid() && fv.Kind() == reflect.String {
			sval = fv.String()
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "required" {
				if !fv.IsValid() || !isSet(fv) {
					return errors.New(field.Name + " is required")
				}
			} else if p == "email" {
				if sval != "" && (len(sval) > 120 || !reEmail.MatchString(sval)) {
					return errors.New(field.Name + " must be a valid email address")
				}
			} else if p == "nameok" {
				if sval != "" && !reNameOK.MatchString(sval) {
					return errors.New(field.Name + " contains invalid characters")
				}
			} else if p == "pwdmin" {
				if sval != "" && len(sval) < 6 {
					return errors.New(field.Name + " must be at least 6 characters")
				}
			} else if p == "roleok" {
				if sval != "" && !models.Role(sval).Valid() {
					return errors.New(field.Name + " must be student or professor")
				}
			} else if strings.HasPrefix(p, "eqfield=") {
				other := strings.TrimPrefix(p, "eqfield=")
				ov := v.FieldByName(other)
				if !ov.IsValid() || ov.Kind() != reflect.String || ov.String() != sval {
					return errors.New(field.Name + " does not match " + other)
				}
			}
		}
	}
	return nil
}
