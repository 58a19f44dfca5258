// Package validation implements the student form rules.
//
// The rules are declared as validate:"..." struct tags and checked by
// go-playground/validator, the same library the backend uses for request
// payloads. Failures are translated into the fixed, human-readable messages
// the form displays under each field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/aanand-mishra/students-manager/internal/types"
)

// Field names a form input. The values match the JSON keys of the wire format.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldAddress}

// Label returns the capitalised display name of f ("Name", "Email", ...).
func (f Field) Label() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// Form is the set of values typed into the create/edit form.
//
// Tag order matters: validator stops at the first failing tag of a field, so
// an empty email reports "required" and never reaches the pattern check.
type Form struct {
	Name    string `json:"name"    validate:"notblank"`
	Email   string `json:"email"   validate:"notblank,looseemail"`
	Phone   string `json:"phone"   validate:"notblank"`
	Address string `json:"address" validate:"notblank"`
}

// FormFromInput converts a wire payload into a Form.
func FormFromInput(in types.StudentInput) Form {
	return Form{Name: in.Name, Email: in.Email, Phone: in.Phone, Address: in.Address}
}

// Input converts f into the payload sent to the backend.
func (f Form) Input() types.StudentInput {
	return types.StudentInput{Name: f.Name, Email: f.Email, Phone: f.Phone, Address: f.Address}
}

// Value returns the current value of field.
func (f Form) Value(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldAddress:
		return f.Address
	}
	return ""
}

// Set returns a copy of f with field replaced by value.
func (f Form) Set(field Field, value string) Form {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldAddress:
		f.Address = value
	}
	return f
}

// emailPattern is intentionally loose: something@something.something with no
// whitespace in any part. It is a substring match. Whitespace is Unicode
// whitespace: RE2's \s is ASCII-only and omits \v, so the class spells out the
// rest.
var emailPattern = regexp.MustCompile(`[^\s\v\p{Z}\x{FEFF}]+@[^\s\v\p{Z}\x{FEFF}]+\.[^\s\v\p{Z}\x{FEFF}]+`)

// validate is safe for concurrent use and caches struct metadata, so a single
// package-level instance is shared.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their json name so FieldError.Field() == "email".
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank rejects strings that are empty after trimming whitespace.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}
	if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register looseemail: %v", err))
	}

	return v
}

// Errors maps a field to the message describing why it failed.
// An empty Errors means the form may be submitted.
//
// Errors implements error so it can travel through ordinary error returns;
// it is never sent to the backend.
type Errors map[Field]string

// Error joins the messages in field display order.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, f := range Fields {
		if msg, ok := e[f]; ok {
			msgs = append(msgs, msg)
		}
	}
	// Unknown keys are only possible if a caller builds Errors by hand.
	if len(msgs) < len(e) {
		var extra []string
		for f, msg := range e {
			if !isKnown(f) {
				extra = append(extra, msg)
			}
		}
		sort.Strings(extra)
		msgs = append(msgs, extra...)
	}
	return strings.Join(msgs, ", ")
}

// Clear removes the error of field, if any. The form calls it as soon as the
// user edits that field.
func (e Errors) Clear(field Field) {
	delete(e, field)
}

func isKnown(f Field) bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

// Validate checks every field of f and returns the failures.
// It is a pure function: the same input always produces the same Errors.
func Validate(f Form) Errors {
	errs := Errors{}

	err := validate.Struct(f)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError only happens for non-struct input.
		panic(fmt.Sprintf("validation: unexpected error: %v", err))
	}

	for _, fe := range fieldErrs {
		field := Field(fe.Field())
		errs[field] = message(field, fe.Tag())
	}
	return errs
}

// AsError returns Validate(f) as an error, or nil when f is valid.
func AsError(f Form) error {
	if errs := Validate(f); len(errs) > 0 {
		return errs
	}
	return nil
}

func message(field Field, tag string) string {
	if tag == "notblank" {
		return field.Label() + " is required"
	}
	return field.Label() + " is invalid"
}
