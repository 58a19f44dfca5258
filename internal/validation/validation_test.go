package validation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-manager/internal/validation"
)

func validForm() validation.Form {
	return validation.Form{Name: "A", Email: "a@b.com", Phone: "1", Address: "x"}
}

func TestValidate_ValidFormHasNoErrors(t *testing.T) {
	errs := validation.Validate(validForm())
	require.Empty(t, errs)
	require.NoError(t, validation.AsError(validForm()))
}

func TestValidate_EmptyNameOnly(t *testing.T) {
	errs := validation.Validate(validation.Form{Name: "", Email: "a@b.com", Phone: "1", Address: "x"})
	require.Equal(t, validation.Errors{validation.FieldName: "Name is required"}, errs)
}

func TestValidate_BadEmailOnly(t *testing.T) {
	errs := validation.Validate(validation.Form{Name: "A", Email: "bad-email", Phone: "1", Address: "x"})
	require.Equal(t, validation.Errors{validation.FieldEmail: "Email is invalid"}, errs)
}

func TestValidate_WhitespaceCountsAsEmpty(t *testing.T) {
	errs := validation.Validate(validation.Form{Name: "   ", Email: "\t", Phone: " \n", Address: "  "})
	require.Equal(t, validation.Errors{
		validation.FieldName:    "Name is required",
		validation.FieldEmail:   "Email is required",
		validation.FieldPhone:   "Phone is required",
		validation.FieldAddress: "Address is required",
	}, errs)
}

func TestValidate_EmailPattern(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"a@b.com", true},
		{"first.last@school.edu.in", true},
		{"a@b", false},
		{"@b.com", false},
		{"a@.com", false},
		{"a b@c.d", true}, // substring "b@c.d" matches
		{"no-at-sign.com", false},
		{"\u00a0@\u00a0.\u00a0", false},
		{"a\u00a0@b.c\u3000", false},
		{"\v@\v.\v", false},
		{"a@b\u2028.c", false},
		{"\ufeff@\ufeff.\ufeff", false},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			f := validForm()
			f.Email = tc.email
			errs := validation.Validate(f)
			if tc.valid {
				require.Empty(t, errs)
			} else {
				require.Equal(t, "Email is invalid", errs[validation.FieldEmail])
			}
		})
	}
}

func TestErrors_ErrorJoinsInFieldOrder(t *testing.T) {
	errs := validation.Validate(validation.Form{})
	require.Equal(t, "Name is required, Email is required, Phone is required, Address is required", errs.Error())

	err := validation.AsError(validation.Form{})
	var asErrs validation.Errors
	require.ErrorAs(t, err, &asErrs)
	require.Len(t, asErrs, 4)
}

func TestErrors_ClearRemovesOneField(t *testing.T) {
	errs := validation.Validate(validation.Form{Email: "a@b.com"})
	require.Contains(t, errs, validation.FieldName)

	errs.Clear(validation.FieldName)
	require.NotContains(t, errs, validation.FieldName)
	require.Contains(t, errs, validation.FieldPhone)
}

func TestForm_SetAndValue(t *testing.T) {
	f := validation.Form{}
	for _, field := range validation.Fields {
		f = f.Set(field, "v-"+string(field))
	}
	for _, field := range validation.Fields {
		require.Equal(t, "v-"+string(field), f.Value(field))
	}

	in := f.Input()
	require.Equal(t, f, validation.FormFromInput(in))
}
