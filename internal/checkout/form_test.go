package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/candlegrove/storefront/internal/checkout"
)

func validForm() checkout.FormData {
	return checkout.FormData{
		Name:   "Mona Hassan",
		Email:  "mona@example.com",
		Mobile: "01012345678",
		Address: checkout.Address{
			FirstName: "Mona",
			LastName:  "Hassan",
			Address1:  "12 Tahrir St",
			City:      "Cairo",
			State:     "Cairo",
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("ValidFormHasNoErrors", func(t *testing.T) {
		assert.Empty(t, validForm().Validate())
	})

	t.Run("EmailIsOptional", func(t *testing.T) {
		f := validForm()
		f.Email = ""
		assert.Empty(t, f.Validate())
	})

	t.Run("RequiredFields", func(t *testing.T) {
		cases := []struct {
			field  string
			mutate func(*checkout.FormData)
		}{
			{"name", func(f *checkout.FormData) { f.Name = "   " }},
			{"mobile", func(f *checkout.FormData) { f.Mobile = "" }},
			{"address1", func(f *checkout.FormData) { f.Address.Address1 = "" }},
			{"city", func(f *checkout.FormData) { f.Address.City = "" }},
			{"state", func(f *checkout.FormData) { f.Address.State = "" }},
		}

		for _, tc := range cases {
			t.Run(tc.field, func(t *testing.T) {
				f := validForm()
				tc.mutate(&f)

				errs := f.Validate()
				assert.Equal(t, checkout.MsgRequired, errs[tc.field])
			})
		}
	})

	t.Run("MalformedEmailRejected", func(t *testing.T) {
		for _, email := range []string{"plainaddress", "a@b", "a b@c.com", "@no-local.com"} {
			f := validForm()
			f.Email = email

			errs := f.Validate()
			assert.Equal(t, checkout.MsgInvalidEmail, errs["email"], "email %q", email)
		}
	})

	t.Run("MobileNumbers", func(t *testing.T) {
		cases := []struct {
			mobile string
			valid  bool
		}{
			{"01012345678", true},
			{"01112345678", true},
			{"01212345678", true},
			{"01512345678", true},
			{"010 1234 5678", true}, // spacing is stripped
			{"010-1234-5678", true},
			{"01312345678", false}, // 013 is not a mobile prefix
			{"0101234567", false},  // too short
			{"010123456789", false},
			{"+201012345678", false}, // international form not accepted
			{"12345678901", false},
		}

		for _, tc := range cases {
			f := validForm()
			f.Mobile = tc.mobile

			errs := f.Validate()
			if tc.valid {
				assert.NotContains(t, errs, "mobile", "mobile %q", tc.mobile)
			} else {
				assert.Equal(t, checkout.MsgInvalidMobile, errs["mobile"], "mobile %q", tc.mobile)
			}
		}
	})

	t.Run("CollectsAllErrorsAtOnce", func(t *testing.T) {
		errs := checkout.FormData{}.Validate()
		assert.Len(t, errs, 5)
	})
}
