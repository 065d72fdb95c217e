// Package checkout validates customer data and submits finalized orders to
// the notification boundary.
package checkout

import (
	"regexp"
	"strings"
)

// Address is the delivery destination entered at checkout. Transient: it
// lives for the submission only and is never persisted.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// FormData is the customer-entered checkout payload.
type FormData struct {
	Name    string  `json:"name"`
	Email   string  `json:"email,omitempty"`
	Mobile  string  `json:"mobile"`
	Address Address `json:"address"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Egyptian mobile numbers: 010/011/012/015 followed by eight digits.
	mobilePattern = regexp.MustCompile(`^01[0125]\d{8}$`)

	nonDigits = regexp.MustCompile(`\D`)
)

// Validation message codes surfaced per field.
const (
	MsgRequired      = "required"
	MsgInvalidEmail  = "invalid_email"
	MsgInvalidMobile = "invalid_mobile"
)

// Validate checks the form and returns a field -> message map. An empty map
// means the form is valid. Name, mobile and the core address fields are
// required; email is optional but must be well-formed when present. The
// mobile number is stripped to digits before matching, so spacing and
// dashes do not fail an otherwise valid local number.
func (f FormData) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = MsgRequired
	}

	if email := strings.TrimSpace(f.Email); email != "" && !emailPattern.MatchString(email) {
		errs["email"] = MsgInvalidEmail
	}

	if mobile := strings.TrimSpace(f.Mobile); mobile == "" {
		errs["mobile"] = MsgRequired
	} else if !mobilePattern.MatchString(nonDigits.ReplaceAllString(mobile, "")) {
		errs["mobile"] = MsgInvalidMobile
	}

	if strings.TrimSpace(f.Address.Address1) == "" {
		errs["address1"] = MsgRequired
	}
	if strings.TrimSpace(f.Address.City) == "" {
		errs["city"] = MsgRequired
	}
	if strings.TrimSpace(f.Address.State) == "" {
		errs["state"] = MsgRequired
	}

	return errs
}
