package contact

import (
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
)

const (
	fieldName     = "name"
	fieldPhone    = "phone"
	fieldBirthday = "birthday"
)

// Name identifies a contact. The address book keys records by its value.
type Name struct {
	value string
}

// NewName accepts any non-empty string.
func NewName(value string) (Name, error) {
	if value == "" {
		return Name{}, newValidationError(fieldName, value, config.TKeyErrNameEmpty, config.ErrNameEmpty)
	}
	return Name{value: value}, nil
}

// Value returns the name as entered.
func (n Name) Value() string { return n.value }

// Phone is a 12-digit phone number such as 380931112233.
type Phone struct {
	value string
}

// NewPhone fails unless value is exactly config.PhoneLength ASCII digits.
func NewPhone(value string) (Phone, error) {
	if !isPhone(value) {
		return Phone{}, newValidationError(fieldPhone, value, config.TKeyErrPhoneFormat, config.ErrPhoneFormat)
	}
	return Phone{value: value}, nil
}

// Value returns the digits of the phone number.
func (p Phone) Value() string { return p.value }

func isPhone(value string) bool {
	if len(value) != config.PhoneLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// Birthday is a calendar date kept in its DD.MM.YYYY form.
type Birthday struct {
	value string
	date  time.Time
}

// NewBirthday parses value with config.DateFormatBirthday. time.Parse rejects
// days outside the month, so 31.02 and 29.02 of a non-leap year fail here.
func NewBirthday(value string) (Birthday, error) {
	t, err := time.Parse(config.DateFormatBirthday, value)
	if err != nil {
		return Birthday{}, newValidationError(fieldBirthday, value, config.TKeyErrDateFormat, config.ErrDateFormat)
	}
	return Birthday{value: value, date: t}, nil
}

// BirthdayFromDate builds a Birthday from a date obtained elsewhere (vCard import).
func BirthdayFromDate(t time.Time) Birthday {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Birthday{value: d.Format(config.DateFormatBirthday), date: d}
}

// Value returns the date as DD.MM.YYYY.
func (b Birthday) Value() string { return b.value }

// Date returns the birthday at midnight UTC.
func (b Birthday) Date() time.Time { return b.date }
