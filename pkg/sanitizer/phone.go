package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	supportedRegions = []string{
		"US",
		"CA",
	}

	reValidPhone = regexp.MustCompile(`^(?:|\+?[1-9]\d{7,14})$`)
)

// SanitizePhone normalizes a contact phone to E.164. Invalid input comes
// back unchanged so the validator can report it; unparseable-but-shaped
// input comes back empty.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" || !reValidPhone.MatchString(phone) {
		return phone
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsedNumber) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}
