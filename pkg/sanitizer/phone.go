package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Regions tried in order when the contact number carries no country
// prefix. Safari trips run out of Sri Lanka but bookings come from
// abroad too.
var supportedRegions = []string{
	"LK",
	"US",
	"GB",
}

func NormalizeContact(contact string) string {
	contact = strings.TrimSpace(contact)

	if contact == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(contact, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsedNumber) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}
