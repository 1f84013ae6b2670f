// Package phone normalises the optional phone numbers collected on sign-up.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when no region is configured
const DefaultRegion = "US"

// Normalizer parses phone numbers relative to a default region
type Normalizer struct {
	region string
}

func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &Normalizer{region: region}
}

// Normalize returns the E.164 form of phone. An empty input stays empty.
func (n *Normalizer) Normalize(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}

	parsed, err := phonenumbers.Parse(phone, n.region)
	if err != nil {
		return "", fmt.Errorf("invalid phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number %q", phone)
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// Region returns the default region code
func (n *Normalizer) Region() string { return n.region }
