package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ExtractPhone pulls the phone identifier out of the chat client's
// function_call_username field, which arrives either as a bare phone or
// as "display name--phone". The last segment wins.
func ExtractPhone(username string) string {
	if idx := strings.LastIndex(username, "--"); idx != -1 {
		username = username[idx+2:]
	}
	return strings.TrimSpace(username)
}

// NormalizePhone reduces a phone to the digit string used as the cache
// key. Valid international numbers collapse to their E.164 digits; seed
// records that are not real phone numbers (plain CPF-as-phone entries)
// pass through with separators stripped.
func NormalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)

	candidate := trimmed
	if !strings.HasPrefix(candidate, "+") && strings.HasPrefix(candidate, "55") {
		candidate = "+" + candidate
	}
	if num, err := phonenumbers.Parse(candidate, ""); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if strings.HasPrefix(trimmed, "+") {
		return "+" + digits.String()
	}
	return digits.String()
}
