// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by up to 15 digits
	return phonePattern.MatchString(cleaned)
}

// NormalizeTaxID strips punctuation from a CPF/CNPJ and reports whether the
// result has a valid length (11 digits for CPF, 14 for CNPJ).
func NormalizeTaxID(taxID string) (string, bool) {
	digits := nonDigits.ReplaceAllString(taxID, "")
	return digits, len(digits) == 11 || len(digits) == 14
}
