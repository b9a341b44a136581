package utils

import (
	"regexp"
	"strconv"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeCPF strips everything but digits from a CPF.
func NormalizeCPF(cpf string) string {
	return nonDigits.ReplaceAllString(cpf, "")
}

// ValidateCPF checks length, the all-same-digit degenerate case and both
// check digits of a CPF.
func ValidateCPF(cpf string) bool {
	cpf = NormalizeCPF(cpf)
	if len(cpf) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(cpf, 9) && checkDigit(cpf, 10)
}

// checkDigit verifies the check digit at position pos (9 or 10).
func checkDigit(cpf string, pos int) bool {
	sum := 0
	for i := 0; i < pos; i++ {
		digit, _ := strconv.Atoi(string(cpf[i]))
		sum += digit * (pos + 1 - i)
	}
	remainder := sum % 11
	expected := byte('0')
	if remainder >= 2 {
		expected = byte('0' + 11 - remainder)
	}
	return cpf[pos] == expected
}
