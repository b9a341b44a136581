package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCPF(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"formatted", "529.982.247-25", "52998224725"},
		{"bare digits", "52998224725", "52998224725"},
		{"with spaces", " 529 982 247 25 ", "52998224725"},
		{"empty", "", ""},
		{"letters stripped", "cpf: 52998224725", "52998224725"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCPF(tt.input))
		})
	}
}

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name  string
		cpf   string
		valid bool
	}{
		{"valid bare", "52998224725", true},
		{"valid formatted", "529.982.247-25", true},
		{"wrong second check digit", "52998224724", false},
		{"wrong first check digit", "52998224715", false},
		{"all same digits", "11111111111", false},
		{"too short", "5299822472", false},
		{"too long", "529982247251", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateCPF(tt.cpf))
		})
	}
}
