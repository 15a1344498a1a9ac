package validation

import (
	"strings"
	"testing"
)

func TestValidateProductID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid slug", "ceramic-mug-01", false},
		{"valid uuid-ish", "2f1c3a44-9b1e", false},
		{"valid underscores", "p_001", false},
		{"empty", "", true},
		{"leading dash", "-mug", true},
		{"whitespace", "ceramic mug", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateProductID(test.input)
			if (err != nil) != test.wantErr {
				t.Errorf("ValidateProductID(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "u1", false},
		{"valid long", "8f14e45f-ceea", false},
		{"empty", "", true},
		{"spaces", "user one", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateUserID(test.input)
			if (err != nil) != test.wantErr {
				t.Errorf("ValidateUserID(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			}
		})
	}
}

func TestValidateCacheKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "cache:products", false},
		{"valid nested", "cache:cart:u1", false},
		{"missing prefix", "products", true},
		{"empty", "", true},
		{"whitespace", "cache:my products", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateCacheKey(test.input)
			if (err != nil) != test.wantErr {
				t.Errorf("ValidateCacheKey(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			}
		})
	}
}
