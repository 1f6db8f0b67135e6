package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidation(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		shouldErr bool
	}{
		{
			name:      "valid email",
			email:     "user@example.com",
			shouldErr: false,
		},
		{
			name:      "valid email with subdomain",
			email:     "user@mail.example.com",
			shouldErr: false,
		},
		{
			name:      "valid email with plus",
			email:     "user+tag@example.com",
			shouldErr: false,
		},
		{
			name:      "valid email with dots",
			email:     "first.last@example.com",
			shouldErr: false,
		},
		{
			name:      "invalid - no @",
			email:     "userexample.com",
			shouldErr: true,
		},
		{
			name:      "invalid - no domain",
			email:     "user@",
			shouldErr: true,
		},
		{
			name:      "invalid - no local part",
			email:     "@example.com",
			shouldErr: true,
		},
		{
			name:      "invalid - no TLD",
			email:     "user@example",
			shouldErr: true,
		},
		{
			name:      "invalid - spaces",
			email:     "user @example.com",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email.Validate(tt.email)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPhoneValidation(t *testing.T) {
	tests := []struct {
		name      string
		phone     string
		shouldErr bool
	}{
		{
			name:      "valid international number",
			phone:     "+15551234567",
			shouldErr: false,
		},
		{
			name:      "valid without plus",
			phone:     "15551234567",
			shouldErr: false,
		},
		{
			name:      "valid with separators",
			phone:     "+1 (555) 123-4567",
			shouldErr: false,
		},
		{
			name:      "invalid - letters",
			phone:     "not-a-phone",
			shouldErr: true,
		},
		{
			name:      "invalid - too short",
			phone:     "+123",
			shouldErr: true,
		},
		{
			name:      "invalid - too long",
			phone:     "+123456789012345678901234",
			shouldErr: true,
		},
		{
			name:      "invalid - plus in the middle",
			phone:     "555+1234567",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Phone.Validate(tt.phone)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLanguageValidation(t *testing.T) {
	tests := []struct {
		name      string
		language  string
		shouldErr bool
	}{
		{
			name:      "valid two letter code",
			language:  "en",
			shouldErr: false,
		},
		{
			name:      "valid code with region",
			language:  "pt-BR",
			shouldErr: false,
		},
		{
			name:      "valid code with script",
			language:  "zh-Hant",
			shouldErr: false,
		},
		{
			name:      "invalid - full language name",
			language:  "english",
			shouldErr: true,
		},
		{
			name:      "invalid - uppercase code",
			language:  "EN",
			shouldErr: true,
		},
		{
			name:      "invalid - single letter",
			language:  "e",
			shouldErr: true,
		},
		{
			name:      "invalid - punctuation",
			language:  "english!",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Language.Validate(tt.language)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "valid string",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "only spaces",
			input:     "   ",
			shouldErr: true,
		},
		{
			name:      "only tabs",
			input:     "\t\t",
			shouldErr: true,
		},
		{
			name:      "only newlines",
			input:     "\n\n",
			shouldErr: true,
		},
		{
			name:      "mixed whitespace",
			input:     " \t\n ",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error returns nil",
			err:      nil,
			expected: false,
		},
		{
			name:     "wraps validation error",
			err:      assert.AnError,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapValidationError(tt.err)
			if tt.expected {
				assert.Error(t, result)
				assert.Contains(t, result.Error(), "invalid input")
			} else {
				assert.NoError(t, result)
			}
		})
	}
}
