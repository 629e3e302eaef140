package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "iPhone 15 Pro", "iphone-15-pro"},
		{"hyphenated model", "Sony WH-1000XM5", "sony-wh-1000xm5"},
		{"punctuation collapsed", "  Hello   World! ", "hello-world"},
		{"dots", "iPad Pro 12.9", "ipad-pro-12-9"},
		{"already clean", "macbook-air-m2", "macbook-air-m2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}
