package utils

import (
	"strings"
)

// IsBlank reports whether a string is empty after trimming whitespace
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
