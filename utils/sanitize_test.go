package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeAnswer(t *testing.T) {
	cases := map[string]string{
		"stress":                         "stress",
		"  sleep ":                       "sleep",
		"<b>energy</b>":                  "energy",
		"<script>alert(1)</script>sleep": "sleep",
		"Tom & Jerry's":                  "Tom & Jerry's",
		`<a href="javascript:x">weight</a>`: "weight",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeAnswer(in), in)
	}
}
