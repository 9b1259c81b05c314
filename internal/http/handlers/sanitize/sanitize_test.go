package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	cases := map[string]string{
		"John":                          "John",
		"  John  ":                      "John",
		"<b>John</b>":                   "John",
		"<script>alert(1)</script>John": "John",
		"<img src=x onerror=alert(1)>":  "",
	}
	for input, expected := range cases {
		t.Run(input, func(t *testing.T) {
			require.Equal(t, expected, Text(input))
		})
	}
}
