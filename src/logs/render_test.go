package logs_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"faultcapture/src/logs"
)

func TestExportScalars(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{"verbatim \"text\"", "verbatim \"text\""},
		{42, "42"},
		{3.5, "3.5"},
		{true, "true"},
		{nil, "<nil>"},
		{errors.New("boom"), "boom"},
		{logs.LevelAlert, "alert"},
		{[]byte("raw"), "raw"},
		{(*url.URL)(nil), "<nil>"},
		{error((*nilErr)(nil)), "<nil>"},
	}

	for _, tt := range tests {
		if got := logs.Export(tt.input, 3); got != tt.expected {
			t.Fatalf("expected %v -> %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestExportBoundsDepth(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{
			"b": []any{
				map[string]any{"d": 1},
			},
		},
	}

	got := logs.Export(nested, 3)
	assert.Contains(t, got, `"a"`)
	assert.Contains(t, got, `"b"`)
	assert.Contains(t, got, "<max depth reached>")
	assert.NotContains(t, got, `"d"`)

	deeper := logs.Export(nested, 4)
	assert.Contains(t, deeper, `"d"`)
}

func TestExportIsDeterministic(t *testing.T) {
	m := map[string]any{"z": 1, "a": 2, "m": []int{3}}
	first := logs.Export(m, 3)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, logs.Export(m, 3))
	}
	assert.Less(t, strings.Index(first, `"a"`), strings.Index(first, `"z"`))
}

type node struct {
	Name string
	Next *node
}

func TestExportTruncatesCycles(t *testing.T) {
	n := &node{Name: "head"}
	n.Next = n
	assert.Contains(t, logs.Export(n, 3), "<already shown>")

	self := map[string]any{}
	self["self"] = self
	assert.Contains(t, logs.Export(self, 3), "<max depth reached>")
}
