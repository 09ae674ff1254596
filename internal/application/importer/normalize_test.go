package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDiacritics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Tornillo", "Tornillo"},
		{"Ubicación", "Ubicacion"},
		{"ÑANDÚ", "NANDU"},
		{"café ámbar", "cafe ambar"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripDiacritics(tc.in), "entrada %q", tc.in)
	}
}

func TestNormalizeSKU(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"sin cambios", "ABC-123", "ABC-123"},
		{"espacios internos y bordes", "  AB C 123  ", "ABC123"},
		{"tildes", "CAFÉ-01", "CAFE-01"},
		{"símbolos", "AB#C/1.2", "ABC12"},
		{"guiones se conservan", "a-b-c", "a-b-c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeSKU(tc.in))
		})
	}
}
