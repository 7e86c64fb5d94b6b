package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "Joao Conceicao", StripAccents("João Conceição"))
	assert.Equal(t, "Sao Luis", StripAccents("São Luís"))
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, sep string
		max     int
		want    string
	}{
		{"São José de Ribamar", "-", 0, "sao-jose-de-ribamar"},
		{"  --Açailândia!! ", "-", 0, "acailandia"},
		{"Maria  das Graças", ".", 0, "maria.das.gracas"},
		{"abcdef-ghij", "-", 7, "abcdef"},
		{"!!!", "-", 0, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in, c.sep, c.max), c.in)
	}
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "12345678901", OnlyDigits("123.456.789-01"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "açã", Truncate("açãoxyz", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}
