package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTelefone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already E164 with country code", "+5511999999999", "+5511999999999"},
		{"digits with country code", "5511999999999", "+5511999999999"},
		{"bare local number", "11999999999", "+5511999999999"},
		{"formatted local number", "(11) 99999-9999", "+5511999999999"},
		{"landline without ninth digit", "1133334444", "+551133334444"},
		{"spaces and dashes", "55 11 99999-9999", "+5511999999999"},
		{"empty", "", ""},
		{"only punctuation", "() -", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTelefone(tc.in))
		})
	}
}

func TestNormalizeTelefoneIdempotent(t *testing.T) {
	inputs := []string{"+5511999999999", "11999999999", "(11) 3333-4444", "5511988887777"}
	for _, in := range inputs {
		once := NormalizeTelefone(in)
		assert.Equal(t, once, NormalizeTelefone(once), "normalizing %q twice must not change it", in)
	}
}
