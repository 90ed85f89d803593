package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, isPasswordStrong("abc12345"))
	assert.True(t, isPasswordStrong("SenhaForte1"))

	assert.False(t, isPasswordStrong("abc123"), "too short")
	assert.False(t, isPasswordStrong("abcdefgh"), "no digit")
	assert.False(t, isPasswordStrong("12345678"), "no letter")
	assert.False(t, isPasswordStrong(""))
}

func TestGenerateToken(t *testing.T) {
	a := generateToken()
	b := generateToken()

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
