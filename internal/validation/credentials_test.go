package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Str0ng-Passw0rd!"))

	cases := map[string]string{
		"too short":    "Ab1!",
		"too long":     strings.Repeat("Aa1!", 33),
		"no uppercase": "weak-password-1!",
		"no lowercase": "WEAK-PASSWORD-1!",
		"no digit":     "Weak-Password-!!",
		"no special":   "WeakPassword1234",
	}
	for name, pw := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidatePassword(pw))
		})
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("healthy_eater"))
	assert.NoError(t, ValidateUsername("user-42"))
	assert.NoError(t, ValidateUsername(strings.Repeat("a", maxUsernameLen)))

	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", maxUsernameLen+1)))
	assert.Error(t, ValidateUsername("_leading"))
	assert.Error(t, ValidateUsername("trailing-"))
	assert.Error(t, ValidateUsername("has spaces"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("someone@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", maxEmailLen)+"@example.com"))
}
