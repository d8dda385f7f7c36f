package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	hash, err := pm.HashPassword("Sunny#Harbor9")
	require.NoError(t, err)
	assert.NotEqual(t, "Sunny#Harbor9", hash)

	assert.NoError(t, pm.VerifyPassword("Sunny#Harbor9", hash))
	assert.Error(t, pm.VerifyPassword("Sunny#Harbor8", hash))
}

func TestValidatePassword(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	tests := []struct {
		password string
		wantErr  string
	}{
		{"Sh0rt!", "at least 8"},
		{"alllowercase9!", "uppercase"},
		{"ALLUPPERCASE9!", "lowercase"},
		{"NoDigitsHere!", "number"},
		{"NoSpecial99x", "special"},
		{"Xyz!abc9Qwe", "sequential"},
		{"Mypassword!9", "too common"},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := pm.ValidatePassword(tt.password)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.NoError(t, pm.ValidatePassword("Sunny#Harbor9"))
}
