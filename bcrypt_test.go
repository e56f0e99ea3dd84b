package auth_test

import (
	"testing"

	auth "github.com/SalsaMixLabs/containerized-microservices-pipeline-service"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true, // bcrypt can hash empty strings!
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := auth.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)

			err = auth.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "testPassword123!"
	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)

	t.Run("Matching password", func(t *testing.T) {
		assert.NoError(t, auth.ComparePasswordAndHash(password, hash))
	})

	t.Run("Wrong password", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("somethingElse", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("Garbage hash", func(t *testing.T) {
		err := auth.ComparePasswordAndHash(password, "not-a-hash")
		assert.Error(t, err)
	})
}

func TestPasswordAuthenticator(t *testing.T) {
	authenticator := auth.NewPasswordAuthenticator()

	hash, err := authenticator.HashPassword("securePassword123!")
	assert.NoError(t, err)
	assert.NoError(t, authenticator.ComparePasswordAndHash("securePassword123!", hash))
	assert.Error(t, authenticator.ComparePasswordAndHash("wrong", hash))
}
