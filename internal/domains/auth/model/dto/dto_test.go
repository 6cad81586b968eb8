package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"plek/infras/jwt"
	"plek/internal/domains/auth/model/dto"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		Email:     "new@example.com",
		Password:  "plaintext",
		FirstName: "New",
		LastName:  "User",
	}

	user := req.ToUserModel(req.Email, "hashed-password")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "hashed-password", user.Password)
	assert.Equal(t, "New", user.FirstName)
	assert.Equal(t, "User", user.LastName)
	assert.False(t, user.IsVerified)
	assert.True(t, user.Active)
	assert.Equal(t, "new@example.com", user.CreatedBy)
}

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, tokenPair.ExpiresIn, response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
		ExpiresIn:    900,
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, tokenPair.ExpiresIn, response.ExpiresIn)
}

func TestNewUpdateLastLoginRequest(t *testing.T) {
	at := time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)

	req := dto.NewUpdateLastLoginRequest(at)

	parsed, err := time.Parse(time.RFC3339, req.LastLogin)
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}
