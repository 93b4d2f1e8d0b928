package service

import (
	"testing"
	"time"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "credential-market")

	user := &domain.User{
		ID:    uuid.New(),
		Login: "seller_one",
		Email: "seller@example.com",
		Role:  domain.RoleSeller,
	}

	token, expiry, err := svc.Generate(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "seller_one", claims.Login)
	assert.Equal(t, "seller@example.com", claims.Email)
	assert.Equal(t, domain.RoleSeller, claims.Role)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	svc := NewJWTTokenService("secret-a", time.Hour, "credential-market")
	other := NewJWTTokenService("secret-b", time.Hour, "credential-market")

	token, _, err := svc.Generate(&domain.User{ID: uuid.New(), Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", -time.Minute, "credential-market")

	token, _, err := svc.Generate(&domain.User{ID: uuid.New(), Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "credential-market")

	_, err := svc.Validate("not.a.jwt")
	assert.Error(t, err)
}
