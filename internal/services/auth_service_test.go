package services

import (
	"context"
	"testing"
	"time"

	"clipnote/internal/auth"
	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(newFakeUsers(), tokens)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"missing username", " ", "secret1", models.ErrValidation},
		{"missing password", "ana", "", models.ErrValidation},
		{"short password", "ana", "12345", models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	session, err := svc.Register(ctx, " ana ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana", session.User.Username)
	claims, err := tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, id)

	_, err = svc.Register(ctx, "ana", "another1")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	login, err := svc.Login(ctx, "ana", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ana", "wrong-pass")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
