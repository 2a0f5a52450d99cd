package repository

import (
	"testing"

	"github.com/rocketscienceinc/gameroom-backend/internal/apperror"
	"github.com/rocketscienceinc/gameroom-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Create(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// When: a session is created
	sessionID, err := sessionRepo.Create(ctx)

	// Then: a non-empty identifier is issued and stored
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	session, err := sessionRepo.GetByID(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, session.ID)
	assert.False(t, session.IssuedAt.IsZero())
}

func TestSessionRepository_Create_Unique(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// When: two sessions are created
	first, err := sessionRepo.Create(ctx)
	require.NoError(t, err)

	second, err := sessionRepo.Create(ctx)
	require.NoError(t, err)

	// Then: the identifiers differ
	assert.NotEqual(t, first, second)
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// When: GetByID is called with an identifier that was never issued
	session, err := sessionRepo.GetByID(ctx, "never-issued")

	// Then: ErrSessionNotFound is returned
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	assert.Empty(t, session.ID)
}

func TestSessionRepository_Exists(t *testing.T) {
	t.Run("Exists_Issued", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// Given: an issued session
		sessionID, err := sessionRepo.Create(ctx)
		require.NoError(t, err)

		// When: existence is checked
		issued, err := sessionRepo.Exists(ctx, sessionID)

		// Then: the session is known
		require.NoError(t, err)
		assert.True(t, issued)
	})

	t.Run("Exists_NeverIssued", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// When: existence is checked for an unknown identifier
		issued, err := sessionRepo.Exists(ctx, "never-issued")

		// Then: the session is unknown, without error
		require.NoError(t, err)
		assert.False(t, issued)
	})
}
