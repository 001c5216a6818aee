package statetoken_test

import (
	"testing"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/adapters/statetoken"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GenerateThenVerify_RoundTrips(t *testing.T) {
	t.Parallel()

	svc := statetoken.New("shared-secret", time.Hour)

	token, envelope, err := svc.Generate("child-1", "youtube", "parent-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, envelope.Nonce)

	verified, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, envelope.ChildProfileID, verified.ChildProfileID)
	assert.Equal(t, envelope.Platform, verified.Platform)
	assert.Equal(t, envelope.ParentID, verified.ParentID)
	assert.Equal(t, envelope.Nonce, verified.Nonce)
}

func TestService_Verify_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signed := statetoken.New("secret-a", time.Hour)
	other := statetoken.New("secret-b", time.Hour)

	token, _, err := signed.Generate("child-1", "youtube", "parent-1")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, statetoken.ErrInvalid)
}

func TestService_Verify_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	svc := statetoken.New("shared-secret", -time.Minute)

	token, _, err := svc.Generate("child-1", "youtube", "parent-1")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, statetoken.ErrInvalid)
}

func TestService_Generate_RequiresSecret(t *testing.T) {
	t.Parallel()

	svc := statetoken.New("", time.Hour)

	_, _, err := svc.Generate("child-1", "youtube", "parent-1")
	assert.ErrorIs(t, err, statetoken.ErrNotConfigured)
}
