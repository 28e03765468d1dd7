package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyStore(t *testing.T) {
	db := NewTestDB(t)
	store := NewAPIKeyStore(db)
	ctx := context.Background()
	owner := session.Principal{TenantID: "tenant1", UserID: "user1", Role: session.RoleOwner}

	require.NoError(t, store.Create(ctx, "secret-token", owner, "ci"))
	require.Error(t, store.Create(ctx, "other", session.Principal{TenantID: "t", UserID: "u", Role: "root"}, ""))

	p, err := store.ResolvePrincipal(ctx, "secret-token")
	require.NoError(t, err)
	require.Equal(t, owner, p)

	var stored string
	require.NoError(t, db.QueryRow(`SELECT key_hash FROM api_keys`).Scan(&stored))
	require.NotEqual(t, "secret-token", stored)
	require.Equal(t, HashToken("secret-token"), stored)

	_, err = store.ResolvePrincipal(ctx, "wrong")
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}
