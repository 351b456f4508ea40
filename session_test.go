package shopkit_test

import (
	"context"
	"testing"
	"time"

	shopkit "github.com/shopkit/go-shopkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity(token string) *shopkit.Identity {
	return &shopkit.Identity{
		ID:          "usr-1",
		Email:       "ada@example.com",
		DisplayName: "Ada",
		Token:       token,
		Roles:       []shopkit.RoleName{shopkit.RoleAdmin},
		IssuedAt:    time.Now().Truncate(time.Second),
	}
}

func TestSessionStoreSetGetClear(t *testing.T) {
	ctx := context.Background()
	store := shopkit.NewSessionStore(shopkit.NewMemoryStorage())

	_, ok := store.Get()
	assert.False(t, ok, "fresh store must report no identity")

	identity := testIdentity("tok-1")
	require.NoError(t, store.Set(ctx, identity))

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "usr-1", got.ID)
	assert.Equal(t, "tok-1", got.Token)
	assert.Equal(t, []shopkit.RoleName{shopkit.RoleAdmin}, got.Roles)

	require.NoError(t, store.Clear(ctx))
	_, ok = store.Get()
	assert.False(t, ok)

	// Clearing an already-absent session is not an error.
	require.NoError(t, store.Clear(ctx))
}

func TestSessionStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := shopkit.NewSessionStore(shopkit.NewMemoryStorage())

	require.NoError(t, store.Set(ctx, testIdentity("tok-1")))
	require.NoError(t, store.Set(ctx, testIdentity("tok-2")))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Set(ctx, testIdentity("tok-3")))

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "tok-3", got.Token)
}

func TestSessionStoreCrossContext(t *testing.T) {
	ctx := context.Background()
	storage := shopkit.NewMemoryStorage()

	// Two browsing contexts sharing one persisted layer.
	first := shopkit.NewSessionStore(storage)
	second := shopkit.NewSessionStore(storage)

	notified := 0
	cancel := second.Subscribe(func() { notified++ })
	defer cancel()

	require.NoError(t, first.Set(ctx, testIdentity("tok-shared")))

	assert.GreaterOrEqual(t, notified, 1, "second context must be notified of the change")

	got, ok := second.Get()
	require.True(t, ok, "second context re-reads and observes the login")
	assert.Equal(t, "tok-shared", got.Token)

	require.NoError(t, first.Clear(ctx))
	_, ok = second.Get()
	assert.False(t, ok, "logout must propagate to the second context")
}

func TestSessionStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	storage := shopkit.NewMemoryStorage()
	require.NoError(t, storage.Store(ctx, []byte("{not-json")))

	store := shopkit.NewSessionStore(storage)

	assert.NotPanics(t, func() {
		_, ok := store.Get()
		assert.False(t, ok, "corrupt payload must read as absent")
	})

	// The store stays usable after encountering corruption.
	require.NoError(t, store.Set(ctx, testIdentity("tok-after")))
	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "tok-after", got.Token)
}

func TestSessionStoreSubscribeCancel(t *testing.T) {
	ctx := context.Background()
	store := shopkit.NewSessionStore(shopkit.NewMemoryStorage())

	calls := 0
	cancel := store.Subscribe(func() { calls++ })

	require.NoError(t, store.Set(ctx, testIdentity("tok-1")))
	assert.Equal(t, 1, calls)

	cancel()
	require.NoError(t, store.Set(ctx, testIdentity("tok-2")))
	assert.Equal(t, 1, calls, "cancelled subscriber must not be notified")
}

func TestFileStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	storage, err := shopkit.NewFileStorage(dir, shopkit.DefaultSessionKey)
	require.NoError(t, err)

	payload, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, payload, "missing file reads as absent")

	require.NoError(t, storage.Store(ctx, []byte(`{"id":"usr-1"}`)))

	payload, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"usr-1"}`, string(payload))

	require.NoError(t, storage.Delete(ctx))
	payload, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestFileStorageBackedSessionStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	storage, err := shopkit.NewFileStorage(dir, shopkit.DefaultSessionKey)
	require.NoError(t, err)

	store := shopkit.NewSessionStore(storage)
	require.NoError(t, store.Set(ctx, testIdentity("tok-disk")))

	// A fresh store over the same file simulates an app reload.
	reloadStorage, err := shopkit.NewFileStorage(dir, shopkit.DefaultSessionKey)
	require.NoError(t, err)
	reloaded := shopkit.NewSessionStore(reloadStorage)

	got, ok := reloaded.Get()
	require.True(t, ok, "session must survive a reload")
	assert.Equal(t, "tok-disk", got.Token)
}

func TestSessionTokenProvider(t *testing.T) {
	ctx := context.Background()
	store := shopkit.NewSessionStore(shopkit.NewMemoryStorage())
	provider := shopkit.NewSessionTokenProvider(store)

	_, ok := provider.CurrentToken()
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, testIdentity("tok-9")))

	token, ok := provider.CurrentToken()
	require.True(t, ok)
	assert.Equal(t, "tok-9", token)

	require.NoError(t, store.Clear(ctx))
	_, ok = provider.CurrentToken()
	assert.False(t, ok)
}

func TestIdentityImmutability(t *testing.T) {
	identity := testIdentity("tok-1")

	refreshed := identity.WithToken("tok-2", time.Now())
	assert.Equal(t, "tok-1", identity.Token, "original identity must not change")
	assert.Equal(t, "tok-2", refreshed.Token)

	withRoles := identity.WithRoles([]shopkit.RoleName{shopkit.RoleStaff})
	assert.Equal(t, []shopkit.RoleName{shopkit.RoleAdmin}, identity.Roles)
	assert.Equal(t, []shopkit.RoleName{shopkit.RoleStaff}, withRoles.Roles)
}
