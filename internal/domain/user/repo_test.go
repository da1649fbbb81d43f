package user

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestBuildLoginUpdate_FirstLogin(t *testing.T) {
	u := LoginUser{
		UID:         "uid-1",
		Email:       strp("minji@example.com"),
		DisplayName: strp("  Kim   Minji "),
		PhotoURL:    strp("https://example.com/p.png"),
	}

	got := BuildLoginUpdate(u, false)

	assert.Equal(t, "uid-1", got["uid"])
	assert.Equal(t, "minji@example.com", got["email"])
	assert.Equal(t, "Kim Minji", got["displayName"])
	assert.Equal(t, "https://example.com/p.png", got["photoURL"])
	assert.Equal(t, firestore.ServerTimestamp, got["lastLoginAt"])
	assert.Equal(t, firestore.ServerTimestamp, got["updatedAt"])
	assert.Equal(t, firestore.ServerTimestamp, got["createdAt"])
	assert.Equal(t, DefaultRole, got["role"])
	assert.Equal(t, true, got["isActive"])
}

func TestBuildLoginUpdate_ReturningUserKeepsRoleAndCreatedAt(t *testing.T) {
	got := BuildLoginUpdate(LoginUser{UID: "uid-1"}, true)

	assert.NotContains(t, got, "createdAt")
	assert.NotContains(t, got, "role")
	assert.NotContains(t, got, "isActive")
	assert.Equal(t, firestore.ServerTimestamp, got["lastLoginAt"])
}

func TestBuildLoginUpdate_NullIdentityFields(t *testing.T) {
	got := BuildLoginUpdate(LoginUser{UID: "uid-2"}, true)

	for _, k := range []string{"email", "displayName", "photoURL"} {
		v, ok := got[k]
		assert.True(t, ok, k)
		assert.Nil(t, v, k)
	}
}

func TestProfile_HasRole(t *testing.T) {
	p := Profile{Role: "user", Roles: []string{"staff"}}
	assert.True(t, p.HasRole("user"))
	assert.True(t, p.HasRole("staff"))
	assert.False(t, p.HasRole("admin"))
}

// emulatorClient connects to the Firestore emulator, skipping the test when
// FIRESTORE_EMULATOR_HOST is not set.
func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	c, err := firestore.NewClient(context.Background(), "demo-taobao-orders")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRepo_UpsertOnLogin_Emulator(t *testing.T) {
	fs := emulatorClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := NewRepo(fs, "users_"+uuid.NewString())
	uid := "uid-" + uuid.NewString()

	created, err := repo.UpsertOnLogin(ctx, LoginUser{UID: uid, Email: strp("a@example.com"), DisplayName: strp("First")})
	require.NoError(t, err)
	assert.True(t, created)

	// An admin promotes the user; the next login must not reset the role.
	_, err = fs.Collection(repo.collection).Doc(uid).Set(ctx, map[string]any{"role": "staff"}, firestore.MergeAll)
	require.NoError(t, err)

	created, err = repo.UpsertOnLogin(ctx, LoginUser{UID: uid, Email: strp("a@example.com"), DisplayName: strp("Second")})
	require.NoError(t, err)
	assert.False(t, created)

	p, err := repo.Get(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "staff", p.Role)
	assert.True(t, p.IsActive)
	assert.Equal(t, "Second", p.DisplayName)
	assert.False(t, p.CreatedAt.IsZero())
	assert.False(t, p.LastLoginAt.IsZero())

	name, err := repo.DisplayName(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Second", name)

	name, err = repo.DisplayName(ctx, "missing-"+uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = repo.Get(ctx, "missing-"+uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
