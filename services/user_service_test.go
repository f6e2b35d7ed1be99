package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	"growthGardenAPI/internal/user"
	"growthGardenAPI/storage"
)

func TestEnsureUserReturnsExistingWithoutProvisioning(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()

	name := "Ada"
	_, err := store.CreateUser(ctx, storage.NewUser{ID: "user_1", Email: "ada@example.com", Name: &name})
	require.NoError(t, err)

	u, err := svc.EnsureUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestUpdateProfilePatchesOnlyGivenFields(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()

	name := "Ada"
	avatar := "https://example.com/a.png"
	_, err := store.CreateUser(ctx, storage.NewUser{ID: "user_1", Email: "ada@example.com", Name: &name, AvatarURL: &avatar})
	require.NoError(t, err)

	newName := "Ada L."
	u, err := svc.UpdateProfile(ctx, "user_1", &user.UpdateProfileRequest{Name: &newName})
	require.NoError(t, err)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Ada L.", *u.Name)
	require.NotNil(t, u.AvatarURL)
	assert.Equal(t, avatar, *u.AvatarURL, "untouched fields survive")

	_, err = svc.GetProfile(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPrimaryEmailSelection(t *testing.T) {
	primary := "id_2"
	addresses := []*clerk.EmailAddress{
		{ID: "id_1", EmailAddress: "old@example.com"},
		{ID: "id_2", EmailAddress: "current@example.com"},
	}

	assert.Equal(t, "current@example.com", primaryEmail(addresses, &primary))
	assert.Equal(t, "old@example.com", primaryEmail(addresses, nil), "first address when no primary is marked")
	assert.Equal(t, "", primaryEmail(nil, &primary))
}

func TestDisplayName(t *testing.T) {
	first := "Grace"
	last := "Hopper"
	empty := ""

	assert.Equal(t, "Grace Hopper", displayName(&first, &last))
	assert.Equal(t, "Grace", displayName(&first, &empty))
	assert.Equal(t, "Hopper", displayName(nil, &last))
	assert.Equal(t, "", displayName(nil, nil))
}
