package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

func TestPermissionService_AccessLevel(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	admin := f.addUser("admin@example.com", constants.RoleAdmin)
	editor := f.addUser("editor@example.com", constants.RoleEditor)
	reader := f.addUser("reader@example.com", constants.RoleReadonly)

	shared := &models.Collection{Name: "Marketing"}
	require.NoError(t, f.collections.Create(ctx, shared))
	personal := &models.Collection{Name: "Editor's", PersonalOwnerID: &editor.ID}
	require.NoError(t, f.collections.Create(ctx, personal))

	f.grant(constants.RoleEditor, nil, constants.AccessWrite)
	f.grant(constants.RoleReadonly, nil, constants.AccessRead)
	f.grant(constants.RoleEditor, shared.ID, constants.AccessRead)

	tests := []struct {
		name       string
		user       *models.User
		collection *int64
		want       string
	}{
		{"admin on root", admin, nil, constants.AccessWrite},
		{"admin on someone's personal collection", admin, personal.ID, constants.AccessWrite},
		{"editor on root", editor, nil, constants.AccessWrite},
		{"editor on shared with read grant", editor, shared.ID, constants.AccessRead},
		{"owner on personal", editor, personal.ID, constants.AccessWrite},
		{"reader on root", reader, nil, constants.AccessRead},
		{"reader without grant", reader, shared.ID, constants.AccessNone},
		{"reader on other's personal", reader, personal.ID, constants.AccessNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.perms.AccessLevel(ctx, tt.user, tt.collection)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionService_CurrentUser(t *testing.T) {
	f := newFixture()
	user := f.addUser("someone@example.com", constants.RoleEditor)

	got, err := f.perms.CurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleEditor, got.Role)

	_, err = f.perms.CurrentUser(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, 401, utils.StatusCode(err))
}

func TestPermissionService_Collection(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	editor := f.addUser("editor@example.com", constants.RoleEditor)
	reader := f.addUser("reader@example.com", constants.RoleReadonly)
	f.grant(constants.RoleEditor, nil, constants.AccessWrite)
	f.grant(constants.RoleReadonly, nil, constants.AccessRead)

	root, err := f.perms.Collection(ctx, editor, nil)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.Equal(t, constants.DefaultRootCollectionName, root.Name)
	assert.True(t, root.CanWrite)

	root, err = f.perms.Collection(ctx, reader, nil)
	require.NoError(t, err)
	assert.False(t, root.CanWrite)

	err = f.perms.RequireWrite(ctx, reader, nil)
	require.Error(t, err)
	assert.True(t, utils.IsForbiddenError(err))

	missing := int64(42)
	_, err = f.perms.Collection(ctx, editor, &missing)
	assert.True(t, utils.IsNotFoundError(err))
}
