package repositories

import (
	"AfyaCare/database"
	"AfyaCare/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRole(t *testing.T) models.Role {
	t.Helper()
	role := models.Role{Name: "Doctor", Description: "test role"}
	require.NoError(t, database.DB.Create(&role).Error)
	return role
}

func TestCreateUserHashesPassword(t *testing.T) {
	setupTestDB(t)
	repo := NewUserRepository(nil)
	ctx := context.Background()

	role := seedRole(t)
	user := &models.User{
		Username:    "drodera",
		Email:       "odera@example.com",
		Password:    "Str0ng!Pass",
		Designation: "doctor",
		RoleID:      role.ID,
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, "Str0ng!Pass", user.Password)
	assert.NotEmpty(t, user.Password)

	verified, err := repo.VerifyPassword(ctx, "drodera", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.Empty(t, verified.Password)

	_, err = repo.VerifyPassword(ctx, "drodera", "wrong-pass")
	assert.Error(t, err)
}

func TestUpdateUserKeepsHashWhenPasswordEmpty(t *testing.T) {
	setupTestDB(t)
	repo := NewUserRepository(nil)
	ctx := context.Background()

	role := seedRole(t)
	user := &models.User{
		Username: "nursejane",
		Email:    "jane@example.com",
		Password: "Str0ng!Pass",
		RoleID:   role.ID,
	}
	require.NoError(t, repo.Create(ctx, user))

	user.Email = "jane.w@example.com"
	user.Password = ""
	require.NoError(t, repo.Update(ctx, user))

	_, err := repo.VerifyPassword(ctx, "nursejane", "Str0ng!Pass")
	assert.NoError(t, err, "old password must keep working after a no-password update")
}

func TestGetAllUsersStripsPasswords(t *testing.T) {
	setupTestDB(t)
	repo := NewUserRepository(nil)
	ctx := context.Background()

	role := seedRole(t)
	require.NoError(t, repo.Create(ctx, &models.User{
		Username: "labtech1", Email: "lab@example.com", Password: "Str0ng!Pass", RoleID: role.ID,
	}))

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}
