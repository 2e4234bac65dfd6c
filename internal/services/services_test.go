package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/models"
	"github.com/strideboard-dev/strideboard/internal/roles"
	"github.com/strideboard-dev/strideboard/internal/services"
)

func seedUser(t *testing.T, name, email string) models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

func createWorkspace(t *testing.T, owner models.User, name string) models.Workspace {
	t.Helper()

	workspace, _, err := services.CreateWorkspace(owner, name, "", nil)
	require.NoError(t, err)

	return workspace
}

func seedMember(t *testing.T, user models.User, workspace models.Workspace, role roles.Role) models.Membership {
	t.Helper()

	membership := models.Membership{
		UserID:      user.ID,
		WorkspaceID: workspace.ID,
		Role:        string(role),
	}
	require.NoError(t, db.DB.Create(&membership).Error)

	return membership
}

func membershipCount(t *testing.T, userID, workspaceID uint) int64 {
	t.Helper()

	var count int64
	err := db.DB.Model(&models.Membership{}).
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		Count(&count).Error
	require.NoError(t, err)

	return count
}

func pendingInvites(t *testing.T, userID, workspaceID uint) []models.Notification {
	t.Helper()

	var notifications []models.Notification
	err := db.DB.Where("recipient_id = ? AND workspace_id = ? AND type = ?",
		userID, workspaceID, models.NotificationTypeInvite).
		Find(&notifications).Error
	require.NoError(t, err)

	return notifications
}
