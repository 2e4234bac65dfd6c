package services

import (
	"errors"
	"strings"

	"github.com/gosimple/slug"
	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/authz"
	"github.com/strideboard-dev/strideboard/internal/models"
	"github.com/strideboard-dev/strideboard/internal/roles"
	"gorm.io/gorm"
)

// CreateWorkspace creates the workspace, makes the creator its owner
// and first ADMIN member, and invites any initial member emails. The
// returned count is the number of invitations sent.
func CreateWorkspace(creator models.User, name, slugInput string, memberEmails []string) (models.Workspace, int, error) {
	workspace := models.Workspace{
		Name:    name,
		OwnerID: creator.ID,
	}

	if s := strings.TrimSpace(slugInput); s != "" {
		workspace.Slug = s
	} else {
		workspace.Slug = slug.Make(name)
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}

		ownerMembership := models.Membership{
			UserID:      creator.ID,
			WorkspaceID: workspace.ID,
			Role:        string(roles.RoleAdmin),
		}

		return tx.Create(&ownerMembership).Error
	})

	if err != nil {
		return models.Workspace{}, 0, err
	}

	invited := 0

	for _, email := range memberEmails {
		created, err := inviteOne(creator, workspace, email)

		if err != nil {
			return workspace, invited, err
		}

		if created {
			invited++
		}
	}

	return workspace, invited, nil
}

// DeleteWorkspace removes the workspace. Memberships, projects, work
// items, and notifications go with it through the ON DELETE CASCADE
// constraints; the database makes the cascade atomic.
func DeleteWorkspace(requesterID, workspaceID uint) error {
	if _, err := authz.RequireAdmin(db.DB, requesterID, workspaceID); err != nil {
		return err
	}

	var workspace models.Workspace

	if err := db.DB.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return err
	}

	return db.DB.Delete(&workspace).Error
}

// RenameWorkspace sets a new display name. Admins only; the slug is
// left untouched.
func RenameWorkspace(requesterID, workspaceID uint, name string) (models.Workspace, error) {
	if _, err := authz.RequireAdmin(db.DB, requesterID, workspaceID); err != nil {
		return models.Workspace{}, err
	}

	var workspace models.Workspace

	if err := db.DB.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Workspace{}, ErrWorkspaceNotFound
		}
		return models.Workspace{}, err
	}

	workspace.Name = strings.TrimSpace(name)

	if err := db.DB.Save(&workspace).Error; err != nil {
		return models.Workspace{}, err
	}

	return workspace, nil
}
