// Package authz centralizes the membership and role checks that every
// mutating workspace operation performs. Handlers and services compose
// these predicates instead of re-deriving inline checks per endpoint.
package authz

import (
	"errors"

	"github.com/strideboard-dev/strideboard/internal/models"
	"github.com/strideboard-dev/strideboard/internal/roles"
	"gorm.io/gorm"
)

var (
	ErrNotAMember          = errors.New("you are not a member of this workspace")
	ErrInsufficientRole    = errors.New("your role does not permit this action")
	ErrSelfActionForbidden = errors.New("you cannot perform this action on yourself")
	ErrOwnerProtected      = errors.New("cannot change the role of the workspace owner")
	ErrAdminProtected      = errors.New("only the workspace owner can change the role of other admins")
)

// Predicates take the *gorm.DB they should read through so they can run
// inside a workflow transaction.

func IsMember(tx *gorm.DB, userID, workspaceID uint) (bool, error) {
	var count int64

	err := tx.Model(&models.Membership{}).
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func RequireMembership(tx *gorm.DB, userID, workspaceID uint) (models.Membership, error) {
	var membership models.Membership

	err := tx.Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Membership{}, ErrNotAMember
		}
		return models.Membership{}, err
	}

	return membership, nil
}

func RequireAdmin(tx *gorm.DB, userID, workspaceID uint) (models.Membership, error) {
	membership, err := RequireMembership(tx, userID, workspaceID)

	if err != nil {
		return models.Membership{}, err
	}

	if roles.Role(membership.Role) != roles.RoleAdmin {
		return models.Membership{}, ErrInsufficientRole
	}

	return membership, nil
}

// RequireNotViewer gates actions open to admins and members alike, such
// as project creation. Note this is intentionally looser than
// RequireAdmin: only VIEWER is excluded.
func RequireNotViewer(tx *gorm.DB, userID, workspaceID uint) (models.Membership, error) {
	membership, err := RequireMembership(tx, userID, workspaceID)

	if err != nil {
		return models.Membership{}, err
	}

	if roles.Role(membership.Role) == roles.RoleViewer {
		return models.Membership{}, ErrInsufficientRole
	}

	return membership, nil
}

func RequireNotSelf(requesterID, targetUserID uint) error {
	if requesterID == targetUserID {
		return ErrSelfActionForbidden
	}

	return nil
}

// RequireCanModifyTarget enforces the owner and admin-peer protection
// rules on a target membership: nobody may alter the owner, and only
// the owner may alter another admin.
func RequireCanModifyTarget(tx *gorm.DB, requesterID uint, target models.Membership) error {
	var workspace models.Workspace

	if err := tx.First(&workspace, target.WorkspaceID).Error; err != nil {
		return err
	}

	if workspace.OwnerID == target.UserID {
		return ErrOwnerProtected
	}

	if roles.Role(target.Role) == roles.RoleAdmin && workspace.OwnerID != requesterID {
		return ErrAdminProtected
	}

	return nil
}
