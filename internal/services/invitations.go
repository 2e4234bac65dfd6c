package services

import (
	"errors"
	"strings"

	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/authz"
	"github.com/strideboard-dev/strideboard/internal/models"
	"github.com/strideboard-dev/strideboard/internal/roles"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWorkspaceNotFound    = errors.New("workspace not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotAnInvite          = errors.New("notification is not an invitation")
	ErrNotRecipient         = errors.New("notification does not belong to you")
)

const inviteTitle = "Workspace Invitation"

// InviteMembers invites each email to the workspace and returns how
// many invitations were created. Unknown emails, existing members, and
// already-invited users are skipped silently; a zero count is not an
// error. Only admins may invite.
func InviteMembers(requester models.User, workspaceID uint, emails []string) (int, error) {
	if _, err := authz.RequireAdmin(db.DB, requester.ID, workspaceID); err != nil {
		return 0, err
	}

	var workspace models.Workspace

	if err := db.DB.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrWorkspaceNotFound
		}
		return 0, err
	}

	invited := 0

	for _, email := range emails {
		created, err := inviteOne(requester, workspace, email)

		if err != nil {
			return invited, err
		}

		if created {
			invited++
		}
	}

	return invited, nil
}

func inviteOne(requester models.User, workspace models.Workspace, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || email == strings.ToLower(requester.Email) {
		return false, nil
	}

	var user models.User

	err := db.DB.Where("email = ?", email).First(&user).Error

	if err != nil {
		// Unknown emails are skipped without signal so callers cannot
		// probe which addresses have accounts.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	member, err := authz.IsMember(db.DB, user.ID, workspace.ID)

	if err != nil {
		return false, err
	}

	if member {
		return false, nil
	}

	invite := models.Notification{
		RecipientID: user.ID,
		Type:        models.NotificationTypeInvite,
		WorkspaceID: workspace.ID,
		Title:       inviteTitle,
		Subtitle:    "You have been invited to join " + workspace.Name,
	}

	// The partial unique index is the authority on pending-invite
	// dedup; ON CONFLICT DO NOTHING makes a concurrent duplicate a
	// benign no-op instead of an error.
	result := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&invite)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// AcceptInvite turns a pending invitation into a MEMBER membership and
// deletes the notification. The membership insert and the notification
// delete run in one transaction so a concurrent duplicate accept can
// neither create two memberships nor leave the invite behind.
func AcceptInvite(userID, notificationID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		notification, err := loadInvite(tx, userID, notificationID)

		if err != nil {
			return err
		}

		membership := models.Membership{
			UserID:      notification.RecipientID,
			WorkspaceID: notification.WorkspaceID,
			Role:        string(roles.RoleMember),
		}

		// Already a member through another path: keep the existing
		// membership and still clear the invite. DO NOTHING rather than
		// a caught violation, which would abort the transaction.
		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error

		if err != nil {
			return err
		}

		return tx.Delete(&models.Notification{}, notification.ID).Error
	})
}

// RejectInvite discards a pending invitation without any membership
// side effect.
func RejectInvite(userID, notificationID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		notification, err := loadInvite(tx, userID, notificationID)

		if err != nil {
			return err
		}

		return tx.Delete(&models.Notification{}, notification.ID).Error
	})
}

func loadInvite(tx *gorm.DB, userID, notificationID uint) (models.Notification, error) {
	var notification models.Notification

	if err := tx.First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Notification{}, ErrNotificationNotFound
		}
		return models.Notification{}, err
	}

	if notification.Type != models.NotificationTypeInvite {
		return models.Notification{}, ErrNotAnInvite
	}

	if notification.RecipientID != userID {
		return models.Notification{}, ErrNotRecipient
	}

	return notification, nil
}

// ChangeMemberRole sets the target member's role. Admins only, never on
// yourself, never on the owner, and only the owner may change another
// admin's role.
func ChangeMemberRole(requesterID, workspaceID, targetUserID uint, newRole string) (roles.Role, error) {
	if err := authz.RequireNotSelf(requesterID, targetUserID); err != nil {
		return "", err
	}

	var role roles.Role

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := authz.RequireAdmin(tx, requesterID, workspaceID); err != nil {
			return err
		}

		// The role is validated only after the requester has proven
		// admin rights, so outsiders see a deny, not a validation hint.
		normalized, err := roles.Normalize(newRole)

		if err != nil {
			return err
		}

		role = normalized

		var target models.Membership

		err = tx.Where("user_id = ? AND workspace_id = ?", targetUserID, workspaceID).
			First(&target).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}

		if err := authz.RequireCanModifyTarget(tx, requesterID, target); err != nil {
			return err
		}

		return tx.Model(&target).Update("role", string(role)).Error
	})

	if err != nil {
		return "", err
	}

	return role, nil
}

// RemoveMember deletes the target member's membership. Admins only and
// never on yourself. Unlike ChangeMemberRole, no owner or admin-peer
// protection applies here; removal of any other member, the owner
// included, is allowed to an admin.
func RemoveMember(requesterID, workspaceID, targetUserID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := authz.RequireAdmin(tx, requesterID, workspaceID); err != nil {
			return err
		}

		if err := authz.RequireNotSelf(requesterID, targetUserID); err != nil {
			return err
		}

		var target models.Membership

		err := tx.Where("user_id = ? AND workspace_id = ?", targetUserID, workspaceID).
			First(&target).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}

		return tx.Delete(&target).Error
	})
}

// MarkAsRead deletes a notification of any type from the recipient's
// inbox. Deletion is the only read acknowledgment there is.
func MarkAsRead(userID, notificationID uint) error {
	result := db.DB.Where("id = ? AND recipient_id = ?", notificationID, userID).
		Delete(&models.Notification{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
