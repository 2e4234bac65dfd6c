package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/authz"
	"github.com/strideboard-dev/strideboard/internal/models"
	"github.com/strideboard-dev/strideboard/internal/roles"
	"github.com/strideboard-dev/strideboard/internal/services"
	"github.com/strideboard-dev/strideboard/internal/testdb"
)

func TestInviteMembers(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	invitee := seedUser(t, "Bob", "bob@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	invited, err := services.InviteMembers(owner, workspace.ID, []string{"  Bob@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, 1, invited)

	invites := pendingInvites(t, invitee.ID, workspace.ID)
	require.Len(t, invites, 1)
	assert.Equal(t, "Workspace Invitation", invites[0].Title)
	assert.Equal(t, "You have been invited to join Acme", invites[0].Subtitle)
	assert.Nil(t, invites[0].WorkItemID)
}

func TestInviteMembersSkipsSilently(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	member := seedUser(t, "Bob", "bob@example.com")
	invitee := seedUser(t, "Carol", "carol@example.com")
	workspace := createWorkspace(t, owner, "Acme")
	seedMember(t, member, workspace, roles.RoleMember)

	// Pre-existing pending invite for Carol.
	invited, err := services.InviteMembers(owner, workspace.ID, []string{"carol@example.com"})
	require.NoError(t, err)
	require.Equal(t, 1, invited)

	// Own email, no such account, already a member, already invited,
	// blank: all skipped, none an error.
	invited, err = services.InviteMembers(owner, workspace.ID, []string{
		"alice@example.com",
		"nobody@example.com",
		"bob@example.com",
		"carol@example.com",
		"",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, invited)

	assert.Len(t, pendingInvites(t, invitee.ID, workspace.ID), 1)
}

func TestInviteMembersRequiresAdmin(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	member := seedUser(t, "Bob", "bob@example.com")
	outsider := seedUser(t, "Carol", "carol@example.com")
	workspace := createWorkspace(t, owner, "Acme")
	seedMember(t, member, workspace, roles.RoleMember)

	_, err := services.InviteMembers(member, workspace.ID, []string{"carol@example.com"})
	assert.ErrorIs(t, err, authz.ErrInsufficientRole)

	_, err = services.InviteMembers(outsider, workspace.ID, []string{"bob@example.com"})
	assert.ErrorIs(t, err, authz.ErrNotAMember)
}

func TestPendingInviteUniqueIndex(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	invitee := seedUser(t, "Bob", "bob@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	invite := models.Notification{
		RecipientID: invitee.ID,
		Type:        models.NotificationTypeInvite,
		WorkspaceID: workspace.ID,
		Title:       "Workspace Invitation",
		Subtitle:    "You have been invited to join Acme",
	}
	require.NoError(t, db.DB.Create(&invite).Error)

	// A second pending invite for the same pair is rejected by the
	// index itself, not by an application check.
	duplicate := models.Notification{
		RecipientID: invitee.ID,
		Type:        models.NotificationTypeInvite,
		WorkspaceID: workspace.ID,
		Title:       "Workspace Invitation",
		Subtitle:    "You have been invited to join Acme",
	}
	err := db.DB.Create(&duplicate).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// UPDATE notifications are not constrained by the invite index.
	for i := 0; i < 2; i++ {
		update := models.Notification{
			RecipientID: invitee.ID,
			Type:        models.NotificationTypeUpdate,
			WorkspaceID: workspace.ID,
			Title:       "Work Item Assigned",
			Subtitle:    "You have been assigned to something",
		}
		require.NoError(t, db.DB.Create(&update).Error)
	}
}

func TestMembershipUniqueIndex(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	duplicate := models.Membership{
		UserID:      owner.ID,
		WorkspaceID: workspace.ID,
		Role:        string(roles.RoleMember),
	}
	err := db.DB.Create(&duplicate).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.EqualValues(t, 1, membershipCount(t, owner.ID, workspace.ID))
}

func TestAcceptInvite(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	invitee := seedUser(t, "Bob", "bob@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	_, err := services.InviteMembers(owner, workspace.ID, []string{"bob@example.com"})
	require.NoError(t, err)

	invites := pendingInvites(t, invitee.ID, workspace.ID)
	require.Len(t, invites, 1)

	require.NoError(t, services.AcceptInvite(invitee.ID, invites[0].ID))

	membership, err := authz.RequireMembership(db.DB, invitee.ID, workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, string(roles.RoleMember), membership.Role)

	assert.Empty(t, pendingInvites(t, invitee.ID, workspace.ID))

	// A replayed accept finds nothing; no second membership appears.
	err = services.AcceptInvite(invitee.ID, invites[0].ID)
	assert.ErrorIs(t, err, services.ErrNotificationNotFound)
	assert.EqualValues(t, 1, membershipCount(t, invitee.ID, workspace.ID))
}

func TestAcceptInviteAlreadyMember(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	invitee := seedUser(t, "Bob", "bob@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	_, err := services.InviteMembers(owner, workspace.ID, []string{"bob@example.com"})
	require.NoError(t, err)

	// Bob joined through another path while the invite was pending.
	seedMember(t, invitee, workspace, roles.RoleViewer)

	invites := pendingInvites(t, invitee.ID, workspace.ID)
	require.Len(t, invites, 1)

	require.NoError(t, services.AcceptInvite(invitee.ID, invites[0].ID))

	// Existing membership is kept as-is and the invite is cleared.
	membership, err := authz.RequireMembership(db.DB, invitee.ID, workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, string(roles.RoleViewer), membership.Role)
	assert.EqualValues(t, 1, membershipCount(t, invitee.ID, workspace.ID))
	assert.Empty(t, pendingInvites(t, invitee.ID, workspace.ID))
}

func TestAcceptInviteGuards(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	invitee := seedUser(t, "Bob", "bob@example.com")
	bystander := seedUser(t, "Carol", "carol@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	_, err := services.InviteMembers(owner, workspace.ID, []string{"bob@example.com"})
	require.NoError(t, err)

	invites := pendingInvites(t, invitee.ID, workspace.ID)
	require.Len(t, invites, 1)

	err = services.AcceptInvite(invitee.ID, 99999)
	assert.ErrorIs(t, err, services.ErrNotificationNotFound)

	// Only the recipient may accept.
	err = services.AcceptInvite(bystander.ID, invites[0].ID)
	assert.ErrorIs(t, err, services.ErrNotRecipient)
	assert.Len(t, pendingInvites(t, invitee.ID, workspace.ID), 1)

	// UPDATE notifications cannot be accepted.
	update := models.Notification{
		RecipientID: invitee.ID,
		Type:        models.NotificationTypeUpdate,
		WorkspaceID: workspace.ID,
		Title:       "Work Item Assigned",
		Subtitle:    "You have been assigned to something",
	}
	require.NoError(t, db.DB.Create(&update).Error)

	err = services.AcceptInvite(invitee.ID, update.ID)
	assert.ErrorIs(t, err, services.ErrNotAnInvite)
}

func TestRejectInvite(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	invitee := seedUser(t, "Bob", "bob@example.com")
	bystander := seedUser(t, "Carol", "carol@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	_, err := services.InviteMembers(owner, workspace.ID, []string{"bob@example.com"})
	require.NoError(t, err)

	invites := pendingInvites(t, invitee.ID, workspace.ID)
	require.Len(t, invites, 1)

	err = services.RejectInvite(bystander.ID, invites[0].ID)
	assert.ErrorIs(t, err, services.ErrNotRecipient)

	require.NoError(t, services.RejectInvite(invitee.ID, invites[0].ID))

	// No membership side effect, invite gone.
	assert.EqualValues(t, 0, membershipCount(t, invitee.ID, workspace.ID))
	assert.Empty(t, pendingInvites(t, invitee.ID, workspace.ID))

	// A rejected invite can be re-sent.
	invited, err := services.InviteMembers(owner, workspace.ID, []string{"bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, invited)
}

func TestChangeMemberRole(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	invitee := seedUser(t, "Bob", "bob@example.com")
	outsider := seedUser(t, "Carol", "carol@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	// Full lifecycle: invite, accept, promote.
	invited, err := services.InviteMembers(owner, workspace.ID, []string{"bob@example.com"})
	require.NoError(t, err)
	require.Equal(t, 1, invited)

	invites := pendingInvites(t, invitee.ID, workspace.ID)
	require.Len(t, invites, 1)
	require.NoError(t, services.AcceptInvite(invitee.ID, invites[0].ID))

	role, err := services.ChangeMemberRole(owner.ID, workspace.ID, invitee.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, roles.RoleAdmin, role)

	membership, err := authz.RequireMembership(db.DB, invitee.ID, workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, string(roles.RoleAdmin), membership.Role)

	// Requester outside the workspace is rejected.
	_, err = services.ChangeMemberRole(outsider.ID, workspace.ID, invitee.ID, "VIEWER")
	assert.ErrorIs(t, err, authz.ErrNotAMember)
}

func TestChangeMemberRoleGuards(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	admin := seedUser(t, "Bob", "bob@example.com")
	peer := seedUser(t, "Carol", "carol@example.com")
	workspace := createWorkspace(t, owner, "Acme")
	seedMember(t, admin, workspace, roles.RoleAdmin)
	seedMember(t, peer, workspace, roles.RoleAdmin)

	_, err := services.ChangeMemberRole(owner.ID, workspace.ID, owner.ID, "MEMBER")
	assert.ErrorIs(t, err, authz.ErrSelfActionForbidden)

	_, err = services.ChangeMemberRole(owner.ID, workspace.ID, admin.ID, "manager")
	assert.ErrorIs(t, err, roles.ErrInvalidRole)

	// Authorization is decided before the role is validated: callers
	// without admin rights get the deny, not a role-validation hint.
	member := seedUser(t, "Dave", "dave@example.com")
	seedMember(t, member, workspace, roles.RoleMember)

	_, err = services.ChangeMemberRole(member.ID, workspace.ID, peer.ID, "manager")
	assert.ErrorIs(t, err, authz.ErrInsufficientRole)

	outsider := seedUser(t, "Eve", "eve@example.com")

	_, err = services.ChangeMemberRole(outsider.ID, workspace.ID, peer.ID, "manager")
	assert.ErrorIs(t, err, authz.ErrNotAMember)

	_, err = services.ChangeMemberRole(owner.ID, workspace.ID, 99999, "MEMBER")
	assert.ErrorIs(t, err, services.ErrMembershipNotFound)

	// The owner's role is untouchable, even for another admin.
	_, err = services.ChangeMemberRole(admin.ID, workspace.ID, owner.ID, "MEMBER")
	assert.ErrorIs(t, err, authz.ErrOwnerProtected)

	// A non-owner admin cannot demote a peer admin; the owner can.
	_, err = services.ChangeMemberRole(admin.ID, workspace.ID, peer.ID, "MEMBER")
	assert.ErrorIs(t, err, authz.ErrAdminProtected)

	role, err := services.ChangeMemberRole(owner.ID, workspace.ID, peer.ID, "MEMBER")
	require.NoError(t, err)
	assert.Equal(t, roles.RoleMember, role)
}

func TestRemoveMember(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	member := seedUser(t, "Bob", "bob@example.com")
	workspace := createWorkspace(t, owner, "Acme")
	seedMember(t, member, workspace, roles.RoleMember)

	require.NoError(t, services.RemoveMember(owner.ID, workspace.ID, member.ID))
	assert.EqualValues(t, 0, membershipCount(t, member.ID, workspace.ID))

	err := services.RemoveMember(owner.ID, workspace.ID, member.ID)
	assert.ErrorIs(t, err, services.ErrMembershipNotFound)

	err = services.RemoveMember(owner.ID, workspace.ID, owner.ID)
	assert.ErrorIs(t, err, authz.ErrSelfActionForbidden)

	// A removed member can rejoin via a fresh invite.
	invited, err := services.InviteMembers(owner, workspace.ID, []string{"bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, invited)
}

// Removal carries no owner or admin-peer protection; only role changes
// do. This pins the asymmetry so any change to it is deliberate.
func TestRemoveMemberCanRemoveOwner(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	admin := seedUser(t, "Bob", "bob@example.com")
	workspace := createWorkspace(t, owner, "Acme")
	seedMember(t, admin, workspace, roles.RoleAdmin)

	require.NoError(t, services.RemoveMember(admin.ID, workspace.ID, owner.ID))
	assert.EqualValues(t, 0, membershipCount(t, owner.ID, workspace.ID))
}

func TestMarkAsRead(t *testing.T) {
	testdb.Setup(t)

	owner := seedUser(t, "Alice", "alice@example.com")
	recipient := seedUser(t, "Bob", "bob@example.com")
	workspace := createWorkspace(t, owner, "Acme")

	notification := models.Notification{
		RecipientID: recipient.ID,
		Type:        models.NotificationTypeUpdate,
		WorkspaceID: workspace.ID,
		Title:       "Work Item Assigned",
		Subtitle:    "You have been assigned to something",
	}
	require.NoError(t, db.DB.Create(&notification).Error)

	// Somebody else's delete does not touch it.
	err := services.MarkAsRead(owner.ID, notification.ID)
	assert.ErrorIs(t, err, services.ErrNotificationNotFound)

	require.NoError(t, services.MarkAsRead(recipient.ID, notification.ID))

	err = services.MarkAsRead(recipient.ID, notification.ID)
	assert.ErrorIs(t, err, services.ErrNotificationNotFound)
}
