package models

const (
	NotificationTypeInvite = "INVITE"
	NotificationTypeUpdate = "UPDATE"
)

// Notification is a pending message in a user's inbox. Its presence is
// its state: accepting, rejecting, or reading one deletes the row. The
// partial unique index caps pending invites at one per (recipient,
// workspace) without constraining UPDATE notifications.
type Notification struct {
	BaseModel

	RecipientID uint   `gorm:"not null;index;uniqueIndex:idx_pending_invite,where:type = 'INVITE'"`
	Type        string `gorm:"not null"` // INVITE, UPDATE
	WorkspaceID uint   `gorm:"not null;uniqueIndex:idx_pending_invite"`
	WorkItemID  *uint  `gorm:"index"` // nil for invites
	Title       string `gorm:"not null"`
	Subtitle    string `gorm:"not null"`

	// Relationships
	Recipient User      `gorm:"foreignKey:RecipientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	WorkItem  *WorkItem `gorm:"foreignKey:WorkItemID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
