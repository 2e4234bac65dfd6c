package models

// Membership grants a user a role inside a workspace. The composite
// unique index is the authority for the one-membership-per-pair
// invariant; concurrent inserts race on it, not on application checks.
type Membership struct {
	BaseModel

	UserID      uint   `gorm:"not null;uniqueIndex:idx_user_workspace"`
	WorkspaceID uint   `gorm:"not null;uniqueIndex:idx_user_workspace"`
	Role        string `gorm:"not null"`

	// Relationships
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
