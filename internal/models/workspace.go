package models

type Workspace struct {
	BaseModel

	Name    string `gorm:"not null"`
	Slug    string `gorm:"not null;index"`
	OwnerID uint   `gorm:"not null;index"`

	// Relationships
	Owner         User           `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships   []Membership   `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Projects      []Project      `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
