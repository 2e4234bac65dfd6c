package models

type Project struct {
	BaseModel

	Name        string `gorm:"not null"`
	Description string
	WorkspaceID uint `gorm:"not null;index"`
	CreatorID   uint `gorm:"not null;index"`

	// Relationships
	Workspace Workspace  `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator   User       `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	WorkItems []WorkItem `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
