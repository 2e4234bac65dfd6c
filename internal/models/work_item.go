package models

import (
	"gorm.io/datatypes"
)

type WorkItem struct {
	BaseModel

	ProjectID   uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null"` // "todo", "in_progress", "done"
	Priority    string `gorm:"not null"` // "low", "medium", "high"
	Type        string `gorm:"not null"` // "task", "bug", "story"
	AssigneeID  *uint  `gorm:"index"`
	Metadata    datatypes.JSON

	// Relationships
	Project       Project        `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee      *User          `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Notifications []Notification `gorm:"foreignKey:WorkItemID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
