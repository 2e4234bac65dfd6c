package models

import "time"

// BaseModel is gorm.Model without soft deletes. Rows that the workflow
// deletes (memberships, notifications) must actually leave their unique
// indexes, otherwise a removed member could never rejoin and a rejected
// invite could never be re-sent.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
