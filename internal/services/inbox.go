package services

import (
	"strings"

	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/models"
)

// InboxItem is the display-ready view of a pending notification. It is
// derived on every read and never stored.
type InboxItem struct {
	ID            uint   `json:"id"`
	Type          string `json:"type"` // "invite" or "update"
	WorkspaceName string `json:"workspace_name"`
	ProjectName   string `json:"project_name,omitempty"`
	Subtitle      string `json:"subtitle"`
	Time          string `json:"time"`
}

const inboxTimeFormat = "2006-01-02 15:04"

// BuildInbox projects the user's pending notifications into inbox
// items, newest first. Read-only and safe to call repeatedly.
func BuildInbox(userID uint) ([]InboxItem, error) {
	var notifications []models.Notification

	err := db.DB.Preload("Workspace").
		Preload("WorkItem").
		Preload("WorkItem.Project").
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error

	if err != nil {
		return nil, err
	}

	items := make([]InboxItem, 0, len(notifications))

	for _, n := range notifications {
		var projectName string

		if n.WorkItem != nil {
			projectName = n.WorkItem.Project.Name
		}

		items = append(items, InboxItem{
			ID:            n.ID,
			Type:          strings.ToLower(n.Type),
			WorkspaceName: n.Workspace.Name,
			ProjectName:   projectName,
			Subtitle:      n.Subtitle,
			Time:          n.CreatedAt.Format(inboxTimeFormat),
		})
	}

	return items, nil
}
