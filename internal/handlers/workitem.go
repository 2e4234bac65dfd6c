package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/authz"
	"github.com/strideboard-dev/strideboard/internal/models"
	"github.com/strideboard-dev/strideboard/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateWorkItemRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	Type        string         `json:"type"`
	AssigneeID  *uint          `json:"assignee_id"`
	Metadata    datatypes.JSON `json:"metadata"`
}

type WorkItemResponse struct {
	ID          uint           `json:"id"`
	ProjectID   uint           `json:"project_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	Type        string         `json:"type"`
	AssigneeID  *uint          `json:"assignee_id,omitempty"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
}

func workItemResponse(item models.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		ID:          item.ID,
		ProjectID:   item.ProjectID,
		Title:       item.Title,
		Description: item.Description,
		Status:      item.Status,
		Priority:    item.Priority,
		Type:        item.Type,
		AssigneeID:  item.AssigneeID,
		Metadata:    item.Metadata,
	}
}

// CreateWorkItem adds an item to a project's board. Assigning it to
// someone other than the author drops an UPDATE notification into the
// assignee's inbox.
func CreateWorkItem(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	projectID, ok := parseIDParam(ctx, "project_id")

	if !ok {
		return
	}

	var body CreateWorkItemRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := authz.RequireNotViewer(db.DB, userID, workspaceID); err != nil {
		respondError(ctx, err)
		return
	}

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		respondError(ctx, err)
		return
	}

	if project.WorkspaceID != workspaceID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project is not in this workspace"})
		return
	}

	item := models.WorkItem{
		ProjectID:   projectID,
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		Type:        body.Type,
		AssigneeID:  body.AssigneeID,
		Metadata:    body.Metadata,
	}

	if item.Status == "" {
		item.Status = "todo"
	}

	if item.Priority == "" {
		item.Priority = "medium"
	}

	if item.Type == "" {
		item.Type = "task"
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		if item.AssigneeID == nil || *item.AssigneeID == userID {
			return nil
		}

		notification := models.Notification{
			RecipientID: *item.AssigneeID,
			Type:        models.NotificationTypeUpdate,
			WorkspaceID: workspaceID,
			WorkItemID:  &item.ID,
			Title:       "Work Item Assigned",
			Subtitle:    "You have been assigned to " + item.Title,
		}

		return tx.Create(&notification).Error
	})

	if err != nil {
		log.Printf("Failed to create work item: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, workItemResponse(item))
}

func ListWorkItems(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	projectID, ok := parseIDParam(ctx, "project_id")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := authz.RequireMembership(db.DB, userID, workspaceID); err != nil {
		respondError(ctx, err)
		return
	}

	var items []models.WorkItem

	err = db.DB.Joins("Project").
		Where("work_items.project_id = ? AND \"Project\".workspace_id = ?", projectID, workspaceID).
		Find(&items).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]WorkItemResponse, 0, len(items))

	for _, item := range items {
		response = append(response, workItemResponse(item))
	}

	ctx.JSON(http.StatusOK, response)
}

// DeleteWorkItem removes an item; its notifications cascade with it.
func DeleteWorkItem(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	itemID, ok := parseIDParam(ctx, "work_item_id")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := authz.RequireNotViewer(db.DB, userID, workspaceID); err != nil {
		respondError(ctx, err)
		return
	}

	var item models.WorkItem

	err = db.DB.Joins("Project").
		Where("work_items.id = ? AND \"Project\".workspace_id = ?", itemID, workspaceID).
		First(&item).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Work item not found"})
			return
		}
		respondError(ctx, err)
		return
	}

	if err := db.DB.Delete(&item).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
