package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/authz"
	"github.com/strideboard-dev/strideboard/internal/models"
	"github.com/strideboard-dev/strideboard/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ProjectResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WorkspaceID uint   `json:"workspace_id"`
	CreatorID   uint   `json:"creator_id"`
}

func projectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		WorkspaceID: project.WorkspaceID,
		CreatorID:   project.CreatorID,
	}
}

// CreateProject is open to admins and members; viewers are excluded.
func CreateProject(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	var body CreateProjectRequest

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

	project := models.Project{
		Name:        body.Name,
		Description: body.Description,
		WorkspaceID: workspaceID,
		CreatorID:   userID,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

func ListProjects(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

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

	var projects []models.Project

	if err := db.DB.Where("workspace_id = ?", workspaceID).Find(&projects).Error; err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
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

	ctx.JSON(http.StatusOK, projectResponse(project))
}
