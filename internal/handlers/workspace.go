package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/strideboard-dev/strideboard/db"
	"github.com/strideboard-dev/strideboard/internal/authz"
	"github.com/strideboard-dev/strideboard/internal/models"
	"github.com/strideboard-dev/strideboard/internal/roles"
	"github.com/strideboard-dev/strideboard/internal/services"
	"github.com/strideboard-dev/strideboard/internal/types"
	"github.com/strideboard-dev/strideboard/internal/utils"
	"gorm.io/gorm"
)

type CreateWorkspaceRequest struct {
	Name         string   `json:"name" binding:"required"`
	Slug         string   `json:"slug"`
	MemberEmails []string `json:"member_emails"`
}

type RenameWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddMembersRequest struct {
	Emails []string `json:"emails" binding:"required"`
}

type ChangeMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type WorkspaceResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	OwnerID uint   `json:"owner_id"`
}

type MemberResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func workspaceResponse(workspace models.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:      workspace.ID,
		Name:    workspace.Name,
		Slug:    workspace.Slug,
		OwnerID: workspace.OwnerID,
	}
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}

	return uint(id), true
}

func ListMyWorkspaces(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var memberships []models.Membership

	if err := db.DB.Preload("Workspace").Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]WorkspaceResponse, 0, len(memberships))

	for _, membership := range memberships {
		response = append(response, workspaceResponse(membership.Workspace))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateWorkspace(ctx *gin.Context) {
	var body CreateWorkspaceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var creator models.User

	if err := db.DB.First(&creator, currentUser.ID).Error; err != nil {
		respondError(ctx, err)
		return
	}

	workspace, invited, err := services.CreateWorkspace(creator, body.Name, body.Slug, body.MemberEmails)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"workspace": workspaceResponse(workspace),
		"invited":   invited,
	})
}

func GetWorkspace(ctx *gin.Context) {
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

	var workspace models.Workspace

	if err := db.DB.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, services.ErrWorkspaceNotFound)
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, workspaceResponse(workspace))
}

func RenameWorkspace(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	var body RenameWorkspaceRequest

	if err := ctx.BindJSON(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Workspace name cannot be empty"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspace, err := services.RenameWorkspace(userID, workspaceID, body.Name)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, workspaceResponse(workspace))
}

func DeleteWorkspace(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := services.DeleteWorkspace(userID, workspaceID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func GetWorkspaceMembers(ctx *gin.Context) {
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

	var memberships []models.Membership

	if err := db.DB.Preload("User").Where("workspace_id = ?", workspaceID).Find(&memberships).Error; err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]MemberResponse, 0, len(memberships))

	for _, membership := range memberships {
		response = append(response, MemberResponse{
			ID:    membership.User.ID,
			Name:  membership.User.Name,
			Email: membership.User.Email,
			Role:  roles.Title(roles.Role(membership.Role)),
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func GetCurrentMember(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	membership, err := authz.RequireMembership(db.DB, currentUser.ID, workspaceID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, MemberResponse{
		ID:    currentUser.ID,
		Name:  currentUser.Name,
		Email: currentUser.Email,
		Role:  roles.Title(roles.Role(membership.Role)),
	})
}

func GetWorkspaceOwner(ctx *gin.Context) {
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

	var workspace models.Workspace

	if err := db.DB.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, services.ErrWorkspaceNotFound)
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"owner_id": workspace.OwnerID})
}

func AddMembers(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	var body AddMembersRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var requester models.User

	if err := db.DB.First(&requester, currentUser.ID).Error; err != nil {
		respondError(ctx, err)
		return
	}

	invited, err := services.InviteMembers(requester, workspaceID, body.Emails)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if invited == 0 {
		ctx.JSON(http.StatusOK, gin.H{
			"invited": 0,
			"message": "No new invitations sent (users may already be members or invited)",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"invited": invited,
		"message": fmt.Sprintf("%d invitation(s) sent successfully", invited),
	})
}

func RemoveMember(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	memberID, ok := parseIDParam(ctx, "member_id")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := services.RemoveMember(userID, workspaceID, memberID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ChangeMemberRole(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	memberID, ok := parseIDParam(ctx, "member_id")

	if !ok {
		return
	}

	var body ChangeMemberRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	role, err := services.ChangeMemberRole(userID, workspaceID, memberID, body.Role)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Member role updated successfully",
		"role":    string(role),
	})
}

func SearchUsers(ctx *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(ctx.Query("query")))

	if len(query) < 2 {
		ctx.JSON(http.StatusOK, []types.UserResponse{})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var users []models.User

	err = db.DB.Where("email LIKE ? AND id != ?", "%"+query+"%", currentUser.ID).
		Limit(10).
		Find(&users).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, userResponses(users))
}

func SearchUsersNotInWorkspace(ctx *gin.Context) {
	workspaceID, ok := parseIDParam(ctx, "workspace_id")

	if !ok {
		return
	}

	query := strings.ToLower(strings.TrimSpace(ctx.Query("query")))

	if len(query) < 2 {
		ctx.JSON(http.StatusOK, []types.UserResponse{})
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

	var users []models.User

	err = db.DB.Where("email LIKE ?", "%"+query+"%").
		Where("id NOT IN (?)", db.DB.Model(&models.Membership{}).
			Select("user_id").
			Where("workspace_id = ?", workspaceID)).
		Limit(10).
		Find(&users).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, userResponses(users))
}

func userResponses(users []models.User) []types.UserResponse {
	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
	}

	return response
}
