package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strideboard-dev/strideboard/internal/services"
	"github.com/strideboard-dev/strideboard/internal/utils"
)

// ListNotifications returns the caller's inbox, newest first.
func ListNotifications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	inbox, err := services.BuildInbox(userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, inbox)
}

func AcceptInvite(ctx *gin.Context) {
	notificationID, ok := parseIDParam(ctx, "notification_id")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := services.AcceptInvite(userID, notificationID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invitation accepted"})
}

func RejectInvite(ctx *gin.Context) {
	notificationID, ok := parseIDParam(ctx, "notification_id")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := services.RejectInvite(userID, notificationID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invitation rejected"})
}

// MarkNotificationRead deletes the notification; there is no separate
// read flag.
func MarkNotificationRead(ctx *gin.Context) {
	notificationID, ok := parseIDParam(ctx, "notification_id")

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := services.MarkAsRead(userID, notificationID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
