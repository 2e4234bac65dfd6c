package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strideboard-dev/strideboard/internal/authz"
	"github.com/strideboard-dev/strideboard/internal/roles"
	"github.com/strideboard-dev/strideboard/internal/services"
)

// respondError maps authz and service errors to HTTP statuses. Deny
// reasons keep their messages so the client can tell "not a member"
// from "admins only" from "owner is protected" without parsing.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrNotAMember),
		errors.Is(err, authz.ErrInsufficientRole),
		errors.Is(err, authz.ErrOwnerProtected),
		errors.Is(err, authz.ErrAdminProtected),
		errors.Is(err, services.ErrNotRecipient):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, authz.ErrSelfActionForbidden),
		errors.Is(err, roles.ErrInvalidRole),
		errors.Is(err, services.ErrNotAnInvite):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
