package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/strideboard-dev/strideboard/internal/handlers"
	"github.com/strideboard-dev/strideboard/internal/middleware"
	"github.com/strideboard-dev/strideboard/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		workspaces := api.Group("/workspaces", middleware.AuthMiddleware())
		{
			workspaces.GET("", handlers.ListMyWorkspaces)
			workspaces.POST("", handlers.CreateWorkspace)
			workspaces.GET("/users/search", handlers.SearchUsers)

			workspaces.GET("/:workspace_id", handlers.GetWorkspace)
			workspaces.POST("/:workspace_id/rename", handlers.RenameWorkspace)
			workspaces.DELETE("/:workspace_id", handlers.DeleteWorkspace)
			workspaces.GET("/:workspace_id/owner", handlers.GetWorkspaceOwner)
			workspaces.GET("/:workspace_id/me", handlers.GetCurrentMember)
			workspaces.GET("/:workspace_id/users/search", handlers.SearchUsersNotInWorkspace)

			// Member endpoints
			workspaces.GET("/:workspace_id/members", handlers.GetWorkspaceMembers)
			workspaces.POST("/:workspace_id/members", handlers.AddMembers)
			workspaces.DELETE("/:workspace_id/members/:member_id", handlers.RemoveMember)
			workspaces.PUT("/:workspace_id/members/:member_id/role", handlers.ChangeMemberRole)

			// Project endpoints
			workspaces.GET("/:workspace_id/projects", handlers.ListProjects)
			workspaces.POST("/:workspace_id/projects", handlers.CreateProject)
			workspaces.GET("/:workspace_id/projects/:project_id", handlers.GetProject)

			// Work item endpoints
			workspaces.GET("/:workspace_id/projects/:project_id/work-items", handlers.ListWorkItems)
			workspaces.POST("/:workspace_id/projects/:project_id/work-items", handlers.CreateWorkItem)
			workspaces.DELETE("/:workspace_id/work-items/:work_item_id", handlers.DeleteWorkItem)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.GET("", handlers.ListNotifications)
			notifications.POST("/:notification_id/accept", handlers.AcceptInvite)
			notifications.POST("/:notification_id/reject", handlers.RejectInvite)
			notifications.DELETE("/:notification_id", handlers.MarkNotificationRead)
		}
	}

	return r
}
