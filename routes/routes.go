package routes

import (
	"grant-workflow-api/controllers"
	"grant-workflow-api/middleware"
	"grant-workflow-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Grant Workflow API is running",
				})
			})

			// Anonymous token-gated access for reviewers and approvers.
			// These are the only routes that reach an application without
			// authentication, and only through a minted token.
			tokenRoutes := public.Group("")
			tokenRoutes.Use(middleware.RateLimitMiddleware())
			{
				tokenRoutes.GET("/review/:token", controllers.GetReviewAssignment)
				tokenRoutes.POST("/review/:token", controllers.SubmitReviewFeedback)
				tokenRoutes.GET("/signoff/:token", controllers.GetSignOffSeat)
				tokenRoutes.POST("/signoff/:token", controllers.SubmitSignOffDecision)
			}
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)

			// Grant calls
			protected.GET("/grant-calls", controllers.GetGrantCalls)

			// Grant applications
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplications)
				applications.GET("/:id", controllers.GetApplication)
				applications.GET("/:id/history", controllers.GetStatusHistory)
				applications.GET("/:id/signoff/summary", controllers.GetSignOffSummary)

				// Only applicants create, withdraw and revise
				applications.POST("", middleware.RequireRole(models.RoleIDApplicant), controllers.CreateApplication)
				applications.POST("/:id/withdraw", middleware.RequireRole(models.RoleIDApplicant), controllers.WithdrawApplication)
				applications.POST("/:id/revise", middleware.RequireRole(models.RoleIDApplicant), controllers.ReviseApplication)

				// Staff decisions
				applications.PUT("/:id/status", middleware.RequireRole(models.RoleIDReviewer, models.RoleIDAdmin), controllers.UpdateApplicationStatus)
				applications.GET("/:id/feedback", middleware.RequireRole(models.RoleIDReviewer, models.RoleIDAdmin), controllers.GetReviewerFeedback)
				applications.POST("/:id/reviewers", middleware.RequireRole(models.RoleIDAdmin), controllers.AssignReviewers)
				applications.POST("/:id/signoff", middleware.RequireRole(models.RoleIDAdmin), controllers.InitiateSignOff)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.POST("/upload", controllers.UploadDocument)
				documents.GET("/download/:file_name", controllers.DownloadDocument)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)
		}
	}
}
