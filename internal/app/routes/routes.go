package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/labdesk/internal/app/controllers"
	"github.com/yigit/labdesk/internal/middleware"
	"github.com/yigit/labdesk/internal/pkg/websocket"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Request      *controllers.RequestController
	Duty         *controllers.DutyController
	TA           *controllers.TAController
	Course       *controllers.CourseController
	Lab          *controllers.LabController
	Availability *controllers.AvailabilityController
	Websocket    *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.POST("/auth/login", c.Auth.Login)

	queue := v1.Group("/queue")
	{
		queue.GET("", c.Request.GetQueue)
		queue.GET("/ws", c.Websocket.HandleConnection)
	}

	v1.GET("/courses", c.Course.GetAllCourses)
	v1.GET("/labs", c.Lab.GetAllLabs)
	v1.GET("/availability", c.Availability.GetOverview)

	// --- Telemetry reporters ---
	reporters := v1.Group("/availability")
	reporters.Use(authMiddleware.ReporterAuth())
	{
		reporters.PUT("/computers/:number", c.Availability.ReportComputer)
		reporters.PUT("/servers/:name", c.Availability.ReportServer)
		reporters.POST("/rooms/:room/snapshot", c.Availability.SnapshotRoom)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", c.Auth.Me)

		requests := authenticated.Group("/requests")
		{
			requests.POST("", c.Request.Submit)
			requests.GET("/mine", c.Request.Mine)
			requests.POST("/:id/resolve", c.Request.Resolve)
		}

		duty := authenticated.Group("/duty")
		{
			duty.POST("", c.Duty.GoOnDuty)
			duty.DELETE("", c.Duty.GoOffDuty)
			duty.GET("", c.Duty.Status)
		}

		authenticated.POST("/tas/roster-check", c.TA.CheckRoster)

		// Admin only
		admin := authenticated.Group("")
		admin.Use(authMiddleware.AdminRequired())
		{
			admin.POST("/courses", c.Course.CreateCourse)
			admin.POST("/labs", c.Lab.CreateLab)
		}
	}
}
