package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/app/services"
	"github.com/yigit/labdesk/internal/middleware"
)

// AvailabilityController receives lab telemetry and serves the overview
type AvailabilityController struct {
	availabilityService services.AvailabilityService
}

// NewAvailabilityController creates a new AvailabilityController
func NewAvailabilityController(availabilityService services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{availabilityService: availabilityService}
}

// GetOverview returns every room and server
// @Summary Lab availability
// @Tags availability
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AvailabilityResponse} "Overview"
// @Router /availability [get]
func (c *AvailabilityController) GetOverview(ctx *gin.Context) {
	overview, err := c.availabilityService.Overview(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(overview))
}

// ReportComputer records a computer poll
// @Summary Report computer status
// @Tags availability
// @Accept json
// @Produce json
// @Param X-Reporter-Key header string true "Reporter key"
// @Param number path string true "Computer number"
// @Param request body dto.ComputerReportRequest true "Poll"
// @Success 200 {object} dto.APIResponse{data=models.Computer} "Recorded"
// @Failure 401 {object} dto.ErrorResponse "Invalid reporter key"
// @Router /availability/computers/{number} [put]
func (c *AvailabilityController) ReportComputer(ctx *gin.Context) {
	var req dto.ComputerReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	computer, err := c.availabilityService.ReportComputer(ctx.Request.Context(),
		ctx.Param("number"), req.Room, models.ComputerStatus(req.Status), req.UsedFor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(computer))
}

// ReportServer records a server poll
// @Summary Report server status
// @Tags availability
// @Accept json
// @Produce json
// @Param X-Reporter-Key header string true "Reporter key"
// @Param name path string true "Server name"
// @Param request body dto.ServerReportRequest true "Poll"
// @Success 200 {object} dto.APIResponse{data=models.Server} "Recorded"
// @Router /availability/servers/{name} [put]
func (c *AvailabilityController) ReportServer(ctx *gin.Context) {
	var req dto.ServerReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	server, err := c.availabilityService.ReportServer(ctx.Request.Context(),
		ctx.Param("name"), *req.NumUsers, models.ServerStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(server))
}

// SnapshotRoom stores a point-in-time summary of a room
// @Summary Snapshot room usage
// @Tags availability
// @Produce json
// @Param X-Reporter-Key header string true "Reporter key"
// @Param room path string true "Room number"
// @Success 201 {object} dto.APIResponse{data=models.RoomInfo} "Snapshot stored"
// @Failure 404 {object} dto.ErrorResponse "No computers in room"
// @Router /availability/rooms/{room}/snapshot [post]
func (c *AvailabilityController) SnapshotRoom(ctx *gin.Context) {
	info, err := c.availabilityService.SnapshotRoom(ctx.Request.Context(), ctx.Param("room"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(info))
}
