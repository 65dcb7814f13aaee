package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/app/services"
	"github.com/yigit/labdesk/internal/middleware"
)

// DutyController lets TAs open and close office hours
type DutyController struct {
	dutyService services.DutyService
	logger      zerolog.Logger
}

// NewDutyController creates a new DutyController
func NewDutyController(dutyService services.DutyService, logger zerolog.Logger) *DutyController {
	return &DutyController{dutyService: dutyService, logger: logger}
}

// GoOnDuty opens an office hour session
// @Summary Go on duty
// @Tags duty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GoOnDutyRequest true "Course and end time"
// @Success 201 {object} dto.APIResponse{data=dto.OfficeHourResponse} "Session opened"
// @Failure 400 {object} dto.ErrorResponse "End time not in the future"
// @Failure 403 {object} dto.ErrorResponse "Not an active TA for the course"
// @Failure 409 {object} dto.ErrorResponse "Already on duty"
// @Router /duty [post]
func (c *DutyController) GoOnDuty(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.GoOnDutyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	session, err := c.dutyService.GoOnDuty(ctx.Request.Context(), userID, req.Course, req.EndTime)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewOfficeHourResponse(session, req.Course)))
}

// GoOffDuty closes the caller's session
// @Summary Go off duty
// @Tags duty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OfficeHourResponse} "Session closed"
// @Failure 404 {object} dto.ErrorResponse "No active session"
// @Router /duty [delete]
func (c *DutyController) GoOffDuty(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	session, err := c.dutyService.GoOffDuty(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewOfficeHourResponse(session, 0)))
}

// Status reports whether the caller is on duty
// @Summary Duty status
// @Tags duty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DutyStatusResponse} "Status"
// @Failure 403 {object} dto.ErrorResponse "Not a TA"
// @Router /duty [get]
func (c *DutyController) Status(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	session, err := c.dutyService.Status(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.DutyStatusResponse{}
	if session != nil {
		s := dto.NewOfficeHourResponse(session, 0)
		resp.OnDuty = true
		resp.Session = &s
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
