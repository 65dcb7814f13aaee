package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/app/services"
	"github.com/yigit/labdesk/internal/middleware"
)

// RequestController serves the help queue
type RequestController struct {
	requestService services.RequestService
	loc            *time.Location
	logger         zerolog.Logger
}

// NewRequestController creates a new RequestController rendering times in loc
func NewRequestController(requestService services.RequestService, loc *time.Location, logger zerolog.Logger) *RequestController {
	if loc == nil {
		loc = time.UTC
	}
	return &RequestController{
		requestService: requestService,
		loc:            loc,
		logger:         logger,
	}
}

// GetQueue returns the live queue grouped by course
// @Summary Live help queue
// @Description Times out stale requests, then lists open requests and on-duty TAs per course
// @Tags queue
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseQueueResponse} "Queue"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /queue [get]
func (c *RequestController) GetQueue(ctx *gin.Context) {
	queues, err := c.requestService.LiveQueue(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.CourseQueueResponse, 0, len(queues))
	for _, q := range queues {
		resp = append(resp, dto.NewCourseQueueResponse(q, c.loc))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Submit adds a help request for the caller
// @Summary Submit a help request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitRequestRequest true "Request"
// @Success 201 {object} dto.APIResponse{data=dto.RequestResponse} "Request created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /requests [post]
func (c *RequestController) Submit(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.SubmitRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid submit request payload")
		middleware.RespondBindingError(ctx, err)
		return
	}

	request, err := c.requestService.Submit(ctx.Request.Context(), userID, req.Course, req.Location, req.Question)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewRequestResponse(request, req.Course)))
}

// Resolve marks a request solved
// @Summary Resolve a help request
// @Description Allowed for the owning student or an active TA. Resolving twice is a no-op.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse} "Request resolved"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request timed out"
// @Router /requests/{id}/resolve [post]
func (c *RequestController) Resolve(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	requestID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	request, err := c.requestService.Resolve(ctx.Request.Context(), requestID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewRequestResponse(request, 0)))
}

// Mine lists the caller's own requests
// @Summary My help requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.RequestResponse} "Requests"
// @Router /requests/mine [get]
func (c *RequestController) Mine(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	requests, err := c.requestService.ListForStudent(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		resp = append(resp, dto.NewRequestResponse(&requests[i], 0))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
