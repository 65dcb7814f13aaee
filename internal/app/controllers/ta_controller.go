package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/app/services"
	"github.com/yigit/labdesk/internal/middleware"
)

// TAController exposes the roster check
type TAController struct {
	taService     services.TAService
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewTAController creates a new TAController
func NewTAController(taService services.TAService, courseService services.CourseService, logger zerolog.Logger) *TAController {
	return &TAController{taService: taService, courseService: courseService, logger: logger}
}

// CheckRoster syncs the caller's TA record with the department roster
// @Summary Check TA roster
// @Description Activates the caller as TA for the listed courses, or deactivates a TA no longer listed
// @Tags tas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TACheckResponse} "Roster result"
// @Failure 502 {object} dto.ErrorResponse "Roster unavailable"
// @Router /tas/roster-check [post]
func (c *TAController) CheckRoster(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	ta, err := c.taService.CheckRoster(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.TACheckResponse{Courses: []int{}}
	if ta != nil {
		resp.IsTA = true
		resp.Active = ta.Active
		if len(ta.CourseIDs) > 0 {
			courses, err := c.courseService.List(ctx.Request.Context())
			if err != nil {
				middleware.HandleAPIError(ctx, err)
				return
			}
			for _, course := range courses {
				if ta.TeachesCourse(course.ID) {
					resp.Courses = append(resp.Courses, course.Number)
				}
			}
		}
	}

	c.logger.Info().Int64("userID", userID).Bool("isTA", resp.IsTA).Bool("active", resp.Active).Msg("Roster check completed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
