package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/app/services"
	"github.com/yigit/labdesk/internal/middleware"
)

// LabController serves the weekly lab schedule
type LabController struct {
	labService services.LabService
}

// NewLabController creates a new LabController
func NewLabController(labService services.LabService) *LabController {
	return &LabController{labService: labService}
}

// GetAllLabs lists labs flagged as in session or coming up
// @Summary List labs
// @Tags labs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.LabResponse} "Labs"
// @Router /labs [get]
func (c *LabController) GetAllLabs(ctx *gin.Context) {
	labs, err := c.labService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(labs))
}

// CreateLab adds a lab schedule entry
// @Summary Create lab
// @Tags labs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLabRequest true "Lab"
// @Success 201 {object} dto.APIResponse{data=models.Lab} "Lab created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /labs [post]
func (c *LabController) CreateLab(ctx *gin.Context) {
	var req dto.CreateLabRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	lab, err := c.labService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lab))
}
