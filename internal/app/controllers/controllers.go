package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/middleware"
)

// requireUserID reads the authenticated user id, answering 401 when absent
func requireUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		))
		return 0, false
	}
	return userID, true
}

// pathID parses a positive int64 path parameter, answering 400 when malformed
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name).WithField(name),
		))
		return 0, false
	}
	return id, true
}
