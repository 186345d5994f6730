package api

import (
	"errors"
	"net/http"
	"strconv"

	"labreserve/internal/handler/dto/request"
	"labreserve/internal/handler/dto/response"
	"labreserve/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userCommands commands.UserCommands
}

func NewAdminHandler(userCommands commands.UserCommands) *AdminHandler {
	return &AdminHandler{userCommands: userCommands}
}

// @Summary Create tech account
// @Description Provision a tech account and allocate its number; admin only
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.RegisterRequest true "Tech account request"
// @Success 201 {object} response.RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/techs [post]
func (h *AdminHandler) CreateTech(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.userCommands.CreateTech(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidEmail), errors.Is(err, commands.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid account data",
			})
		case errors.Is(err, commands.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Email is already registered",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, response.RegisterResponse{
		BusinessID: result.BusinessID,
		Role:       result.Role.String(),
	})
}

// @Summary Delete user account
// @Description Delete a student or tech account by its business number; a
// student's reservations are removed with it. Admin only.
// @Tags admin
// @Security BearerAuth
// @Param businessID path int true "Student or tech number"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/users/{businessID} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	businessID, err := strconv.ParseInt(c.Param("businessID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	if err := h.userCommands.DeleteUser(c.Request.Context(), businessID); err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		case errors.Is(err, commands.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account cannot be deleted",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
