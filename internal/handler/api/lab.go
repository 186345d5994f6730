package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"labreserve/internal/handler/dto/request"
	"labreserve/internal/handler/dto/response"
	"labreserve/internal/usecase/commands"
	"labreserve/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const occupancyDateLayout = "2006-01-02"

type LabHandler struct {
	labCommands        commands.LabCommands
	labQueries         queries.LabQueries
	reservationQueries queries.ReservationQueries
}

func NewLabHandler(
	labCommands commands.LabCommands,
	labQueries queries.LabQueries,
	reservationQueries queries.ReservationQueries,
) *LabHandler {
	return &LabHandler{
		labCommands:        labCommands,
		labQueries:         labQueries,
		reservationQueries: reservationQueries,
	}
}

// @Summary List labs
// @Description List every lab with its time-slot grid
// @Tags labs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} response.LabResponse
// @Failure 401 {object} map[string]string
// @Router /labs [get]
func (h *LabHandler) ListLabs(c *gin.Context) {
	views, err := h.labQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	resp, err := response.FromLabViews(views)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get lab
// @Description One lab with its time-slot grid
// @Tags labs
// @Produce json
// @Security BearerAuth
// @Param labID path int true "Lab ID"
// @Success 200 {object} response.LabResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /labs/{labID} [get]
func (h *LabHandler) GetLab(c *gin.Context) {
	labID, err := strconv.ParseInt(c.Param("labID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lab ID format",
		})
		return
	}

	view, err := h.labQueries.GetByID(c.Request.Context(), labID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrLabNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lab not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	resp, err := response.FromLabView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Create lab
// @Description Register a new lab with its slot grid; staff only
// @Tags labs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateLabRequest true "Lab definition"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /labs [post]
func (h *LabHandler) CreateLab(c *gin.Context) {
	var req request.CreateLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.CreateLabParams{
		LabID:     req.LabID,
		Name:      req.Name,
		TimeList:  req.TimeList,
		SeatCount: req.SeatCount,
	}

	if err := h.labCommands.CreateLab(c.Request.Context(), params); err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidLab):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid lab definition",
			})
		case errors.Is(err, commands.ErrLabAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Lab already exists",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lab created",
	})
}

// @Summary Lab occupancy grid
// @Description Slot x seat occupancy of one lab on one date
// @Tags labs
// @Produce json
// @Security BearerAuth
// @Param labID path int true "Lab ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.OccupancyResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /labs/{labID}/occupancy [get]
func (h *LabHandler) GetOccupancy(c *gin.Context) {
	labID, err := strconv.ParseInt(c.Param("labID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lab ID format",
		})
		return
	}

	date, err := time.Parse(occupancyDateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "date query parameter is required (YYYY-MM-DD)",
		})
		return
	}

	view, err := h.reservationQueries.Occupancy(c.Request.Context(), labID, date)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrLabNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lab not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, response.FromOccupancyView(view))
}

// @Summary List lab reservations
// @Description Every reservation in a lab, optionally narrowed to one date, for staff review
// @Tags labs
// @Produce json
// @Security BearerAuth
// @Param labID path int true "Lab ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {array} response.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /labs/{labID}/reservations [get]
func (h *LabHandler) ListLabReservations(c *gin.Context) {
	labID, err := strconv.ParseInt(c.Param("labID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lab ID format",
		})
		return
	}

	var views []*queries.ReservationView
	if rawDate := c.Query("date"); rawDate != "" {
		date, parseErr := time.Parse(occupancyDateLayout, rawDate)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
			return
		}
		views, err = h.reservationQueries.ListByLabOn(c.Request.Context(), labID, date)
	} else {
		views, err = h.reservationQueries.ListByLab(c.Request.Context(), labID)
	}
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrLabNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lab not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, response.FromReservationViews(views))
}
