package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"labreserve/internal/domain/lab"
	"labreserve/internal/domain/reservation"
	"labreserve/internal/handler/dto/request"
	"labreserve/internal/handler/dto/response"
	"labreserve/internal/handler/middleware"
	"labreserve/internal/usecase/commands"
	"labreserve/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
	userQueries         queries.UserQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
	userQueries queries.UserQueries,
) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
		userQueries:         userQueries,
	}
}

// @Summary Create reservation
// @Description Reserve a seat in a lab for one or more time slots
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateReservationRequest true "Reservation request"
// @Success 201 {object} response.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req request.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	reserveDate, err := req.ParseReserveDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reserve date, expected YYYY-MM-DD",
		})
		return
	}

	params := commands.ReserveParams{
		LabID:       req.LabID,
		StudentID:   req.StudentID,
		SeatNumber:  req.SeatNumber,
		ReserveDate: reserveDate,
		TimeSlots:   req.TimeSlots,
	}

	reservationID, err := h.reservationCommands.Reserve(c.Request.Context(), actor, params)
	if err != nil {
		h.respondReserveError(c, err)
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		// Reservation is committed; report it even if the read-back failed
		c.JSON(http.StatusCreated, response.CreateReservationResponse{ReservationID: reservationID})
		return
	}

	c.JSON(http.StatusCreated, response.FromReservationView(view))
}

// @Summary Cancel reservation
// @Description Cancel a reservation; students may only cancel their own
// @Tags reservations
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	if err := h.reservationCommands.Cancel(c.Request.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Reservation belongs to another student",
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

// @Summary Get reservation
// @Description Get reservation by ID; students may only view their own
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	if !h.canViewStudent(c, view.StudentID) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
		return
	}

	c.JSON(http.StatusOK, response.FromReservationView(view))
}

// @Summary List reservations for a student
// @Description List all reservations held by a student number, optionally narrowed to one date
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param student_id query int false "Student ID (defaults to the caller's own)"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {array} response.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	var studentID int64
	if raw := c.Query("student_id"); raw != "" {
		var err error
		studentID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid student_id format",
			})
			return
		}
	} else {
		// Without an explicit target the caller lists their own ledger;
		// staff accounts have no student number to fall back on.
		own, ok := h.ownStudentID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "student_id query parameter is required",
			})
			return
		}
		studentID = own
	}

	if !h.canViewStudent(c, studentID) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
		return
	}

	views, err := h.reservationQueries.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Student not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	if rawDate := c.Query("date"); rawDate != "" {
		date, parseErr := time.Parse(occupancyDateLayout, rawDate)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
			return
		}
		views = filterByDate(views, date)
	}

	c.JSON(http.StatusOK, response.FromReservationViews(views))
}

func filterByDate(views []*queries.ReservationView, date time.Time) []*queries.ReservationView {
	day := reservation.NormalizeDate(date)
	out := make([]*queries.ReservationView, 0, len(views))
	for _, v := range views {
		if v.ReserveDate.Equal(day) {
			out = append(out, v)
		}
	}
	return out
}

func (h *ReservationHandler) respondReserveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid reservation request",
			"detail": invalidRequestDetail(err),
		})
	case errors.Is(err, commands.ErrLabNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Lab not found",
		})
	case errors.Is(err, commands.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Student not found",
		})
	case errors.Is(err, commands.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Students may only reserve for themselves",
		})
	case errors.Is(err, commands.ErrCrossLabConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Student already has a reservation in another lab for a requested slot",
			"detail": conflictDetail(err),
		})
	case errors.Is(err, commands.ErrSeatAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Student already holds a different seat in this lab on that date",
			"detail": conflictDetail(err),
		})
	case errors.Is(err, commands.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Requested time slot is already reserved",
			"detail": conflictDetail(err),
		})
	case errors.Is(err, commands.ErrDuplicateSubmission):
		// Rate-limit style rejection: the first submission already went through
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Duplicate submission, the reservation was already placed",
		})
	case errors.Is(err, commands.ErrReservationConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation conflict, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// ownStudentID resolves the authenticated caller's student number, if any.
func (h *ReservationHandler) ownStudentID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return 0, false
	}
	view, err := h.userQueries.AuthorizedUserByID(c.Request.Context(), userID)
	if err != nil || view.StudentID == nil {
		return 0, false
	}
	return *view.StudentID, true
}

// canViewStudent: staff see everyone, students only themselves.
func (h *ReservationHandler) canViewStudent(c *gin.Context, studentID int64) bool {
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return false
	}
	if role.IsStaff() {
		return true
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return false
	}
	view, err := h.userQueries.AuthorizedUserByID(c.Request.Context(), userID)
	if err != nil || view.StudentID == nil {
		return false
	}
	return *view.StudentID == studentID
}

func currentActor(c *gin.Context) (commands.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return commands.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return commands.Actor{}, false
	}
	return commands.Actor{ID: userID, Role: role}, true
}

func invalidRequestDetail(err error) gin.H {
	var unknownSlot *lab.UnknownSlotError
	var seatRange *lab.SeatOutOfRangeError

	switch {
	case errors.As(err, &unknownSlot):
		return gin.H{"slot": unknownSlot.Label}
	case errors.As(err, &seatRange):
		return gin.H{"seat_number": seatRange.SeatNumber, "seat_count": seatRange.SeatCount}
	default:
		return nil
	}
}

func conflictDetail(err error) gin.H {
	var crossLab *reservation.CrossLabConflictError
	var seatAssigned *reservation.SeatAlreadyAssignedError
	var slotConflict *reservation.SlotConflictError

	switch {
	case errors.As(err, &crossLab):
		return gin.H{"slot": crossLab.Slot, "other_lab_id": crossLab.OtherLabID}
	case errors.As(err, &seatAssigned):
		return gin.H{"seat_number": seatAssigned.SeatNumber}
	case errors.As(err, &slotConflict):
		return gin.H{"slot": slotConflict.Slot}
	default:
		return nil
	}
}
