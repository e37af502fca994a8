package api

import (
	"net/http"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	appointmentService service.AppointmentService
	log                *zap.Logger
}

func NewAppointmentHandler(appointmentService service.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService, log: log}
}

type BookAppointmentRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string `json:"time" binding:"required,hhmm"`
	Duration  int    `json:"duration" binding:"required,min=1,max=1440"`
	Title     string `json:"title" binding:"max=200"`
}

// Book godoc
// @Summary Book a training session
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param appointment body BookAppointmentRequest true "Trainer, date (YYYY-MM-DD), time (HH:MM) and duration"
// @Success 201 {object} domain.Appointment
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Appointment is in the past"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /appointments [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	clientID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainerId format")
		return
	}
	// Already checked by the datetime tag.
	date, _ := time.Parse("2006-01-02", req.Date)

	appointment, err := h.appointmentService.Book(c.Request.Context(), clientID, service.BookingRequest{
		TrainerID: trainerID,
		Date:      date,
		Time:      req.Time,
		Duration:  req.Duration,
		Title:     req.Title,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// ListMine godoc
// @Summary List the calling client's appointments
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.AppointmentView
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /appointments [get]
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	clientID, ok := mustUserID(c)
	if !ok {
		return
	}
	views, err := h.appointmentService.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Cancel godoc
// @Summary Cancel an appointment
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204 "Canceled"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Conflict"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	appointmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.appointmentService.Cancel(c.Request.Context(), userID, appointmentID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
