package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TrainerHandler struct {
	trainerService     service.TrainerService
	scheduleService    service.ScheduleService
	appointmentService service.AppointmentService
	log                *zap.Logger
}

func NewTrainerHandler(
	trainerService service.TrainerService,
	scheduleService service.ScheduleService,
	appointmentService service.AppointmentService,
	log *zap.Logger,
) *TrainerHandler {
	return &TrainerHandler{
		trainerService:     trainerService,
		scheduleService:    scheduleService,
		appointmentService: appointmentService,
		log:                log,
	}
}

type UpdateTrainerProfileRequest struct {
	Name            *string  `json:"name"`
	Specialization  *string  `json:"specialization"`
	Description     *string  `json:"description"`
	PricePerSession *int64   `json:"pricePerSession" binding:"omitempty,gte=0"`
	Latitude        *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

type SlotRequest struct {
	Time     string `json:"time" form:"time" binding:"required,hhmm"`
	Duration int    `json:"duration" form:"duration" binding:"required,min=1,max=1440"`
}

type ScheduleResponse struct {
	TrainerID string                `json:"trainerId"`
	Monday    []domain.TrainingSlot `json:"monday"`
	Tuesday   []domain.TrainingSlot `json:"tuesday"`
	Wednesday []domain.TrainingSlot `json:"wednesday"`
	Thursday  []domain.TrainingSlot `json:"thursday"`
	Friday    []domain.TrainingSlot `json:"friday"`
	Saturday  []domain.TrainingSlot `json:"saturday"`
	Sunday    []domain.TrainingSlot `json:"sunday"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// MapScheduleToResponse renders every weekday as a JSON array, never null.
func MapScheduleToResponse(s *domain.WeeklySchedule) ScheduleResponse {
	return ScheduleResponse{
		TrainerID: s.TrainerID.Hex(),
		Monday:    s.Slots(domain.Monday),
		Tuesday:   s.Slots(domain.Tuesday),
		Wednesday: s.Slots(domain.Wednesday),
		Thursday:  s.Slots(domain.Thursday),
		Friday:    s.Slots(domain.Friday),
		Saturday:  s.Slots(domain.Saturday),
		Sunday:    s.Slots(domain.Sunday),
		UpdatedAt: s.UpdatedAt,
	}
}

// parseBounds reads minLat, maxLat, minLng and maxLng. No parameters means no
// bounds; a partial set is an error.
func parseBounds(c *gin.Context) (*domain.GeoBounds, error) {
	keys := []string{"minLat", "maxLat", "minLng", "maxLng"}
	values := make([]float64, len(keys))
	present := 0
	for i, key := range keys {
		raw, ok := c.GetQuery(key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", key)
		}
		values[i] = v
		present++
	}
	switch present {
	case 0:
		return nil, nil
	case len(keys):
		return &domain.GeoBounds{MinLat: values[0], MaxLat: values[1], MinLng: values[2], MaxLng: values[3]}, nil
	}
	return nil, fmt.Errorf("bounds need all of minLat, maxLat, minLng and maxLng")
}

func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// ListTrainers godoc
// @Summary List trainers
// @Description Lists every trainer, or only those inside the bounding box when all four bounds are given.
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param minLat query number false "South bound"
// @Param maxLat query number false "North bound"
// @Param minLng query number false "West bound"
// @Param maxLng query number false "East bound"
// @Success 200 {array} domain.Trainer
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainers [get]
func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	bounds, err := parseBounds(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	trainers, err := h.trainerService.ListTrainers(c.Request.Context(), bounds)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

// GetTrainer godoc
// @Summary Get a trainer profile
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param trainerId path string true "Trainer ID"
// @Success 200 {object} service.TrainerDetails
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainers/{trainerId} [get]
func (h *TrainerHandler) GetTrainer(c *gin.Context) {
	trainerID, ok := parseObjectIDParam(c, "trainerId")
	if !ok {
		return
	}
	details, err := h.trainerService.GetTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetTrainerSchedule godoc
// @Summary Get a trainer's weekly schedule
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param trainerId path string true "Trainer ID"
// @Success 200 {object} ScheduleResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainers/{trainerId}/schedule [get]
func (h *TrainerHandler) GetTrainerSchedule(c *gin.Context) {
	trainerID, ok := parseObjectIDParam(c, "trainerId")
	if !ok {
		return
	}
	h.writeSchedule(c, trainerID)
}

// GetMySchedule godoc
// @Summary Get the calling trainer's weekly schedule
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ScheduleResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/schedule [get]
func (h *TrainerHandler) GetMySchedule(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}
	h.writeSchedule(c, trainerID)
}

func (h *TrainerHandler) writeSchedule(c *gin.Context, trainerID primitive.ObjectID) {
	schedule, err := h.scheduleService.GetSchedule(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(schedule))
}

// UpdateMyProfile godoc
// @Summary Update the calling trainer's public profile
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateTrainerProfileRequest true "Fields to change; omitted fields are kept"
// @Success 200 {object} domain.Trainer
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/profile [put]
func (h *TrainerHandler) UpdateMyProfile(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateTrainerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	trainer, err := h.trainerService.UpdateProfile(c.Request.Context(), trainerID, service.TrainerProfileUpdate{
		Name:            req.Name,
		Specialization:  req.Specialization,
		Description:     req.Description,
		PricePerSession: req.PricePerSession,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

// AddSlot godoc
// @Summary Add a weekly training slot
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weekday path string true "Day name (monday, mon) or ISO number"
// @Param slot body SlotRequest true "Slot time (HH:MM) and duration in minutes"
// @Success 200 {object} ScheduleResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/schedule/{weekday}/slots [post]
func (h *TrainerHandler) AddSlot(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}
	day, err := domain.ParseWeekday(c.Param("weekday"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	schedule, err := h.scheduleService.AddSlot(c.Request.Context(), trainerID, day, domain.TrainingSlot{Time: req.Time, Duration: req.Duration})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(schedule))
}

// RemoveSlot godoc
// @Summary Remove a weekly training slot
// @Description Removes the first slot equal to the one in the query string. Removing a missing slot is a no-op.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param weekday path string true "Day name (monday, mon) or ISO number"
// @Param time query string true "Slot time HH:MM"
// @Param duration query int true "Slot duration in minutes"
// @Success 200 {object} ScheduleResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/schedule/{weekday}/slots [delete]
func (h *TrainerHandler) RemoveSlot(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}
	day, err := domain.ParseWeekday(c.Param("weekday"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req SlotRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	schedule, err := h.scheduleService.RemoveSlot(c.Request.Context(), trainerID, day, domain.TrainingSlot{Time: req.Time, Duration: req.Duration})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(schedule))
}

// ListMyAppointments godoc
// @Summary List the calling trainer's appointments
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.AppointmentView
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/appointments [get]
func (h *TrainerHandler) ListMyAppointments(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}
	views, err := h.appointmentService.ListForTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
