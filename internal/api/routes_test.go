package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/config"
	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	trainerToken = "trainer-token"
	clientToken  = "client-token"
)

type testServer struct {
	router      *gin.Engine
	auth        *MockAuthService
	profile     *MockProfileService
	trainer     *MockTrainerService
	schedule    *MockScheduleService
	appointment *MockAppointmentService
	chat        *MockChatService
	payment     *MockPaymentService
	trainerID   primitive.ObjectID
	clientID    primitive.ObjectID
}

func newTestServer(t *testing.T, limits config.RateLimitConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		auth:        new(MockAuthService),
		profile:     new(MockProfileService),
		trainer:     new(MockTrainerService),
		schedule:    new(MockScheduleService),
		appointment: new(MockAppointmentService),
		chat:        new(MockChatService),
		payment:     new(MockPaymentService),
		trainerID:   primitive.NewObjectID(),
		clientID:    primitive.NewObjectID(),
	}
	ts.auth.On("ParseToken", trainerToken).Return(&service.Claims{UserID: ts.trainerID.Hex(), Role: domain.RoleTrainer}, nil).Maybe()
	ts.auth.On("ParseToken", clientToken).Return(&service.Claims{UserID: ts.clientID.Hex(), Role: domain.RoleClient}, nil).Maybe()
	ts.auth.On("ParseToken", mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()

	ts.router = gin.New()
	err := SetupRoutes(ts.router, Services{
		Auth:        ts.auth,
		Profile:     ts.profile,
		Trainer:     ts.trainer,
		Schedule:    ts.schedule,
		Appointment: ts.appointment,
		Chat:        ts.chat,
		Payment:     ts.payment,
	}, NewMetrics(zap.NewNop()), limits, zap.NewNop())
	require.NoError(t, err)
	return ts
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = bytes.NewBufferString(s)
		} else {
			b, _ := json.Marshal(body)
			reader = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestPing(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})
	w := ts.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})

	w := ts.do(http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, service.ErrInvalidToken.Error(), errorBody(t, w))

	ts.profile.On("GetProfile", mock.Anything, ts.clientID).Return(&domain.User{ID: ts.clientID, Name: "Jan", Role: domain.RoleClient}, nil).Once()
	w = ts.do(http.MethodGet, "/api/v1/me", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, ts.clientID.Hex(), user.ID)
}

func TestRoleMiddleware(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})

	w := ts.do(http.MethodGet, "/api/v1/trainer/schedule", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/appointments", trainerToken, map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})

	w := ts.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Jan", Email: "jan@example.com", Password: "password123", Role: "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.auth.On("Register", mock.Anything, "Jan", "jan@example.com", "password123", domain.RoleClient).Return(nil, service.ErrUserAlreadyExists).Once()
	w = ts.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Jan", Email: "jan@example.com", Password: "password123", Role: domain.RoleClient})
	assert.Equal(t, http.StatusConflict, w.Code)

	id := primitive.NewObjectID()
	ts.auth.On("Register", mock.Anything, "Ola", "ola@example.com", "password123", domain.RoleTrainer).Return(&domain.User{ID: id, Name: "Ola", Role: domain.RoleTrainer}, nil).Once()
	w = ts.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Ola", Email: "ola@example.com", Password: "password123", Role: domain.RoleTrainer})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestScheduleRoutes(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})
	slot := domain.TrainingSlot{Time: "09:00", Duration: 60}
	schedule := domain.AddSlot(domain.NewWeeklySchedule(ts.trainerID), domain.Monday, slot)

	w := ts.do(http.MethodPost, "/api/v1/trainer/schedule/monday/slots", trainerToken, map[string]any{"time": "9:00", "duration": 60})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/trainer/schedule/someday/slots", trainerToken, slot)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.schedule.On("AddSlot", mock.Anything, ts.trainerID, domain.Monday, slot).Return(&schedule, nil).Once()
	w = ts.do(http.MethodPost, "/api/v1/trainer/schedule/monday/slots", trainerToken, slot)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `[{"time":"09:00","duration":60}]`, string(body["monday"]))
	assert.JSONEq(t, `[]`, string(body["tuesday"]))

	empty := domain.NewWeeklySchedule(ts.trainerID)
	ts.schedule.On("RemoveSlot", mock.Anything, ts.trainerID, domain.Monday, slot).Return(&empty, nil).Once()
	w = ts.do(http.MethodDelete, "/api/v1/trainer/schedule/mon/slots?time=09:00&duration=60", trainerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	ts.schedule.On("GetSchedule", mock.Anything, ts.trainerID).Return(nil, service.ErrTrainerNotFound).Once()
	w = ts.do(http.MethodGet, "/api/v1/trainers/"+ts.trainerID.Hex()+"/schedule", clientToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	ts.schedule.AssertExpectations(t)
}

func TestListTrainersBounds(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})

	w := ts.do(http.MethodGet, "/api/v1/trainers?minLat=50", clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/trainers?minLat=a&maxLat=1&minLng=1&maxLng=2", clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bounds := &domain.GeoBounds{MinLat: 50, MaxLat: 51.5, MinLng: 19, MaxLng: 20}
	ts.trainer.On("ListTrainers", mock.Anything, bounds).Return([]domain.Trainer{{ID: ts.trainerID, Name: "Anna"}}, nil).Once()
	w = ts.do(http.MethodGet, "/api/v1/trainers?minLat=50&maxLat=51.5&minLng=19&maxLng=20", clientToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	ts.trainer.On("ListTrainers", mock.Anything, (*domain.GeoBounds)(nil)).Return([]domain.Trainer{}, nil).Once()
	w = ts.do(http.MethodGet, "/api/v1/trainers", clientToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestBookAppointment(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})
	trainerID := primitive.NewObjectID()

	w := ts.do(http.MethodPost, "/api/v1/appointments", clientToken, BookAppointmentRequest{TrainerID: trainerID.Hex(), Date: "2024-13-01", Time: "09:00", Duration: 60})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/appointments", clientToken, BookAppointmentRequest{TrainerID: "nope", Date: "2024-05-11", Time: "09:00", Duration: 60})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.appointment.On("Book", mock.Anything, ts.clientID, mock.MatchedBy(func(r service.BookingRequest) bool {
		return r.TrainerID == trainerID && r.Time == "09:00" && r.Date.Equal(time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC))
	})).Return(nil, service.ErrAppointmentInPast).Once()
	w = ts.do(http.MethodPost, "/api/v1/appointments", clientToken, BookAppointmentRequest{TrainerID: trainerID.Hex(), Date: "2024-05-11", Time: "09:00", Duration: 60})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodDelete, "/api/v1/appointments/not-hex", clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := primitive.NewObjectID()
	ts.appointment.On("Cancel", mock.Anything, ts.trainerID, id).Return(nil).Once()
	w = ts.do(http.MethodDelete, "/api/v1/appointments/"+id.Hex(), trainerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	ts.appointment.AssertExpectations(t)
}

func TestUpdateProfileBirthDateError(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})

	ts.profile.On("UpdateProfile", mock.Anything, ts.clientID, "Jan", "11/05/2999").
		Return(nil, &service.BirthDateError{Err: domain.ErrBirthDateInFuture}).Once()
	w := ts.do(http.MethodPut, "/api/v1/profile", clientToken, UpdateProfileRequest{Name: "Jan", BirthDate: "11/05/2999"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "birth date: cannot be in the future", errorBody(t, w))
}

func TestUnexpectedErrorIsHidden(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})

	ts.chat.On("ListChats", mock.Anything, ts.clientID).Return(nil, errors.New("server selection timeout")).Once()
	w := ts.do(http.MethodGet, "/api/v1/chats", clientToken, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", errorBody(t, w))
}

func TestPaymentTransitionConflict(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})
	id := primitive.NewObjectID()

	ts.payment.On("Complete", mock.Anything, ts.clientID, id).Return(nil, domain.ErrIllegalPaymentTransition).Once()
	w := ts.do(http.MethodPost, "/api/v1/payments/"+id.Hex()+"/complete", clientToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	other := primitive.NewObjectID()
	ts.payment.On("Complete", mock.Anything, ts.clientID, other).Return(nil, service.ErrPaymentConfirmDenied).Once()
	w = ts.do(http.MethodPost, "/api/v1/payments/"+other.Hex()+"/complete", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/payments", clientToken, map[string]any{"appointmentId": id.Hex(), "amount": 100, "method": "CRYPTO"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessage(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})

	ts.chat.On("SendMessage", mock.Anything, ts.clientID, ts.trainerID, "hello").
		Return(&domain.Message{ChatID: domain.ChatIDFor(ts.clientID, ts.trainerID), Text: "hello"}, nil).Once()
	w := ts.do(http.MethodPost, "/api/v1/messages", clientToken, SendMessageRequest{ReceiverID: ts.trainerID.Hex(), Text: "hello"})
	assert.Equal(t, http.StatusCreated, w.Code)

	ts.chat.On("GetThread", mock.Anything, "other_chat", ts.clientID).Return(nil, service.ErrChatAccessDenied).Once()
	w = ts.do(http.MethodGet, "/api/v1/chats/other_chat/messages", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{RPS: 0.001, Burst: 1})

	w := ts.do(http.MethodPost, "/api/v1/auth/login", "", "{}")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/auth/login", "", "{}")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})

	ts.do(http.MethodGet, "/ping", "", nil)
	w := ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `trainer_booking_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}

func TestIPRateLimiterForgetsIdleClients(t *testing.T) {
	l := newIPRateLimiter(1, 2)
	now := time.Now()

	assert.True(t, l.allow("1.1.1.1", now))
	assert.True(t, l.allow("1.1.1.1", now))
	assert.False(t, l.allow("1.1.1.1", now))
	assert.True(t, l.allow("2.2.2.2", now))

	later := now.Add(time.Hour)
	assert.True(t, l.allow("3.3.3.3", later))
	assert.Len(t, l.visitors, 1)
}
