package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type authMocks struct {
	users     *MockUserRepository
	trainers  *MockTrainerRepository
	schedules *MockScheduleRepository
}

func newAuthService(t *testing.T) (AuthService, authMocks) {
	t.Helper()
	m := authMocks{
		users:     new(MockUserRepository),
		trainers:  new(MockTrainerRepository),
		schedules: new(MockScheduleRepository),
	}
	svc := NewAuthService(m.users, m.trainers, m.schedules, testSecret, time.Hour, newNoopLogger())
	return svc, m
}

func TestAuthService_RegisterClient(t *testing.T) {
	svc, m := newAuthService(t)
	id := primitive.NewObjectID()

	m.users.On("GetByEmail", mock.Anything, "jan@example.com").Return(nil, repository.ErrNotFound).Once()
	m.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "jan@example.com" && u.Role == domain.RoleClient &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(id, nil).Once()

	user, err := svc.Register(context.Background(), " Jan ", " Jan@Example.com ", "password123", domain.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Jan", user.Name)
	assert.Empty(t, user.PasswordHash)

	m.users.AssertExpectations(t)
	m.trainers.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	m.schedules.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterTrainerBootstrapsProfile(t *testing.T) {
	svc, m := newAuthService(t)
	id := primitive.NewObjectID()

	m.users.On("GetByEmail", mock.Anything, "anna@example.com").Return(nil, repository.ErrNotFound).Once()
	m.users.On("Create", mock.Anything, mock.Anything).Return(id, nil).Once()
	m.trainers.On("Upsert", mock.Anything, mock.MatchedBy(func(tr *domain.Trainer) bool {
		return tr.ID == id && tr.Name == "Anna"
	})).Return(nil).Once()
	m.schedules.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.WeeklySchedule) bool {
		return s.TrainerID == id && s.Monday != nil && len(s.Monday) == 0
	})).Return(nil).Once()

	user, err := svc.Register(context.Background(), "Anna", "anna@example.com", "password123", domain.RoleTrainer)
	require.NoError(t, err)
	assert.True(t, user.IsTrainer())

	m.users.AssertExpectations(t)
	m.trainers.AssertExpectations(t)
	m.schedules.AssertExpectations(t)
}

func TestAuthService_RegisterErrors(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		role     domain.Role
		setup    func(m authMocks)
		wantErr  error
	}{
		{
			name:     "short password",
			email:    "a@example.com",
			password: "short",
			role:     domain.RoleClient,
			wantErr:  ErrInvalidInput,
		},
		{
			name:     "unknown role",
			email:    "a@example.com",
			password: "password123",
			role:     domain.Role("admin"),
			wantErr:  ErrInvalidInput,
		},
		{
			name:     "malformed email",
			email:    "not-an-email",
			password: "password123",
			role:     domain.RoleClient,
			wantErr:  ErrInvalidInput,
		},
		{
			name:     "email taken",
			email:    "a@example.com",
			password: "password123",
			role:     domain.RoleClient,
			setup: func(m authMocks) {
				m.users.On("GetByEmail", mock.Anything, "a@example.com").Return(&domain.User{}, nil).Once()
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name:     "duplicate on insert",
			email:    "a@example.com",
			password: "password123",
			role:     domain.RoleClient,
			setup: func(m authMocks) {
				m.users.On("GetByEmail", mock.Anything, "a@example.com").Return(nil, repository.ErrNotFound).Once()
				m.users.On("Create", mock.Anything, mock.Anything).Return(primitive.NilObjectID, repository.ErrDuplicate).Once()
			},
			wantErr: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthService(t)
			if tt.setup != nil {
				tt.setup(m)
			}
			_, err := svc.Register(context.Background(), "Name", tt.email, tt.password, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
			m.users.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterTrainerRollsBackOnBootstrapFailure(t *testing.T) {
	svc, m := newAuthService(t)
	id := primitive.NewObjectID()
	dbErr := errors.New("write concern timeout")

	m.users.On("GetByEmail", mock.Anything, "anna@example.com").Return(nil, repository.ErrNotFound).Once()
	m.users.On("Create", mock.Anything, mock.Anything).Return(id, nil).Once()
	m.schedules.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	m.trainers.On("Upsert", mock.Anything, mock.Anything).Return(dbErr).Once()
	m.users.On("Delete", mock.Anything, id).Return(nil).Once()

	user, err := svc.Register(context.Background(), "Anna", "anna@example.com", "password123", domain.RoleTrainer)
	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, user)
	m.users.AssertExpectations(t)

	// The schedule goes first so a failed save never leaves a listed trainer.
	svc, m = newAuthService(t)
	m.users.On("GetByEmail", mock.Anything, "anna@example.com").Return(nil, repository.ErrNotFound).Once()
	m.users.On("Create", mock.Anything, mock.Anything).Return(id, nil).Once()
	m.schedules.On("Save", mock.Anything, mock.Anything).Return(dbErr).Once()
	m.users.On("Delete", mock.Anything, id).Return(nil).Once()

	_, err = svc.Register(context.Background(), "Anna", "anna@example.com", "password123", domain.RoleTrainer)
	assert.ErrorIs(t, err, dbErr)
	m.trainers.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	m.users.AssertExpectations(t)
}

func TestAuthService_LoginAndParseToken(t *testing.T) {
	svc, m := newAuthService(t)
	id := primitive.NewObjectID()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := func() *domain.User {
		return &domain.User{ID: id, Email: "jan@example.com", PasswordHash: string(hash), Role: domain.RoleTrainer}
	}
	m.users.On("GetByEmail", mock.Anything, "jan@example.com").Return(stored(), nil).Once()

	token, user, err := svc.Login(context.Background(), "jan@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.PasswordHash)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleTrainer, claims.Role)

	m.users.On("GetByEmail", mock.Anything, "jan@example.com").Return(stored(), nil).Once()
	_, _, err = svc.Login(context.Background(), "jan@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	m.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()
	_, _, err = svc.Login(context.Background(), "ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	m.users.On("GetByEmail", mock.Anything, "down@example.com").Return(nil, errors.New("connection refused")).Once()
	_, _, err = svc.Login(context.Background(), "down@example.com", "password123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_ParseTokenRejectsForeignTokens(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims := &Claims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   domain.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
