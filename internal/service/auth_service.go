package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// ParseToken validates a signed token and returns the user ID and role it carries.
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	userRepo      repository.UserRepository
	trainerRepo   repository.TrainerRepository
	scheduleRepo  repository.ScheduleRepository
	jwtSecret     string
	jwtExpiration time.Duration
	log           *zap.Logger
	now           func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	trainerRepo repository.TrainerRepository,
	scheduleRepo repository.ScheduleRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
	log *zap.Logger,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		trainerRepo:   trainerRepo,
		scheduleRepo:  scheduleRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		log:           log,
		now:           time.Now,
	}
}

// Register creates the account. A trainer also gets an empty public profile
// and an empty weekly schedule so they show up in the directory right away.
func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	const op = "service.Register"

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || !role.Valid() {
		return nil, fmt.Errorf("%w: name, email and a valid role are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique index catches a registration racing with ours.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = userID

	if user.IsTrainer() {
		if err := s.bootstrapTrainer(ctx, user); err != nil {
			// Without its profile the account is unusable and would block a retry.
			if delErr := s.userRepo.Delete(ctx, userID); delErr != nil {
				s.log.Error("failed to roll back trainer registration", zap.String("user_id", userID.Hex()), zap.Error(delErr))
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.log.Info("user registered", zap.String("user_id", userID.Hex()), zap.String("role", string(role)))
	user.PasswordHash = ""
	return user, nil
}

// bootstrapTrainer saves the schedule before the public profile, so a failure
// never leaves a listed trainer behind.
func (s *authService) bootstrapTrainer(ctx context.Context, user *domain.User) error {
	schedule := domain.NewWeeklySchedule(user.ID)
	schedule.UpdatedAt = s.now().UTC()
	if err := s.scheduleRepo.Save(ctx, &schedule); err != nil {
		return err
	}
	return s.trainerRepo.Upsert(ctx, &domain.Trainer{ID: user.ID, Name: user.Name})
}

func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password cannot be empty", ErrInvalidInput)
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, fmt.Errorf("service.Login: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		s.log.Error("failed to sign token", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// Claims is the JWT payload.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "trainer-booking",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
