package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	autherrors "uni-hris/internal/auth/errors"
	"uni-hris/internal/auth/token"
	"uni-hris/internal/domain"
	"uni-hris/internal/employee"
	employeeerrors "uni-hris/internal/employee/errors"
	"uni-hris/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, principal domain.Principal) (AuthResponse, error)

	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)

	// EnsureAdmin creates the bootstrap ADMIN account unless the email is taken.
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	tokens       *token.Manager
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, tokens *token.Manager, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{db: db, repo: repo, employeeRepo: employeeRepo, tokens: tokens, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
		}
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID.String()))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	claims, err := s.tokens.Parse(refreshToken, token.KindRefresh)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	// role and employee link are re-read so changes apply on the next refresh
	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}

	return s.issue(ctx, user)
}

func (s *service) issue(ctx context.Context, user *User) (string, string, AuthResponse, error) {
	role, ok := domain.ParseRole(user.Role)
	if !ok {
		s.logger.Error("stored role is unknown", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
		return "", "", AuthResponse{}, autherrors.ErrInvalidRole
	}

	employeeID, err := s.linkedEmployeeID(ctx, user.ID.String())
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	p := domain.Principal{UserID: user.ID.String(), EmployeeID: employeeID, Role: role}
	access, err := s.tokens.IssueAccess(p)
	if err != nil {
		s.logger.Error("issue access token failed", zap.Error(err))
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.tokens.IssueRefresh(p)
	if err != nil {
		s.logger.Error("issue refresh token failed", zap.Error(err))
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return access, refresh, AuthResponse{
		ID:         user.ID.String(),
		EmployeeID: employeeID,
		Email:      user.Email,
		Role:       string(role),
	}, nil
}

func (s *service) linkedEmployeeID(ctx context.Context, userID string) (string, error) {
	empl, err := s.employeeRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		s.logger.Error("resolve employee link failed", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}
	return empl.ID.String(), nil
}

func (s *service) GetMe(ctx context.Context, principal domain.Principal) (AuthResponse, error) {
	if _, err := uuid.Parse(principal.UserID); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, principal.UserID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrUserNotFound
	}

	return AuthResponse{
		ID:         u.ID.String(),
		EmployeeID: principal.EmployeeID,
		Email:      u.Email,
		Role:       u.Role,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return AuthResponse{}, autherrors.ErrInvalidRole
	}
	if role == domain.RoleEmployee && req.EmployeeID == "" {
		return AuthResponse{}, apperror.RequiredField("employee_id")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register begin tx failed", zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	if req.EmployeeID != "" {
		empl, err := s.employeeRepo.WithTx(tx).FindByID(ctx, req.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AuthResponse{}, employeeerrors.ErrEmployeeNotFound
			}
			return AuthResponse{}, err
		}
		if empl.UserID != nil {
			return AuthResponse{}, autherrors.ErrEmployeeAlreadyLinked
		}
	}

	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         string(role),
	}
	if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
		s.logger.Error("register create user failed", zap.Error(err))
		return AuthResponse{}, mapRepositoryError(err)
	}

	if req.EmployeeID != "" {
		if err := s.employeeRepo.WithTx(tx).LinkUser(ctx, req.EmployeeID, user.ID.String()); err != nil {
			s.logger.Error("register link employee failed", zap.Error(err))
			return AuthResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register commit failed", zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("account registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
		zap.String("employee_id", req.EmployeeID),
	)
	return AuthResponse{
		ID:         user.ID.String(),
		EmployeeID: req.EmployeeID,
		Email:      user.Email,
		Role:       user.Role,
	}, nil
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if err := s.repo.Create(ctx, &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         string(domain.RoleAdmin),
	}); err != nil {
		return false, mapRepositoryError(err)
	}

	s.logger.Info("admin account seeded", zap.String("email", email))
	return true, nil
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_users_email" {
		return autherrors.ErrEmailAlreadyRegistered
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "uq_users_email") || strings.Contains(msg, "users.email") {
		return autherrors.ErrEmailAlreadyRegistered
	}
	return err
}
