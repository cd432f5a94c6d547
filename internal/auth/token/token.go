package token

import (
	"errors"
	"fmt"
	"time"

	autherrors "uni-hris/internal/auth/errors"
	"uni-hris/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

type Claims struct {
	UserID     string `json:"user_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Role       string `json:"role"`
	Kind       string `json:"kind"`
	jwt.RegisteredClaims
}

func (c Claims) Principal() domain.Principal {
	return domain.Principal{
		UserID:     c.UserID,
		EmployeeID: c.EmployeeID,
		Role:       domain.Role(c.Role),
	}
}

// Manager issues and verifies HS256 tokens.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *Manager) IssueAccess(p domain.Principal) (string, error) {
	return m.issue(p, KindAccess, m.accessTTL)
}

func (m *Manager) IssueRefresh(p domain.Principal) (string, error) {
	return m.issue(p, KindRefresh, m.refreshTTL)
}

func (m *Manager) issue(p domain.Principal, kind string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:     p.UserID,
		EmployeeID: p.EmployeeID,
		Role:       string(p.Role),
		Kind:       kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and requires it to be of the given kind.
func (m *Manager) Parse(raw, kind string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, autherrors.ErrTokenExpired
		}
		return Claims{}, autherrors.ErrInvalidToken.WithErr(err)
	}
	if !tok.Valid || claims.UserID == "" || claims.Kind != kind {
		return Claims{}, autherrors.ErrInvalidToken
	}
	if _, ok := domain.ParseRole(claims.Role); !ok {
		return Claims{}, autherrors.ErrInvalidToken
	}
	return claims, nil
}
