package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService resolves the acting staff identity for back-office and till
// operations. Staff log in with email + PIN and receive a JWT.
type AuthService struct {
	staffRepo core.StaffRepository
	jwtSecret string
}

// NewAuthService creates a new auth service
func NewAuthService(staffRepo core.StaffRepository, jwtSecret string) *AuthService {
	return &AuthService{
		staffRepo: staffRepo,
		jwtSecret: jwtSecret,
	}
}

// Login verifies a staff member's PIN and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, pin string) (string, *core.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pin == "" {
		return "", nil, core.Validationf("email and pin are required")
	}

	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		if core.IsKind(err, core.ErrKindNotFound) {
			return "", nil, core.Validationf("invalid credentials")
		}
		return "", nil, err
	}

	if !staff.IsActive {
		return "", nil, core.Validationf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PinHash), []byte(pin)); err != nil {
		return "", nil, core.Validationf("invalid credentials")
	}

	token, err := s.generateJWT(staff)
	if err != nil {
		return "", nil, core.Internalf(err, "failed to generate token")
	}

	return token, staff, nil
}

// CreateStaffInput carries the parameters for registering a staff member
type CreateStaffInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	PIN   string `json:"pin"`
	Role  string `json:"role"`
}

// CreateStaff registers a staff member with a bcrypt-hashed PIN.
func (s *AuthService) CreateStaff(ctx context.Context, input CreateStaffInput) (*core.Staff, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" || input.Email == "" {
		return nil, core.Validationf("name and email are required")
	}
	if len(input.PIN) < 4 {
		return nil, core.Validationf("pin must be at least 4 digits")
	}

	role := strings.ToUpper(strings.TrimSpace(input.Role))
	switch role {
	case core.StaffRoleAdmin, core.StaffRoleManager, core.StaffRoleCashier:
	case "":
		role = core.StaffRoleCashier
	default:
		return nil, core.Validationf("unrecognized role %q", input.Role)
	}

	if existing, err := s.staffRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, core.Conflictf("staff with email %s already exists", input.Email)
	} else if err != nil && !core.IsKind(err, core.ErrKindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, core.Internalf(err, "failed to hash pin")
	}

	staff := &core.Staff{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		PinHash:   string(hash),
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}

	return staff, nil
}

// ListStaff returns all staff records.
func (s *AuthService) ListStaff(ctx context.Context) ([]*core.Staff, error) {
	return s.staffRepo.List(ctx)
}

// GetStaff returns a staff member by id.
func (s *AuthService) GetStaff(ctx context.Context, id string) (*core.Staff, error) {
	return s.staffRepo.GetByID(ctx, id)
}

// generateJWT signs a token carrying the staff identity and role.
func (s *AuthService) generateJWT(staff *core.Staff) (string, error) {
	claims := jwt.MapClaims{
		"staff_id": staff.ID,
		"email":    staff.Email,
		"name":     staff.Name,
		"role":     staff.Role,
		"exp":      time.Now().Add(12 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateJWT validates a token and returns its claims.
func (s *AuthService) ValidateJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
