package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/model"
	authutil "github.com/waslhq/wasl-api/utils/auth"
	"github.com/waslhq/wasl-api/utils/middleware"
	"github.com/waslhq/wasl-api/utils/response"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		blacklistService:     authutil.NewBlacklistService(db),
		bruteForceProtection: bruteForceProtection,
	}
}

var validRoles = map[string]bool{
	model.RoleSuperAdmin:      true,
	model.RoleProjectDirector: true,
	model.RoleCampusAdmin:     true,
	model.RoleOEP:             true,
	model.RoleVisaPartner:     true,
	model.RoleInstructor:      true,
	model.RoleViewer:          true,
}

// RegisterRequest represents a staff account registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
	Role     string `json:"role,omitempty"` // Optional, defaults to "viewer"
	CampusID *uint  `json:"campus_id,omitempty"`
	OEPID    *uint  `json:"oep_id,omitempty"`
}

// RegisterResponse represents a successful registration response
type RegisterResponse struct {
	User UserResponse `json:"user"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CampusID  *uint     `json:"campus_id,omitempty"`
	OEPID     *uint     `json:"oep_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CampusID:  user.CampusID,
		OEPID:     user.OEPID,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Register creates a staff account. Only reachable behind the user-management
// middleware; there is no open signup.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate request
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return response.BadRequest(c, "Email, password, and name are required")
	}

	// Validate password strength
	if !authutil.IsPasswordValid(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	// Set default role if not provided
	if req.Role == "" {
		req.Role = model.RoleViewer
	}

	if !validRoles[req.Role] {
		return response.BadRequest(c, "Invalid role")
	}

	// Scoped roles need their scope set
	if req.Role == model.RoleCampusAdmin && req.CampusID == nil {
		return response.BadRequest(c, "campus_id is required for campus_admin")
	}
	if req.Role == model.RoleOEP && req.OEPID == nil {
		return response.BadRequest(c, "oep_id is required for oep")
	}

	// Check if user already exists
	var existingUser model.User
	if err := h.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return response.Conflict(c, "User with this email already exists")
	}

	// Hash password
	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	// Create user
	user := model.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Role:         req.Role,
		CampusID:     req.CampusID,
		OEPID:        req.OEPID,
		TokenVersion: 0,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	return response.Created(c, RegisterResponse{User: toUserResponse(&user)})
}
