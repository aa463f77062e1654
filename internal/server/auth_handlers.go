package server

import (
	"fmt"
	"strconv"
	"time"

	"p2psandbox/internal/middleware"
	"p2psandbox/internal/models"
	"p2psandbox/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "p2psandbox-api"
	tokenAudience = "p2psandbox-client"
	tokenLifetime = 7 * 24 * time.Hour
)

// SignupRequest represents the signup request body
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles user registration
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Check for existing user
	if existing, err := s.userRepo.GetByEmail(c.Context(), req.Email); err != nil {
		return respondServiceError(c, err)
	} else if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Email already registered"))
	}
	if existing, err := s.userRepo.GetByUsername(c.Context(), req.Username); err != nil {
		return respondServiceError(c, err)
	} else if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Username already taken"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondServiceError(c, err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user signed up",
		"user_id", user.ID, "username", user.Username)

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

// Login handles user authentication
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return respondServiceError(c, err)
	}
	if user == nil {
		// Same message as a wrong password so the endpoint does not leak
		// which emails are registered.
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid email or password"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid email or password"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user logged in",
		"user_id", user.ID, "username", user.Username)

	return c.JSON(AuthResponse{Token: token, User: user})
}

// Refresh issues a fresh token for the authenticated user and revokes the
// token used to call it.
func (s *Server) Refresh(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Best effort: revoke the old token so it cannot be replayed after refresh.
	s.blacklistCurrentToken(c)

	return c.JSON(AuthResponse{Token: token, User: user})
}

// Logout revokes the current token by blacklisting its JTI until it expires
func (s *Server) Logout(c *fiber.Ctx) error {
	s.blacklistCurrentToken(c)

	middleware.Logger.InfoContext(c.UserContext(), "user logged out",
		"user_id", currentUserID(c))

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// blacklistCurrentToken stores the request token's JTI in Redis with a TTL
// matching the token's remaining lifetime. Missing Redis or a malformed token
// degrades silently; the token simply expires on its own schedule.
func (s *Server) blacklistCurrentToken(c *fiber.Ctx) {
	if s.redis == nil {
		return
	}

	claims := s.parsedClaims(c)
	if claims == nil {
		return
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return
	}

	ttl := tokenLifetime
	if exp, ok := claims["exp"].(float64); ok {
		remaining := time.Until(time.Unix(int64(exp), 0))
		if remaining <= 0 {
			return
		}
		ttl = remaining
	}

	if err := s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("blacklist").Inc()
		middleware.Logger.WarnContext(c.UserContext(), "token blacklist write failed", "error", err)
	}
}

// parsedClaims re-parses the bearer token from the Authorization header.
// Handlers behind AuthRequired can assume it was already validated.
func (s *Server) parsedClaims(c *fiber.Ctx) jwt.MapClaims {
	authHeader := c.Get("Authorization")
	if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
		return nil
	}

	token, err := jwt.Parse(authHeader[7:], func(token *jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// generateToken creates a new JWT token for a user
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique token identifier for revocation tracking
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
