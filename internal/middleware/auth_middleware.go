package middleware

import (
	"fmt"
	"strings"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals

	// GuestSessionHeader carries the opaque guest session identifier issued
	// by the frontend for anonymous play.
	GuestSessionHeader = "X-Guest-Session-ID"
)

// Protected is a middleware function that protects routes by requiring a valid JWT.
// It validates the token using the provided AuthService and sets the userID in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		// Ensure it's an access token
		if claims.TokenType != "access" {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: fmt.Sprintf("Invalid token type: expected access, got %s", claims.TokenType),
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(UserIDKey, claims.UserID)

		return c.Next()
	}
}

// OptionalAuth is a middleware function that optionally authenticates a user.
// If a valid access token is provided, it sets the userID in the context.
// Otherwise, it proceeds without setting the userID, allowing for guest access.
func OptionalAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)

		// If no Authorization header, proceed as guest
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			logger.Get().Debug("OptionalAuth: Authorization scheme is not Bearer, proceeding as guest.", zap.String("header", authHeader))
			return c.Next()
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		if tokenString == "" {
			logger.Get().Debug("OptionalAuth: Token is empty after trimming Bearer prefix, proceeding as guest.")
			return c.Next()
		}

		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			logger.Get().Debug("OptionalAuth: JWT validation failed, proceeding as guest.", zap.Error(err))
			return c.Next()
		}

		if claims.TokenType != "access" {
			logger.Get().Debug("OptionalAuth: Invalid token type, expected access token, proceeding as guest.", zap.String("tokenType", claims.TokenType))
			return c.Next()
		}

		c.Locals(UserIDKey, claims.UserID)

		return c.Next()
	}
}

// ActorFromContext builds the acting identity for the request. An
// authenticated user id set by the auth middleware wins; otherwise the guest
// session header identifies the actor. Requests carrying neither are
// rejected since an attempt without an owner cannot exist.
func ActorFromContext(c *fiber.Ctx) (domain.Actor, error) {
	if userID, ok := c.Locals(UserIDKey).(string); ok && userID != "" {
		return domain.NewUserActor(userID), nil
	}

	guestSessionID := strings.TrimSpace(c.Get(GuestSessionHeader))
	if guestSessionID != "" {
		return domain.NewGuestActor(guestSessionID), nil
	}

	return domain.Actor{}, domain.NewAuthRequiredError("Authentication or a guest session is required")
}

// UserIDFromContext returns the authenticated user id, or "" for guests.
func UserIDFromContext(c *fiber.Ctx) string {
	if userID, ok := c.Locals(UserIDKey).(string); ok {
		return userID
	}
	return ""
}
