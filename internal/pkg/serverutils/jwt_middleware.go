package serverutils

import (
	"strings"

	"digestly-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const LocalUserID = "user_id"

// NewJwtMiddleware verifies an HS256 bearer token and stores its user_id claim in Locals.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return apperror.Unauthorized("missing token")
		}

		userId, err := ParseToken(authHeader[7:], secret)
		if err != nil {
			return err
		}

		ctx.Locals(LocalUserID, userId.String())
		return ctx.Next()
	}
}

// ParseToken validates tokenStr and returns the user id it was issued for.
// The websocket handshake uses it directly since browsers cannot set headers there.
func ParseToken(tokenStr, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperror.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("invalid claims")
	}

	userIdStr, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("token missing user_id")
	}
	return userId, nil
}

// UserID reads the id stored by the jwt middleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals(LocalUserID).(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("unauthorized")
	}
	return userId, nil
}

// SignToken issues a token for userId. Used by tests.
func SignToken(userId uuid.UUID, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
	}).SignedString([]byte(secret))
}
