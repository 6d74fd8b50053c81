package serverutils

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"digestly-be/internal/pkg/logger"
	"digestly-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubChecker struct {
	allowed map[uuid.UUID]uuid.UUID // team -> user
}

func (s stubChecker) EnsureMember(ctx context.Context, teamId, userId uuid.UUID) error {
	if s.allowed[teamId] == userId {
		return nil
	}
	return apperror.Forbidden("not a member of this team")
}

func newApp(checker MembershipChecker) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
	teams := app.Group("/teams/:teamId", NewJwtMiddleware(testSecret), NewTeamAccessMiddleware(checker))
	teams.Get("/whoami", func(ctx *fiber.Ctx) error {
		userId, err := UserID(ctx)
		if err != nil {
			return err
		}
		teamId, err := TeamID(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", fiber.Map{"user": userId, "team": teamId}))
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error { return errors.New("db exploded") })
	app.Get("/conflict", func(ctx *fiber.Ctx) error { return apperror.Conflict("digest was modified concurrently") })
	app.Post("/validate", func(ctx *fiber.Ctx) error {
		var req struct {
			Position *int   `json:"position" validate:"required,min=0"`
			Type     string `json:"type" validate:"required,oneof=BOOKMARK TEXT"`
		}
		if err := ParseBody(ctx, &req); err != nil {
			return err
		}
		return ValidateRequest(req)
	})
	return app
}

func decodeError(t *testing.T, body io.Reader) ErrorResponseBody {
	t.Helper()
	var res ErrorResponseBody
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func TestTeamRoutesRequireTokenAndMembership(t *testing.T) {
	teamId, userId, stranger := uuid.New(), uuid.New(), uuid.New()
	app := newApp(stubChecker{allowed: map[uuid.UUID]uuid.UUID{teamId: userId}})

	memberToken, err := SignToken(userId, testSecret)
	require.NoError(t, err)
	strangerToken, err := SignToken(stranger, testSecret)
	require.NoError(t, err)
	forgedToken, err := SignToken(userId, "other-secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		code   string
	}{
		{"missing token", "/teams/" + teamId.String() + "/whoami", "", 401, "unauthorized"},
		{"forged token", "/teams/" + teamId.String() + "/whoami", forgedToken, 401, "unauthorized"},
		{"not a member", "/teams/" + teamId.String() + "/whoami", strangerToken, 403, "forbidden"},
		{"bad team id", "/teams/nope/whoami", memberToken, 422, "validation"},
		{"member", "/teams/" + teamId.String() + "/whoami", memberToken, 200, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, resp.Body).Code)
			}
		})
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app := newApp(stubChecker{})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	body := decodeError(t, resp.Body)
	assert.False(t, body.Success)
	assert.Equal(t, "internal server error", body.Error)
	assert.Equal(t, "internal", body.Code)

	resp, err = app.Test(httptest.NewRequest("GET", "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, "digest was modified concurrently", decodeError(t, resp.Body).Error)

	resp, err = app.Test(httptest.NewRequest("GET", "/missing-route", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "not_found", decodeError(t, resp.Body).Code)
}

func TestValidateRequest(t *testing.T) {
	app := newApp(stubChecker{})

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"valid", `{"position":0,"type":"TEXT"}`, 200, ""},
		{"missing position", `{"type":"TEXT"}`, 422, "Position is required"},
		{"negative position", `{"position":-1,"type":"TEXT"}`, 422, "Position must be at least 0"},
		{"unknown type", `{"position":1,"type":"IMAGE"}`, 422, "Type must be one of [BOOKMARK TEXT]"},
		{"malformed json", `{"position":`, 422, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/validate", stringsReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.message != "" {
				assert.Contains(t, decodeError(t, resp.Body).Error, tt.message)
			}
		})
	}
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
