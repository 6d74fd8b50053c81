package serverutils

import (
	"context"

	"digestly-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const LocalTeamID = "team_id"

type MembershipChecker interface {
	EnsureMember(ctx context.Context, teamId, userId uuid.UUID) error
}

// NewTeamAccessMiddleware guards /teams/:teamId routes. It must run after the jwt middleware.
func NewTeamAccessMiddleware(checker MembershipChecker) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := UserID(ctx)
		if err != nil {
			return err
		}

		teamId, err := uuid.Parse(ctx.Params("teamId"))
		if err != nil {
			return apperror.Validation("invalid team id")
		}

		if err := checker.EnsureMember(ctx.UserContext(), teamId, userId); err != nil {
			return err
		}

		ctx.Locals(LocalTeamID, teamId.String())
		return ctx.Next()
	}
}

func TeamID(ctx *fiber.Ctx) (uuid.UUID, error) {
	teamIdStr, _ := ctx.Locals(LocalTeamID).(string)
	teamId, err := uuid.Parse(teamIdStr)
	if err != nil {
		return uuid.Nil, apperror.Forbidden("team access not checked")
	}
	return teamId, nil
}

// ParamUUID parses a path parameter, reporting a validation error for malformed ids.
func ParamUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s", name)
	}
	return id, nil
}

// ParseBody wraps BodyParser so malformed JSON is reported as a validation error.
func ParseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("invalid request body: %s", err.Error())
	}
	return nil
}
