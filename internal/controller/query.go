package controller

import (
	"strconv"

	"digestly-be/internal/dto"
	"digestly-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

func pageQuery(ctx *fiber.Ctx) dto.PageQuery {
	return dto.PageQuery{
		Page:    ctx.QueryInt("page", 1),
		PerPage: ctx.QueryInt("perPage", 0),
	}
}

// optionalIntQuery returns nil when the parameter is absent.
func optionalIntQuery(ctx *fiber.Ctx, name string) (*int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.Validation("%s must be an integer", name)
	}
	return &v, nil
}
