package controller

import (
	"digestly-be/internal/dto"
	"digestly-be/internal/pkg/serverutils"
	"digestly-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDigestController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Activity(ctx *fiber.Ctx) error
}

type digestController struct {
	service         service.IDigestService
	activityService service.IActivityService
}

func NewDigestController(service service.IDigestService, activityService service.IActivityService) IDigestController {
	return &digestController{service: service, activityService: activityService}
}

// RegisterRoutes expects r to be the team-scoped group.
func (c *digestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/digests")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("/:digestId", c.Show)
	h.Patch("/:digestId", c.Update)
	h.Delete("/:digestId", c.Delete)
	h.Get("/:digestId/activity", c.Activity)
}

func (c *digestController) Create(ctx *fiber.Ctx) error {
	teamId, err := serverutils.TeamID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateDigestRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), teamId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.StatusResponse(fiber.StatusCreated, "Success create digest", res))
}

func (c *digestController) GetAll(ctx *fiber.Ctx) error {
	teamId, err := serverutils.TeamID(ctx)
	if err != nil {
		return err
	}

	req := dto.ListDigestsRequest{
		PageQuery:  pageQuery(ctx),
		IsTemplate: ctx.QueryBool("isTemplate", false),
	}

	res, err := c.service.GetAll(ctx.UserContext(), teamId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all digests", res))
}

func (c *digestController) Show(ctx *fiber.Ctx) error {
	teamId, err := serverutils.TeamID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "digestId")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), teamId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show digest", res))
}

func (c *digestController) Update(ctx *fiber.Ctx) error {
	teamId, err := serverutils.TeamID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "digestId")
	if err != nil {
		return err
	}

	var req dto.UpdateDigestRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Update(ctx.UserContext(), teamId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update digest", res))
}

func (c *digestController) Delete(ctx *fiber.Ctx) error {
	teamId, err := serverutils.TeamID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "digestId")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), teamId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete digest", nil))
}

func (c *digestController) Activity(ctx *fiber.Ctx) error {
	teamId, err := serverutils.TeamID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "digestId")
	if err != nil {
		return err
	}

	q := dto.ActivityQuery{
		Limit:  ctx.QueryInt("limit", 50),
		Offset: ctx.QueryInt("offset", 0),
	}

	res, err := c.activityService.GetActivity(ctx.UserContext(), teamId, id, q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get digest activity", res))
}
