package controller

import (
	"digestly-be/internal/dto"
	"digestly-be/internal/pkg/serverutils"
	"digestly-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBlockController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
}

type blockController struct {
	service service.IDigestBlockService
}

func NewBlockController(service service.IDigestBlockService) IBlockController {
	return &blockController{service: service}
}

// RegisterRoutes expects r to be the team-scoped group.
func (c *blockController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/digests/:digestId/blocks")
	h.Post("", c.Add)
	h.Patch("/:blockId", c.Update)
	h.Delete("/:blockId", c.Remove)
}

func scopeIds(ctx *fiber.Ctx) (teamId, digestId uuid.UUID, err error) {
	if teamId, err = serverutils.TeamID(ctx); err != nil {
		return
	}
	digestId, err = serverutils.ParamUUID(ctx, "digestId")
	return
}

func (c *blockController) Add(ctx *fiber.Ctx) error {
	teamId, digestId, err := scopeIds(ctx)
	if err != nil {
		return err
	}

	var req dto.AddBlockRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.TeamId = teamId
	req.DigestId = digestId

	res, err := c.service.Add(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return ctx.Status(status).JSON(serverutils.StatusResponse(status, "Success add block", res))
}

func (c *blockController) Update(ctx *fiber.Ctx) error {
	teamId, digestId, err := scopeIds(ctx)
	if err != nil {
		return err
	}
	blockId, err := serverutils.ParamUUID(ctx, "blockId")
	if err != nil {
		return err
	}

	var req dto.UpdateBlockRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.TeamId = teamId
	req.DigestId = digestId
	req.BlockId = blockId

	res, err := c.service.Update(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update block", res))
}

func (c *blockController) Remove(ctx *fiber.Ctx) error {
	teamId, digestId, err := scopeIds(ctx)
	if err != nil {
		return err
	}
	blockId, err := serverutils.ParamUUID(ctx, "blockId")
	if err != nil {
		return err
	}
	expected, err := optionalIntQuery(ctx, "expectedVersion")
	if err != nil {
		return err
	}

	res, err := c.service.Remove(ctx.UserContext(), &dto.RemoveBlockRequest{
		TeamId:          teamId,
		DigestId:        digestId,
		BlockId:         blockId,
		ExpectedVersion: expected,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success remove block", res))
}
