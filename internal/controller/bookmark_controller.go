package controller

import (
	"digestly-be/internal/dto"
	"digestly-be/internal/pkg/serverutils"
	"digestly-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBookmarkController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type bookmarkController struct {
	service service.IBookmarkService
}

func NewBookmarkController(service service.IBookmarkService) IBookmarkController {
	return &bookmarkController{service: service}
}

func (c *bookmarkController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bookmarks")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
}

func (c *bookmarkController) GetAll(ctx *fiber.Ctx) error {
	teamId, err := serverutils.TeamID(ctx)
	if err != nil {
		return err
	}

	req := dto.ListBookmarksRequest{
		PageQuery:       pageQuery(ctx),
		OnlyNotInDigest: ctx.QueryBool("onlyNotInDigest", false),
		Search:          ctx.Query("search"),
	}

	res, err := c.service.GetAll(ctx.UserContext(), teamId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get bookmarks", res))
}

func (c *bookmarkController) Create(ctx *fiber.Ctx) error {
	teamId, err := serverutils.TeamID(ctx)
	if err != nil {
		return err
	}
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateBookmarkRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), teamId, userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.StatusResponse(fiber.StatusCreated, "Success create bookmark", res))
}
