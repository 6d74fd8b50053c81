package controller

import (
	"digestly-be/internal/dto"
	"digestly-be/internal/pkg/serverutils"
	"digestly-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPublicController interface {
	RegisterRoutes(r fiber.Router)
	TeamPage(ctx *fiber.Ctx) error
	Digest(ctx *fiber.Ctx) error
	Discover(ctx *fiber.Ctx) error
	RecentTeams(ctx *fiber.Ctx) error
	TrackBookmarkView(ctx *fiber.Ctx) error
}

type publicController struct {
	service service.IPublicService
}

func NewPublicController(service service.IPublicService) IPublicController {
	return &publicController{service: service}
}

// RegisterRoutes mounts the unauthenticated surface under /public.
func (c *publicController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/public")
	h.Get("/discover", c.Discover)
	h.Get("/recent-teams", c.RecentTeams)
	h.Get("/teams/:teamSlug", c.TeamPage)
	h.Get("/teams/:teamSlug/digests/:digestSlug", c.Digest)
	h.Post("/bookmarks/:bookmarkId/views", c.TrackBookmarkView)
}

func (c *publicController) TeamPage(ctx *fiber.Ctx) error {
	res, err := c.service.TeamPage(ctx.UserContext(), ctx.Params("teamSlug"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get team", res))
}

func (c *publicController) Digest(ctx *fiber.Ctx) error {
	preview := ctx.QueryBool("preview", false)
	res, err := c.service.Digest(ctx.UserContext(), ctx.Params("teamSlug"), ctx.Params("digestSlug"), preview)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get digest", res))
}

func (c *publicController) Discover(ctx *fiber.Ctx) error {
	req := dto.DiscoverRequest{
		PageQuery: pageQuery(ctx),
		TeamId:    ctx.Query("teamId"),
	}
	res, err := c.service.Discover(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success discover digests", res))
}

func (c *publicController) RecentTeams(ctx *fiber.Ctx) error {
	res, err := c.service.RecentTeams(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get recent teams", res))
}

func (c *publicController) TrackBookmarkView(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "bookmarkId")
	if err != nil {
		return err
	}
	res, err := c.service.TrackBookmarkView(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success track view", res))
}
