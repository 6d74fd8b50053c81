package handler

import (
	"strings"

	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/pkg/serverutils"
	"digestly-be/internal/service"
	internalWS "digestly-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// DigestSocketHandler streams digest.changed frames to editors of one digest.
type DigestSocketHandler struct {
	hub         *internalWS.Hub
	teamService service.ITeamService
	jwtSecret   string
	logger      logger.ILogger
}

func NewDigestSocketHandler(hub *internalWS.Hub, teamService service.ITeamService, jwtSecret string, log logger.ILogger) *DigestSocketHandler {
	return &DigestSocketHandler{
		hub:         hub,
		teamService: teamService,
		jwtSecret:   jwtSecret,
		logger:      log,
	}
}

// ServeWs authenticates the handshake and upgrades the connection.
func (h *DigestSocketHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a websocket handshake, so the query param comes first.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing token (query 'token' or header 'Authorization')")
	}

	userID, err := serverutils.ParseToken(tokenStr, h.jwtSecret)
	if err != nil {
		h.logger.Warn("DigestSocket", "Invalid token in handshake", map[string]interface{}{"error": err.Error()})
		return err
	}

	digestID, err := serverutils.ParamUUID(c, "digestId")
	if err != nil {
		return err
	}

	if err := h.teamService.EnsureDigestAccess(c.UserContext(), digestID, userID); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("DigestSocket", "Session started", map[string]interface{}{"user_id": userID, "digest_id": digestID})
		internalWS.ServeWs(h.hub, conn, userID, digestID)
		h.logger.Info("DigestSocket", "Session ended", map[string]interface{}{"user_id": userID, "digest_id": digestID})
	})(c)
}

func (h *DigestSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/digests/:digestId", h.ServeWs)
}
