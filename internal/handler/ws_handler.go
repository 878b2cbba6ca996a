package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/service"
	"github.com/yourusername/leadership-api/internal/websocket"
)

// WSHandler подписывает клиентов на обновления таблицы результатов игры
type WSHandler struct {
	hub         *websocket.Hub
	gameService *service.GameService
	upgrader    gorillaws.Upgrader
}

// NewWSHandler создает обработчик WebSocket.
// allowedOrigins синхронизирован со списком CORS; "*" разрешает любой origin.
func NewWSHandler(hub *websocket.Hub, gameService *service.GameService, allowedOrigins []string) *WSHandler {
	h := &WSHandler{
		hub:         hub,
		gameService: gameService,
	}
	h.upgrader = gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowedOrigins)
		},
	}
	return h
}

func originAllowed(origin string, allowed []string) bool {
	// Не браузерный клиент
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	log.Warn().Str("component", "WSHandler").Str("origin", origin).Msg("rejected websocket origin")
	return false
}

// ServeGame обрабатывает GET /ws/games/:id
func (h *WSHandler) ServeGame(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	game, err := h.gameService.GetGame(idParam(c))
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		log.Warn().Err(err).Str("component", "WSHandler").Uint("user_id", caller.UserID).Msg("websocket upgrade failed")
		return
	}

	websocket.NewClient(h.hub, conn, caller.UserID, game.ID).Start()
	log.Info().Str("component", "WSHandler").Uint("user_id", caller.UserID).Uint("game_id", game.ID).Msg("scoreboard subscriber connected")
}
