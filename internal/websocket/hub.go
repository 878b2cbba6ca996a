package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// Hub хранит подписчиков по играм и рассылает им сообщения
type Hub struct {
	mu    sync.RWMutex
	games map[uint]map[*Client]struct{}
}

// NewHub создает пустой хаб
func NewHub() *Hub {
	return &Hub{games: make(map[uint]map[*Client]struct{})}
}

// Register добавляет клиента в подписчики его игры
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.games[c.GameID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.games[c.GameID] = clients
	}
	clients[c] = struct{}{}
	log.Debug().Str("component", "Hub").Uint("user_id", c.UserID).Uint("game_id", c.GameID).Int("subscribers", len(clients)).Msg("client registered")
}

// Unregister удаляет клиента и закрывает его канал отправки
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	clients, ok := h.games[c.GameID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.games, c.GameID)
	}
	c.closeSend()
}

// BroadcastToGame отправляет сообщение всем подписчикам игры.
// Клиенты, не успевающие читать, отключаются.
func (h *Hub) BroadcastToGame(gameID uint, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	var slow []*Client
	for c := range h.games[gameID] {
		if !c.enqueue(payload) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if len(slow) > 0 {
		h.mu.Lock()
		for _, c := range slow {
			h.removeLocked(c)
		}
		h.mu.Unlock()
	}
	return nil
}

// PublishScoreboard рассылает обновленную таблицу результатов игры
func (h *Hub) PublishScoreboard(gameID uint, entries []entity.ScoreboardEntry) {
	msg := Message{
		Type: TypeScoreboardUpdate,
		Data: ScoreboardUpdate{GameID: gameID, Teams: entries},
	}
	if err := h.BroadcastToGame(gameID, msg); err != nil {
		log.Error().Err(err).Str("component", "Hub").Uint("game_id", gameID).Msg("scoreboard broadcast failed")
	}
}

// ClientCount возвращает количество подписчиков игры
func (h *Hub) ClientCount(gameID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// Close отключает всех клиентов
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.games {
		for c := range clients {
			c.closeSend()
		}
	}
	h.games = make(map[uint]map[*Client]struct{})
}
