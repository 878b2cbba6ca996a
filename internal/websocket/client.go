package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время, которое разрешено клиенту читать следующее сообщение.
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту.
	pingPeriod = (pongWait * 9) / 10

	// Входящие сообщения не используются, кроме служебных
	maxMessageSize = 512

	defaultClientBufferSize = 32

	// Максимальное количество предупреждений о переполнении буфера до отключения
	maxBufferWarnings = 3
)

// Client является посредником между WebSocket соединением и hub.
// Клиент подписан ровно на одну игру.
type Client struct {
	UserID uint
	GameID uint

	hub  *Hub
	conn *websocket.Conn

	// Буферизованный канал для исходящих сообщений
	send chan []byte

	// Флаг, указывающий что канал send закрыт (для предотвращения panic)
	sendClosed atomic.Bool

	bufferWarnings atomic.Int32
}

// NewClient создает клиента для соединения
func NewClient(hub *Hub, conn *websocket.Conn, userID, gameID uint) *Client {
	return &Client{
		UserID: userID,
		GameID: gameID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, defaultClientBufferSize),
	}
}

// Start регистрирует клиента в хабе и запускает горутины чтения и записи
func (c *Client) Start() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

// enqueue кладет сообщение в буфер без блокировки.
// Возвращает false, если клиента пора отключить.
func (c *Client) enqueue(message []byte) bool {
	if c.sendClosed.Load() {
		return false
	}
	select {
	case c.send <- message:
		c.bufferWarnings.Store(0)
		return true
	default:
		warnings := c.bufferWarnings.Add(1)
		log.Warn().Str("component", "WebSocketClient").Uint("user_id", c.UserID).Uint("game_id", c.GameID).Int32("warnings", warnings).Msg("send buffer full, message dropped")
		return warnings < maxBufferWarnings
	}
}

// closeSend закрывает канал отправки один раз
func (c *Client) closeSend() bool {
	if c.sendClosed.CompareAndSwap(false, true) {
		close(c.send)
		return true
	}
	return false
}

// readPump читает входящие кадры только ради ping/pong и обнаружения отключения
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("component", "WebSocketClient").Uint("user_id", c.UserID).Msg("read error")
			}
			return
		}
	}
}

// writePump отправляет сообщения клиенту из канала send
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Канал send закрыт хабом
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("component", "WebSocketClient").Uint("user_id", c.UserID).Msg("write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
