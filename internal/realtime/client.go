package realtime

import (
	"time"

	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	sendBuffer = 16
)

// Client 表示一条已认证的 WebSocket 连接
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int

	// send 缓冲写满说明客户端消费不过来，直接丢弃该客户端
	// closed 由 hub 的锁保护，防止重复关闭
	send   chan []byte
	closed bool

	// postRooms 记录该连接加入过的帖子房间，断开时统一清理
	postRooms map[string]struct{}
}

// clientMessage 是客户端上行的控制消息
type clientMessage struct {
	Event  string `json:"event"`
	PostID string `json:"post_id"`
}

func newClient(hub *Hub, conn *websocket.Conn, userID int) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		userID:    userID,
		send:      make(chan []byte, sendBuffer),
		postRooms: make(map[string]struct{}),
	}
}

// trySend 非阻塞投递，慢客户端丢消息而不是拖住广播
func (c *Client) trySend(message []byte) {
	select {
	case c.send <- message:
	default:
		util.Logger.Warn("客户端发送缓冲已满，丢弃消息", zap.Int("user_id", c.userID))
	}
}

// readPump 读取客户端的 join-post / leave-post 控制消息
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				util.Logger.Warn("连接异常关闭", zap.Error(err), zap.Int("user_id", c.userID))
			}
			return
		}

		switch msg.Event {
		case "join-post":
			c.hub.joinPost(c, msg.PostID)
		case "leave-post":
			c.hub.leavePost(c, msg.PostID)
		}
	}
}

// writePump 把 send 通道里的消息写到连接上，并定期发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
