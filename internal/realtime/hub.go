package realtime

import (
	"encoding/json"
	"sync"

	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

// Hub 维护所有在线连接以及它们所在的房间
// 每个连接认证后加入自己的用户房间；打开某篇草稿时再加入对应的帖子房间
// 加入和离开都由客户端显式发起
type Hub struct {
	mu        sync.RWMutex
	userRooms map[int]map[*Client]struct{}
	postRooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		userRooms: make(map[int]map[*Client]struct{}),
		postRooms: make(map[string]map[*Client]struct{}),
	}
}

// envelope 是下行消息的统一格式
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.userRooms[client.userID] == nil {
		h.userRooms[client.userID] = make(map[*Client]struct{})
	}
	h.userRooms[client.userID][client] = struct{}{}

	util.Logger.Info("客户端已连接", zap.Int("user_id", client.userID))
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.userRooms[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userRooms, client.userID)
		}
	}
	for postID := range client.postRooms {
		h.removeFromPostLocked(client, postID)
	}

	// 已从所有房间移除，广播侧不会再拿到这个客户端，可以安全关闭 send
	// 关闭后 writePump 从 !ok 分支立即退出
	if !client.closed {
		client.closed = true
		close(client.send)
	}

	util.Logger.Info("客户端已断开", zap.Int("user_id", client.userID))
}

func (h *Hub) joinPost(client *Client, postID string) {
	if postID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.postRooms[postID] == nil {
		h.postRooms[postID] = make(map[*Client]struct{})
	}
	h.postRooms[postID][client] = struct{}{}
	client.postRooms[postID] = struct{}{}
}

func (h *Hub) leavePost(client *Client, postID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromPostLocked(client, postID)
	delete(client.postRooms, postID)
}

func (h *Hub) removeFromPostLocked(client *Client, postID string) {
	if clients, ok := h.postRooms[postID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.postRooms, postID)
		}
	}
}

// EmitToUser 向某个用户的所有连接推送事件
func (h *Hub) EmitToUser(userID int, event string, payload interface{}) {
	message, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		util.Logger.Error("序列化实时消息失败", zap.Error(err), zap.String("event", event))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.userRooms[userID] {
		client.trySend(message)
	}
}

// EmitToPost 向帖子房间内的所有连接推送事件
func (h *Hub) EmitToPost(postID string, event string, payload interface{}) {
	message, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		util.Logger.Error("序列化实时消息失败", zap.Error(err), zap.String("event", event))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.postRooms[postID] {
		client.trySend(message)
	}
}

// userCount 和 postRoomSize 仅用于测试
func (h *Hub) userCount(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userRooms[userID])
}

func (h *Hub) postRoomSize(postID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.postRooms[postID])
}
