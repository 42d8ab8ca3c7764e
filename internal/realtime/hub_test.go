package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain(c *Client) []envelope {
	var out []envelope
	for {
		select {
		case raw := <-c.send:
			var e envelope
			if err := json.Unmarshal(raw, &e); err == nil {
				out = append(out, e)
			}
		default:
			return out
		}
	}
}

// TestRegisterUnregister 注册进用户房间，断开时房间和帖子房间都清理干净
func TestRegisterUnregister(t *testing.T) {
	hub := NewHub()

	c1 := newClient(hub, nil, 1)
	c2 := newClient(hub, nil, 1)
	hub.register(c1)
	hub.register(c2)
	assert.Equal(t, 2, hub.userCount(1))

	hub.joinPost(c1, "d1")
	assert.Equal(t, 1, hub.postRoomSize("d1"))

	hub.unregister(c1)
	assert.Equal(t, 1, hub.userCount(1))
	assert.Equal(t, 0, hub.postRoomSize("d1"))

	hub.unregister(c2)
	assert.Equal(t, 0, hub.userCount(1))
}

// TestUnregisterClosesSend 断开时关闭 send，writePump 能立即退出而不是等到下一次 ping
func TestUnregisterClosesSend(t *testing.T) {
	hub := NewHub()

	c := newClient(hub, nil, 1)
	hub.register(c)
	hub.joinPost(c, "d1")

	hub.unregister(c)
	_, ok := <-c.send
	assert.False(t, ok)

	// 重复 unregister 不会 panic
	assert.NotPanics(t, func() { hub.unregister(c) })

	// 已断开的客户端不再收到广播
	assert.NotPanics(t, func() {
		hub.EmitToUser(1, EventNewNotification, nil)
		hub.EmitToPost("d1", EventPostUpdated, nil)
	})
}

// TestEmitToUser 同一用户的每条连接都收到，其他用户收不到
func TestEmitToUser(t *testing.T) {
	hub := NewHub()

	c1 := newClient(hub, nil, 1)
	c2 := newClient(hub, nil, 1)
	other := newClient(hub, nil, 2)
	hub.register(c1)
	hub.register(c2)
	hub.register(other)

	hub.EmitToUser(1, EventNewNotification, map[string]int{"id": 5})

	for _, c := range []*Client{c1, c2} {
		msgs := drain(c)
		if assert.Len(t, msgs, 1) {
			assert.Equal(t, EventNewNotification, msgs[0].Event)
		}
	}
	assert.Empty(t, drain(other))
}

// TestEmitToPost 只有加入该帖子房间的连接收到，离开后不再收到
func TestEmitToPost(t *testing.T) {
	hub := NewHub()

	editor := newClient(hub, nil, 1)
	viewer := newClient(hub, nil, 2)
	elsewhere := newClient(hub, nil, 3)
	hub.register(editor)
	hub.register(viewer)
	hub.register(elsewhere)

	hub.joinPost(editor, "d1")
	hub.joinPost(viewer, "d1")
	hub.joinPost(elsewhere, "d2")

	hub.EmitToPost("d1", EventPostUpdated, map[string]string{"post_id": "d1"})

	assert.Len(t, drain(editor), 1)
	assert.Len(t, drain(viewer), 1)
	assert.Empty(t, drain(elsewhere))

	hub.leavePost(viewer, "d1")
	hub.EmitToPost("d1", EventPostUpdated, map[string]string{"post_id": "d1"})
	assert.Len(t, drain(editor), 1)
	assert.Empty(t, drain(viewer))
}

// TestSlowClientDropsMessages 发送缓冲写满时丢消息而不是阻塞广播
func TestSlowClientDropsMessages(t *testing.T) {
	hub := NewHub()
	slow := newClient(hub, nil, 1)
	hub.register(slow)

	for i := 0; i < sendBuffer+10; i++ {
		hub.EmitToUser(1, EventNewNotification, i)
	}

	// 缓冲满之后的消息被丢弃，EmitToUser 没有被拖住
	assert.Len(t, drain(slow), sendBuffer)
}
