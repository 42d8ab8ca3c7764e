package realtime

import (
	"net/http"

	"github.com/Miracle004/Lumo/config"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == config.AppConfig.FrontendURL
	},
}

// ServeWS 处理 WebSocket 握手
// 令牌通过查询参数传递，认证通过后连接自动加入自己的用户房间
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := util.ValidateToken(c.Query("token"))
		if err != nil {
			util.Logger.Warn("WebSocket 认证失败", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效或过期的令牌"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			util.Logger.Error("WebSocket 升级失败", zap.Error(err))
			return
		}

		client := newClient(hub, conn, userID)
		hub.register(client)

		go client.writePump()
		go client.readPump()
	}
}
