package realtime

// 实时事件名，负载形状见各 service 的触发点
const (
	EventNewNotification = "new-notification"
	EventNewComment      = "new-comment"
	EventPostUpdated     = "post-updated"
)

// Broadcaster 是注入到各 service 的实时推送能力
// 推送是尽力而为的：失败只记录日志，绝不影响触发它的写操作
type Broadcaster interface {
	EmitToUser(userID int, event string, payload interface{})
	EmitToPost(postID string, event string, payload interface{})
}

// NoopBroadcaster 在不需要实时推送的场景（脚本、部分测试）下使用
type NoopBroadcaster struct{}

func (NoopBroadcaster) EmitToUser(userID int, event string, payload interface{})    {}
func (NoopBroadcaster) EmitToPost(postID string, event string, payload interface{}) {}
