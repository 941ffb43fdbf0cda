package listing

import (
	"context"
)

// SessionStore 视图状态存储,按浏览器会话隔离
// 实现:Redis(多实例部署)或进程内存(单实例)
type SessionStore interface {
	// Get 读取视图状态,不存在返回(零值, false, nil)
	Get(ctx context.Context, sessionID string) (ViewState, bool, error)

	// Save 保存视图状态并刷新过期时间
	Save(ctx context.Context, sessionID string, state ViewState) error

	// Delete 删除会话
	Delete(ctx context.Context, sessionID string) error
}
