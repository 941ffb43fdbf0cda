package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookdash/internal/domain/listing"
	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

// SessionStore 视图状态存储
// 设计说明：
// 1. 浏览器只持有签名的会话ID（Cookie），视图状态存Redis
// 2. Key设计：{prefix}:session:{session_id}
// 3. 每次保存都刷新过期时间，长时间不操作的会话自动清理
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client, prefix string, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, prefix: prefix, ttl: ttl}
}

// Get 读取视图状态
func (s *SessionStore) Get(ctx context.Context, sessionID string) (listing.ViewState, bool, error) {
	data, err := s.client.Get(ctx, key(s.prefix, "session", sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return listing.ViewState{}, false, nil
	}
	if err != nil {
		return listing.ViewState{}, false, apperrors.ErrRedisError.WithCause(err)
	}

	var state listing.ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return listing.ViewState{}, false, nil
	}
	return state, true, nil
}

// Save 保存视图状态并续期
func (s *SessionStore) Save(ctx context.Context, sessionID string, state listing.ViewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return apperrors.Wrap(err, "序列化视图状态失败")
	}

	if err := s.client.Set(ctx, key(s.prefix, "session", sessionID), data, s.ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// Delete 删除会话
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(s.prefix, "session", sessionID)).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}
