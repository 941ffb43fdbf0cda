package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/bookdash/pkg/jwt"
)

const (
	// SessionCookie 会话Cookie名
	SessionCookie = "bookdash_session"
	// NoticeCookie 一次性提示Cookie名
	NoticeCookie = "bookdash_notice"

	contextKeySessionID = "session_id"
)

// SessionMiddleware 仪表盘会话中间件
// 设计说明:
// 1. 从Cookie提取会话令牌并验证签名
// 2. 没有或无效时签发新的会话ID(uuid)
// 3. 会话ID注入Context,视图状态由Handler按ID读取
// 4. 同时负责提示(flash)Cookie的写入和一次性读取
type SessionMiddleware struct {
	jwtManager *jwt.Manager
	secure     bool
}

// NewSessionMiddleware 创建会话中间件
func NewSessionMiddleware(jwtManager *jwt.Manager, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		jwtManager: jwtManager,
		secure:     secure,
	}
}

// RequireSession 保证每个请求都有会话ID
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 已有有效会话
		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			if sid, err := m.jwtManager.ParseSession(token); err == nil {
				c.Set(contextKeySessionID, sid)
				c.Next()
				return
			}
		}

		// 2. 签发新会话
		sid := uuid.NewString()
		token, err := m.jwtManager.IssueSession(sid)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		m.setCookie(c, SessionCookie, token, m.jwtManager.SessionTTL())

		// 3. 注入Context
		c.Set(contextKeySessionID, sid)
		c.Next()
	}
}

// SetNotice 写入一次性提示,重定向后的页面读取
func (m *SessionMiddleware) SetNotice(c *gin.Context, kind, message string) {
	token, err := m.jwtManager.IssueNotice(kind, message)
	if err != nil {
		_ = c.Error(err)
		return
	}
	m.setCookie(c, NoticeCookie, token, m.jwtManager.NoticeTTL())
}

// TakeNotice 读取并清除提示,没有或已过期时ok为false
func (m *SessionMiddleware) TakeNotice(c *gin.Context) (kind, message string, ok bool) {
	token, err := c.Cookie(NoticeCookie)
	if err != nil || token == "" {
		return "", "", false
	}
	m.setCookie(c, NoticeCookie, "", -1)

	kind, message, err = m.jwtManager.ParseNotice(token)
	if err != nil {
		return "", "", false
	}
	return kind, message, true
}

// setCookie ttl<0表示删除
func (m *SessionMiddleware) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := -1
	if ttl >= 0 {
		maxAge = int(ttl / time.Second)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}

// GetSessionID 从Context获取会话ID
func GetSessionID(c *gin.Context) string {
	if sid, exists := c.Get(contextKeySessionID); exists {
		if s, ok := sid.(string); ok {
			return s
		}
	}
	return ""
}
