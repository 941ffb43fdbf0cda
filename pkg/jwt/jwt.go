package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookdash/pkg/errors"
)

const issuer = "bookdash"

var (
	// ErrInvalidToken 签名错误或格式错误
	ErrInvalidToken = apperrors.New(40101, "Invalid token")

	// ErrTokenExpired 已过期
	ErrTokenExpired = apperrors.New(40102, "Token expired")
)

// Manager Cookie令牌签发器
// 设计说明：
// 1. 浏览器侧只持有两种短小的HS256令牌：会话令牌、提示(flash)令牌
// 2. 会话令牌只携带会话ID，视图状态本身存放在服务端SessionStore
// 3. 提示令牌携带一次性通知（"Book added successfully"），重定向后读取即删除
type Manager struct {
	secret        string        // 签名密钥
	sessionExpire time.Duration // 会话令牌有效期
	noticeExpire  time.Duration // 提示令牌有效期
}

// NewManager 创建令牌管理器
func NewManager(secret string, sessionExpire, noticeExpire time.Duration) *Manager {
	return &Manager{
		secret:        secret,
		sessionExpire: sessionExpire,
		noticeExpire:  noticeExpire,
	}
}

// SessionClaims 会话令牌
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NoticeClaims 提示令牌
type NoticeClaims struct {
	Kind    string `json:"kind"` // success | error
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

// SessionTTL 会话有效期(用于Cookie MaxAge)
func (m *Manager) SessionTTL() time.Duration {
	return m.sessionExpire
}

// NoticeTTL 提示有效期
func (m *Manager) NoticeTTL() time.Duration {
	return m.noticeExpire
}

// IssueSession 签发会话令牌
func (m *Manager) IssueSession(sessionID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionExpire)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   "session",
		},
	}
	return m.sign(claims, "生成会话令牌失败")
}

// ParseSession 解析会话令牌
func (m *Manager) ParseSession(tokenString string) (string, error) {
	claims := &SessionClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return "", err
	}
	if claims.SessionID == "" || claims.Subject != "session" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}

// IssueNotice 签发提示令牌
func (m *Manager) IssueNotice(kind, message string) (string, error) {
	now := time.Now()
	claims := NoticeClaims{
		Kind:    kind,
		Message: message,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.noticeExpire)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   "notice",
		},
	}
	return m.sign(claims, "生成提示令牌失败")
}

// ParseNotice 解析提示令牌
func (m *Manager) ParseNotice(tokenString string) (kind, message string, err error) {
	claims := &NoticeClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return "", "", err
	}
	if claims.Subject != "notice" {
		return "", "", ErrInvalidToken
	}
	return claims.Kind, claims.Message, nil
}

func (m *Manager) sign(claims jwt.Claims, failMsg string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", apperrors.Wrap(err, failMsg)
	}
	return s, nil
}

// parse 验证签名算法、签名与过期时间
func (m *Manager) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken.WithCause(err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
