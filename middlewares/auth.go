package middlewares

import (
	"context"
	"strings"
	"sync"
	"time"

	"forumcore/controller"
	"forumcore/pkg/errorx"
	"forumcore/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier 查询用户当前有效的访问令牌，单点登录用
type TokenVerifier interface {
	GetUserAccessToken(ctx context.Context, userID int64) (string, error)
}

// 本地缓存有效期
const cacheExpireDuration = 5 * time.Minute

type cacheEntry struct {
	token      string
	expireTime time.Time
}

// Auth 基于 JWT 的认证，verifier 为 nil 时只校验 JWT 本身
type Auth struct {
	verifier TokenVerifier
	// strict 为 true 时 Redis 不可用直接拒绝，否则降级为只认 JWT
	strict bool

	mu    sync.RWMutex
	cache map[int64]cacheEntry // userID -> token
	now   func() time.Time
}

func NewAuth(verifier TokenVerifier, strict bool) *Auth {
	return &Auth{
		verifier: verifier,
		strict:   strict,
		cache:    make(map[int64]cacheEntry),
		now:      time.Now,
	}
}

// Required 必须登录
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.authenticate(c, true)
		if !ok {
			c.Abort()
			return
		}
		c.Set(controller.CtxUserIDKey, userID)
		c.Next()
	}
}

// Optional 带了合法令牌就识别身份，没带按匿名处理；带了非法令牌仍然拒绝
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.authenticate(c, false)
		if !ok {
			c.Abort()
			return
		}
		if userID != 0 {
			c.Set(controller.CtxUserIDKey, userID)
		}
		c.Next()
	}
}

// authenticate 失败时已写好响应
func (a *Auth) authenticate(c *gin.Context, required bool) (int64, bool) {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader == "" {
		if required {
			controller.ResponseError(c, errorx.ErrNeedLogin)
			return 0, false
		}
		return 0, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		controller.ResponseError(c, errorx.ErrInvalidToken)
		return 0, false
	}

	mc, err := jwt.ParseToken(parts[1])
	// 刷新令牌没有 user_id，不能当访问令牌用
	if err != nil || mc.UserID == 0 {
		controller.ResponseError(c, errorx.ErrInvalidToken)
		return 0, false
	}

	if !a.verify(c, mc.UserID, parts[1]) {
		return 0, false
	}
	return mc.UserID, true
}

// verify 单点登录校验：先查本地缓存，再查 Redis
func (a *Auth) verify(c *gin.Context, userID int64, token string) bool {
	if a.verifier == nil {
		return true
	}
	if cached, ok := a.getCache(userID); ok && cached == token {
		return true
	}

	current, err := a.verifier.GetUserAccessToken(c.Request.Context(), userID)
	if err != nil || current == "" {
		if a.strict {
			controller.ResponseError(c, errorx.ErrNeedLogin)
			return false
		}
		if err != nil {
			zap.L().Warn("Redis Token 校验失败，启用降级模式",
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
		return true
	}

	if token != current {
		controller.ResponseErrorWithMsg(c, errorx.CodeInvalidToken, "账号已在其他设备登录")
		return false
	}
	a.setCache(userID, token)
	return true
}

func (a *Auth) getCache(userID int64) (string, bool) {
	a.mu.RLock()
	entry, ok := a.cache[userID]
	a.mu.RUnlock()
	if !ok {
		return "", false
	}
	if a.now().After(entry.expireTime) {
		a.mu.Lock()
		if e, ok := a.cache[userID]; ok && e == entry {
			delete(a.cache, userID)
		}
		a.mu.Unlock()
		return "", false
	}
	return entry.token, true
}

func (a *Auth) setCache(userID int64, token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[userID] = cacheEntry{
		token:      token,
		expireTime: a.now().Add(cacheExpireDuration),
	}
}
