package routers

import (
	"net/http"
	"time"

	"forumcore/controller"
	"forumcore/logger"
	"forumcore/middlewares"
	"forumcore/pkg/errorx"
	"forumcore/pkg/metrics"
	"forumcore/settings"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const requestTimeout = 10 * time.Second

// SetupRouter 初始化路由配置
// mode: 运行模式 (debug, release, test)
func SetupRouter(mode string, h *controller.Handler, auth *middlewares.Auth) *gin.Engine {
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	fillInterval, capacity := rateLimitConfig(settings.Conf.RateLimit)
	r.Use(
		middlewares.RequestID(),
		logger.GinLogger(),
		logger.GinRecovery(true),
		otelgin.Middleware(serviceName()),
		metrics.GinMetrics(),
		middlewares.RateLimitMiddleware(fillInterval, capacity),
	)

	// 运维接口不走超时中间件，pprof 的 profile 默认要采样 30 秒
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if mode == gin.DebugMode {
		pprof.Register(r)
	}

	v1 := r.Group("/api/v1")
	v1.Use(middlewares.TimeoutMiddleware(requestTimeout))

	// 注册登录不需要认证
	{
		v1.POST("/signup", h.SignUpHandler)
		v1.POST("/login", h.LoginHandler)
		v1.POST("/refresh_token", h.RefreshTokenHandler)
	}

	// 公共读接口，带了令牌就识别身份
	public := v1.Group("")
	public.Use(auth.Optional())
	{
		public.GET("/communities", h.CommunityListHandler)
		public.GET("/communities/:slug", h.CommunityDetailHandler)
		public.GET("/communities/:slug/rules", h.RuleListHandler)
		public.GET("/communities/:slug/flairs", h.FlairListHandler)
		public.GET("/communities/:slug/feed", h.CommunityFeedHandler)
		public.GET("/feed/:scope", h.FeedHandler)

		public.GET("/posts/:id", h.PostDetailHandler)
		public.GET("/posts/:id/comments", h.CommentListHandler)
		public.GET("/comments/:id/replies", h.ReplyListHandler)

		public.GET("/search", h.SearchHandler)
		public.GET("/users/:id", h.UserProfileHandler)
	}

	// 需要 Header 中携带 Authorization: Bearer <token>
	authGroup := v1.Group("")
	authGroup.Use(auth.Required())
	{
		// 1. 社区
		authGroup.POST("/communities", h.CreateCommunityHandler)
		authGroup.PATCH("/communities/:slug", h.UpdateCommunityHandler)
		authGroup.POST("/communities/:slug/archive", h.ArchiveCommunityHandler)
		authGroup.POST("/communities/:slug/rules", h.CreateRuleHandler)
		authGroup.PUT("/communities/:slug/rules/:rule_id", h.UpdateRuleHandler)
		authGroup.DELETE("/communities/:slug/rules/:rule_id", h.DeleteRuleHandler)
		authGroup.POST("/communities/:slug/flairs", h.CreateFlairHandler)
		authGroup.PUT("/communities/:slug/flairs/:flair_id", h.UpdateFlairHandler)
		authGroup.DELETE("/communities/:slug/flairs/:flair_id", h.DeleteFlairHandler)

		// 2. 成员
		authGroup.POST("/communities/:slug/join", h.JoinHandler)
		authGroup.POST("/communities/:slug/leave", h.LeaveHandler)
		authGroup.GET("/communities/:slug/membership", h.MembershipHandler)
		authGroup.GET("/communities/:slug/members", h.MemberListHandler)
		authGroup.PUT("/communities/:slug/members/:user_id/role", h.ChangeRoleHandler)
		authGroup.DELETE("/communities/:slug/members/:user_id", h.RemoveMemberHandler)
		authGroup.POST("/communities/:slug/bans", h.BanHandler)
		authGroup.DELETE("/communities/:slug/bans/:user_id", h.UnbanHandler)

		// 3. 帖子与评论
		authGroup.POST("/posts", h.CreatePostHandler)
		authGroup.PATCH("/posts/:id", h.EditPostHandler)
		authGroup.DELETE("/posts/:id", h.DeletePostHandler)
		authGroup.POST("/posts/:id/remove", h.RemovePostHandler)
		authGroup.POST("/posts/:id/poll", h.PollVoteHandler)

		authGroup.POST("/comments", h.CreateCommentHandler)
		authGroup.PATCH("/comments/:id", h.EditCommentHandler)
		authGroup.DELETE("/comments/:id", h.DeleteCommentHandler)
		authGroup.POST("/comments/:id/remove", h.RemoveCommentHandler)

		// 4. 投票
		authGroup.POST("/votes", h.VoteHandler)

		// 5. 管理
		authGroup.POST("/reports", h.ReportHandler)
		authGroup.GET("/communities/:slug/reports", h.ReportListHandler)
		authGroup.POST("/reports/:id/resolve", h.ResolveReportHandler)
		authGroup.GET("/communities/:slug/modlog", h.ModLogHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code": errorx.CodeNotFound,
			"msg":  "404 page not found",
			"data": nil,
		})
	})

	return r
}

// rateLimitConfig 解析失败或未配置时默认 10ms 一个令牌，容量 200
func rateLimitConfig(cfg *settings.RateLimitConfig) (time.Duration, int64) {
	fillInterval, capacity := 10*time.Millisecond, int64(200)
	if cfg == nil {
		return fillInterval, capacity
	}
	if d, err := time.ParseDuration(cfg.FillInterval); err == nil && d > 0 {
		fillInterval = d
	}
	if cfg.Capacity > 0 {
		capacity = cfg.Capacity
	}
	return fillInterval, capacity
}

func serviceName() string {
	if settings.Conf.App != nil && settings.Conf.App.Name != "" {
		return settings.Conf.App.Name
	}
	return "forumcore"
}
