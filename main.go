package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forumcore/controller"
	"forumcore/dao/es"
	"forumcore/dao/mysql"
	"forumcore/dao/redis"
	_ "forumcore/docs" // 导入生成的 Swagger 文档包
	"forumcore/logger"
	"forumcore/logic"
	"forumcore/middlewares"
	"forumcore/pkg/jwt"
	"forumcore/pkg/mq"
	"forumcore/pkg/notify"
	"forumcore/pkg/snowflake"
	"forumcore/pkg/trace"
	"forumcore/pkg/triage"
	"forumcore/routers"
	"forumcore/settings"

	"go.uber.org/zap"
)

// @title forumcore 接口文档
// @version 1.0
// @description 社区内容排序与管理服务

// @host 127.0.0.1:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	var confFile string
	flag.StringVar(&confFile, "conf", "./config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 配置、ID 生成器、日志
	if err := settings.Init(confFile); err != nil {
		fmt.Printf("init settings failed, err:%v\n", err)
		return
	}
	if err := snowflake.Init(settings.Conf.Snowflake.StartTime, settings.Conf.Snowflake.MachineID); err != nil {
		fmt.Printf("init snowflake failed, err:%v\n", err)
		return
	}
	if err := logger.Init(settings.Conf.Log, settings.Conf.App.Mode); err != nil {
		fmt.Printf("init logger failed, err:%v\n", err)
		return
	}
	defer zap.L().Sync()

	authCfg := settings.Conf.Auth
	jwt.Init(authCfg.Secret, parseDuration(authCfg.AccessTTL, 0), parseDuration(authCfg.RefreshTTL, 0))

	shutdownTrace, err := trace.Init(context.Background(), settings.Conf.Trace, settings.Conf.App.Name, settings.Conf.App.Version)
	if err != nil {
		zap.L().Fatal("init trace failed", zap.Error(err))
	}

	// 2. MySQL 是核心依赖，连不上直接退出
	if err := mysql.Init(settings.Conf.Mysql); err != nil {
		zap.L().Fatal("Init MySQL failed", zap.Error(err))
	}
	defer mysql.Close()
	store := mysql.NewStore(mysql.GetDB())

	opts := []logic.Option{
		logic.WithAdmins(logic.NewAdminList(authCfg.AdminUserIDs)),
		logic.WithLimits(limitsFromConfig()),
	}

	// 3. 以下组件都是可选的，未配置时走数据库或直接跳过
	var (
		tokens *redis.TokenStore
		views  *redis.ViewCounter
	)
	if settings.Conf.Redis != nil && settings.Conf.Redis.Host != "" {
		if err := redis.Init(settings.Conf.Redis); err != nil {
			zap.L().Fatal("Init Redis failed", zap.Error(err))
		}
		defer redis.Close()
		tokens = redis.NewTokenStore(redis.Client())
		views = redis.NewViewCounter(redis.Client(), store)
		views.Start(parseDuration(settings.Conf.Redis.ViewFlushInterval, 30*time.Second))
		opts = append(opts, logic.WithTokenStore(tokens), logic.WithViewCounter(views))
	}

	if cfg := settings.Conf.Elasticsearch; cfg != nil && len(cfg.Addresses) > 0 {
		searcher, err := es.New(cfg)
		if err != nil {
			zap.L().Fatal("init elasticsearch failed", zap.Error(err))
		}
		opts = append(opts, logic.WithSearcher(searcher))
	}

	if cfg := settings.Conf.RabbitMQ; cfg != nil && cfg.URL != "" {
		pub, err := mq.NewReputationPublisher(cfg)
		if err != nil {
			zap.L().Fatal("init rabbitmq failed", zap.Error(err))
		}
		defer pub.Close()
		opts = append(opts, logic.WithReputation(pub))
	}

	if cfg := settings.Conf.Kafka; cfg != nil && len(cfg.Brokers) > 0 {
		n, err := notify.NewKafkaNotifier(cfg)
		if err != nil {
			zap.L().Fatal("init kafka failed", zap.Error(err))
		}
		defer n.Close()
		opts = append(opts, logic.WithNotifier(n))
	}

	if cfg := settings.Conf.Triage; cfg != nil && cfg.APIKey != "" {
		t, err := triage.New(context.Background(), cfg)
		if err != nil {
			zap.L().Fatal("init triage failed", zap.Error(err))
		}
		opts = append(opts, logic.WithTriager(t))
	}

	svc := logic.New(store, opts...)

	// 4. 校验翻译器和路由
	if err := controller.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator trans failed", zap.Error(err))
	}
	var verifier middlewares.TokenVerifier
	if tokens != nil {
		verifier = tokens
	}
	auth := middlewares.NewAuth(verifier, authCfg.StrictSSO)
	r := routers.SetupRouter(settings.Conf.App.Mode, controller.NewHandler(svc), auth)

	// 5. 启动服务 (优雅关机模式)
	port := settings.Conf.App.Port
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
	go func() {
		zap.L().Info("Server is running...", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Server Shutdown failed", zap.Error(err))
	}

	// 等待尚未完成的通知、积分、索引等副作用，再把缓冲的浏览量写回
	svc.Wait()
	if views != nil {
		views.Stop()
	}
	if err := shutdownTrace(ctx); err != nil {
		zap.L().Warn("shutdown trace failed", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		zap.L().Warn("invalid duration, using default", zap.String("value", s), zap.Duration("default", def))
		return def
	}
	return d
}

// limitsFromConfig 未配置的项沿用默认值
func limitsFromConfig() logic.Limits {
	l := logic.DefaultLimits
	if c := settings.Conf.Content; c != nil {
		l.MaxTitle = pick(c.MaxTitle, l.MaxTitle)
		l.MaxPostContent = pick(c.MaxPostContent, l.MaxPostContent)
		l.MaxCommentContent = pick(c.MaxCommentContent, l.MaxCommentContent)
	}
	if f := settings.Conf.Feed; f != nil {
		l.FeedDefaultLimit = pick(f.DefaultLimit, l.FeedDefaultLimit)
		l.FeedMaxLimit = pick(f.MaxLimit, l.FeedMaxLimit)
		l.HotWindow = pick(f.HotWindow, l.HotWindow)
	}
	return l
}

func pick(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
