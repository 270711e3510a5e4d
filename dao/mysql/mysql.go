package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"forumcore/dao"
	"forumcore/logic"
	"forumcore/models"
	"forumcore/settings"
)

// 全局连接池，gorm.DB 并发安全
var db *gorm.DB

// Init 按配置连接 MySQL 或 PostgreSQL
func Init(cfg *settings.MysqlConfig) (err error) {
	if cfg == nil {
		return fmt.Errorf("mysql.Init received nil config")
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "mysql":
		// parseTime=True: 时间字段解析为 time.Time
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DbName)
		dialector = mysql.Open(dsn)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DbName)
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gormConfig := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              true,
		// 唯一索引冲突统一翻译成 gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	db, err = gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("connect to %s failed: %w", driverName(cfg), err)
	}
	if err = db.Use(tracing.NewPlugin()); err != nil {
		return fmt.Errorf("register gorm tracing plugin failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB failed: %w", err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s failed: %w", driverName(cfg), err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	// 小于 MySQL wait_timeout，避免拿到被服务端断开的连接
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)

	if cfg.AutoMigrate {
		if err = Migrate(db); err != nil {
			return err
		}
	}

	zap.L().Info("init db success", zap.String("driver", driverName(cfg)), zap.String("host", cfg.Host))
	return nil
}

func driverName(cfg *settings.MysqlConfig) string {
	if cfg.Driver == "" {
		return "mysql"
	}
	return cfg.Driver
}

// Migrate 建表或补齐缺失的列和索引
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.CommunityRule{},
		&models.CommunityFlair{},
		&models.CommunityMember{},
		&models.CommunityBan{},
		&models.Post{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Comment{},
		&models.Vote{},
		&models.Report{},
		&models.ModLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

func Close() {
	if db != nil {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func GetDB() *gorm.DB {
	return db
}

// Store 基于 gorm 的 logic.Store 实现
// DAO 层只返回错误，不打印日志，由上层统一处理
type Store struct {
	db *gorm.DB
}

var _ logic.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) Transaction(ctx context.Context, fn func(tx logic.Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// wrap 给错误加上操作名；唯一索引冲突换成 dao.ErrDuplicateKey
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return dao.ErrDuplicateKey
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

// first 查不到返回 (nil, nil)
func first[T any](tx *gorm.DB, op string) (*T, error) {
	v := new(T)
	err := tx.First(v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return v, nil
}

// likePattern 转义通配符后做包含匹配，统一小写以兼容 PostgreSQL
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// byIDs 按传入顺序重排查询结果
func byIDs[T any](ids []int64, list []*T, key func(*T) int64) []*T {
	m := make(map[int64]*T, len(list))
	for _, v := range list {
		m[key(v)] = v
	}
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out = append(out, v)
		}
	}
	return out
}
