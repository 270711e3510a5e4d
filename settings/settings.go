package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Mode    string `mapstructure:"mode"`
	Version string `mapstructure:"version"`
	Port    int    `mapstructure:"port"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	FileName   string `mapstructure:"file_name"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// MysqlConfig 关系库配置，Driver 为空时按 mysql 处理
type MysqlConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DbName       string `mapstructure:"db_name"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db_name"`
	PoolSize int    `mapstructure:"pool_size"`
	// ViewFlushInterval 浏览量从 Redis 回写数据库的周期，如 "30s"
	ViewFlushInterval string `mapstructure:"view_flush_interval"`
}

type RateLimitConfig struct {
	FillInterval string `mapstructure:"fill_interval"` // 令牌填充间隔（如 "10ms"）
	Capacity     int64  `mapstructure:"capacity"`
}

type SnowflakeConfig struct {
	StartTime string `mapstructure:"start_time"`
	MachineID int64  `mapstructure:"machine_id"`
}

type AuthConfig struct {
	Secret       string  `mapstructure:"secret"`
	AccessTTL    string  `mapstructure:"access_ttl"`
	RefreshTTL   string  `mapstructure:"refresh_ttl"`
	StrictSSO    bool    `mapstructure:"strict_sso"`
	AdminUserIDs []int64 `mapstructure:"admin_user_ids"`
}

type FeedConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
	// HotWindow hot 排序时参与重排的候选帖子上限
	HotWindow int `mapstructure:"hot_window"`
}

type ContentConfig struct {
	MaxPostContent    int `mapstructure:"max_post_content"`
	MaxCommentContent int `mapstructure:"max_comment_content"`
	MaxTitle          int `mapstructure:"max_title"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type TriageConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Timeout string `mapstructure:"timeout"`
}

type TraceConfig struct {
	Endpoint string  `mapstructure:"endpoint"`
	Insecure bool    `mapstructure:"insecure"`
	Ratio    float64 `mapstructure:"ratio"`
}

type Config struct {
	App           *AppConfig           `mapstructure:"app"`
	Mysql         *MysqlConfig         `mapstructure:"mysql"`
	Redis         *RedisConfig         `mapstructure:"redis"`
	Log           *LogConfig           `mapstructure:"log"`
	Snowflake     *SnowflakeConfig     `mapstructure:"snowflake"`
	RateLimit     *RateLimitConfig     `mapstructure:"ratelimit"`
	Auth          *AuthConfig          `mapstructure:"auth"`
	Feed          *FeedConfig          `mapstructure:"feed"`
	Content       *ContentConfig       `mapstructure:"content"`
	RabbitMQ      *RabbitMQConfig      `mapstructure:"rabbitmq"`
	Kafka         *KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch *ElasticsearchConfig `mapstructure:"elasticsearch"`
	Triage        *TriageConfig        `mapstructure:"triage"`
	Trace         *TraceConfig         `mapstructure:"trace"`
}

var Conf = new(Config)

// Init 读取配置文件；存在 .env 时先加载，FORUM_ 前缀的环境变量可覆盖同名配置
func Init(filePath string) (err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("godotenv.Load() failed: %w", err)
	}

	viper.SetConfigFile(filePath)
	viper.SetEnvPrefix("forum")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err = viper.ReadInConfig(); err != nil {
		return fmt.Errorf("viper.ReadInConfig() failed: %w", err)
	}
	if Conf, err = decode(viper.GetViper()); err != nil {
		return err
	}

	// 运行中不替换 Conf，改动只做校验，重启后生效
	viper.WatchConfig()
	viper.OnConfigChange(func(in fsnotify.Event) {
		if _, err := decode(viper.GetViper()); err != nil {
			zap.L().Error("config file changed but is invalid", zap.String("file", in.Name), zap.Error(err))
			return
		}
		zap.L().Warn("config file changed, restart to apply", zap.String("file", in.Name))
	})
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal() failed: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "forumcore")
	v.SetDefault("app.mode", "dev")
	v.SetDefault("app.port", 8080)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file_name", "forumcore.log")
	v.SetDefault("log.max_size", 200)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)

	v.SetDefault("mysql.driver", "mysql")
	v.SetDefault("mysql.max_open_conns", 200)
	v.SetDefault("mysql.max_idle_conns", 50)

	v.SetDefault("redis.pool_size", 100)
	v.SetDefault("redis.view_flush_interval", "30s")

	v.SetDefault("snowflake.start_time", "2025-01-01")
	v.SetDefault("snowflake.machine_id", 1)

	v.SetDefault("ratelimit.fill_interval", "10ms")
	v.SetDefault("ratelimit.capacity", 200)

	v.SetDefault("auth.access_ttl", "10m")
	v.SetDefault("auth.refresh_ttl", "720h")

	v.SetDefault("feed.default_limit", 25)
	v.SetDefault("feed.max_limit", 100)
	v.SetDefault("feed.hot_window", 1000)

	v.SetDefault("content.max_post_content", 40000)
	v.SetDefault("content.max_comment_content", 10000)
	v.SetDefault("content.max_title", 300)

	v.SetDefault("rabbitmq.exchange", "forumcore.reputation")
	v.SetDefault("kafka.topic", "forumcore.notifications")
	v.SetDefault("elasticsearch.index", "forumcore-content")
	v.SetDefault("triage.timeout", "8s")
	v.SetDefault("trace.ratio", 1.0)
}
