package logic

import (
	"context"
	"sync"
	"time"

	"forumcore/models"
	"forumcore/pkg/metrics"
	"forumcore/pkg/snowflake"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("forumcore/logic")

// Notifier 站内通知出口，调用方不关心结果
type Notifier interface {
	Notify(ctx context.Context, userID int64, typ, title, message string) error
}

// ReputationHook 声望事件出口
type ReputationHook interface {
	AwardEvent(ctx context.Context, userID int64, eventType string, points int64, metadata map[string]any) error
}

// ViewCounter 帖子浏览量计数
type ViewCounter interface {
	Incr(ctx context.Context, postID int64) error
}

// TokenStore 登录令牌存储，用于单点登录
type TokenStore interface {
	SetUserToken(ctx context.Context, userID int64, aToken, rToken string, aExp, rExp time.Duration) error
}

// Triager 对新举报做优先级预判
type Triager interface {
	Triage(ctx context.Context, reason, content string) (priority, note string, err error)
}

// Limits 内容与分页限制
type Limits struct {
	MaxTitle          int
	MaxPostContent    int
	MaxCommentContent int
	FeedDefaultLimit  int
	FeedMaxLimit      int
	HotWindow         int
}

var DefaultLimits = Limits{
	MaxTitle:          300,
	MaxPostContent:    40000,
	MaxCommentContent: 10000,
	FeedDefaultLimit:  25,
	FeedMaxLimit:      100,
	HotWindow:         1000,
}

// 声望事件
const (
	EventVoteReceived     = "vote_received"
	EventCommunityCreated = "community_created"

	communityCreatedPoints = 5
	sideEffectTimeout      = 5 * time.Second
)

// Service 社区引擎的业务入口
type Service struct {
	store      Store
	admins     AdminList
	notifier   Notifier
	reputation ReputationHook
	views      ViewCounter
	tokens     TokenStore
	searcher   Searcher
	triager    Triager
	limits     Limits
	now        func() time.Time

	bg sync.WaitGroup
}

type Option func(*Service)

func WithAdmins(a AdminList) Option          { return func(s *Service) { s.admins = a } }
func WithNotifier(n Notifier) Option         { return func(s *Service) { s.notifier = n } }
func WithReputation(r ReputationHook) Option { return func(s *Service) { s.reputation = r } }
func WithViewCounter(v ViewCounter) Option   { return func(s *Service) { s.views = v } }
func WithTokenStore(t TokenStore) Option     { return func(s *Service) { s.tokens = t } }
func WithSearcher(se Searcher) Option        { return func(s *Service) { s.searcher = se } }
func WithTriager(t Triager) Option           { return func(s *Service) { s.triager = t } }
func WithLimits(l Limits) Option             { return func(s *Service) { s.limits = l } }
func WithClock(now func() time.Time) Option  { return func(s *Service) { s.now = now } }

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		limits: DefaultLimits,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.views == nil {
		s.views = storeViewCounter{store: store}
	}
	return s
}

// Wait 等待所有尽力而为的副作用结束，关机时调用
func (s *Service) Wait() {
	s.bg.Wait()
}

// goBestEffort 异步执行副作用，失败只记日志，不影响主流程
func (s *Service) goBestEffort(name string, fn func(ctx context.Context) error) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			metrics.SideEffectFailures.WithLabelValues(name).Inc()
			zap.L().Warn("best-effort side effect failed", zap.String("effect", name), zap.Error(err))
		}
	}()
}

// award 异步发送声望事件
func (s *Service) award(userID int64, eventType string, points int64, metadata map[string]any) {
	if s.reputation == nil || points <= 0 {
		return
	}
	s.goBestEffort("reputation."+eventType, func(ctx context.Context) error {
		return s.reputation.AwardEvent(ctx, userID, eventType, points, metadata)
	})
}

// newModLog 构造一条审计记录，调用方负责在同一事务里写入
func (s *Service) newModLog(communityID, moderatorID int64, action models.ModAction) *models.ModLog {
	return &models.ModLog{
		ID:          snowflake.GenID(),
		CommunityID: communityID,
		ModeratorID: moderatorID,
		Action:      action,
		CreateTime:  s.now(),
	}
}

// writeModLog 写入审计记录并计数
func writeModLog(ctx context.Context, tx Store, l *models.ModLog) error {
	if err := tx.CreateModLog(ctx, l); err != nil {
		return err
	}
	metrics.ModActions.WithLabelValues(string(l.Action)).Inc()
	return nil
}

// clampLimit 分页大小落在 [1, max]，0 取默认值
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// storeViewCounter 没有 Redis 时直接累加到数据库
type storeViewCounter struct {
	store Store
}

func (c storeViewCounter) Incr(ctx context.Context, postID int64) error {
	return c.store.IncrPostViewCount(ctx, postID, 1)
}
