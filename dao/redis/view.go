package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"forumcore/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ViewSink 浏览增量最终写入的地方
type ViewSink interface {
	IncrPostViewCount(ctx context.Context, id, delta int64) error
}

// consumeScript 扣减已回写的增量，归零后删除 field，不会吞掉期间新增的浏览
var consumeScript = redis.NewScript(`
local v = redis.call('HINCRBY', KEYS[1], ARGV[1], '-' .. ARGV[2])
if v <= 0 then
	redis.call('HDEL', KEYS[1], ARGV[1])
end
return v
`)

// ViewCounter 浏览量先累加到 Redis hash，由后台定期回写数据库
type ViewCounter struct {
	rdb  *redis.Client
	sink ViewSink

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewViewCounter(rdb *redis.Client, sink ViewSink) *ViewCounter {
	return &ViewCounter{
		rdb:  rdb,
		sink: sink,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (v *ViewCounter) Incr(ctx context.Context, postID int64) error {
	err := v.rdb.HIncrBy(ctx, getRedisKey(KeyPostViews), strconv.FormatInt(postID, 10), 1).Err()
	if err != nil {
		return fmt.Errorf("incr post view failed (post_id: %d): %w", postID, err)
	}
	return nil
}

// Flush 把当前缓冲的增量写入 sink，返回成功回写的帖子数
func (v *ViewCounter) Flush(ctx context.Context) (int, error) {
	key := getRedisKey(KeyPostViews)
	pending, err := v.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("read pending views failed: %w", err)
	}
	flushed := 0
	for field, raw := range pending {
		postID, err1 := strconv.ParseInt(field, 10, 64)
		delta, err2 := strconv.ParseInt(raw, 10, 64)
		if err1 != nil || err2 != nil || delta <= 0 {
			v.rdb.HDel(ctx, key, field)
			continue
		}
		if err := v.sink.IncrPostViewCount(ctx, postID, delta); err != nil {
			return flushed, fmt.Errorf("write views failed (post_id: %d): %w", postID, err)
		}
		if err := consumeScript.Run(ctx, v.rdb, []string{key}, field, delta).Err(); err != nil {
			return flushed, fmt.Errorf("consume pending views failed (post_id: %d): %w", postID, err)
		}
		flushed++
	}
	return flushed, nil
}

// Start 每隔 interval 回写一次，Stop 时再做最后一次
func (v *ViewCounter) Start(interval time.Duration) {
	go func() {
		defer close(v.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				v.flushAndLog()
			case <-v.stop:
				v.flushAndLog()
				return
			}
		}
	}()
}

// Stop 需在 Start 之后调用，阻塞到最后一次回写结束
func (v *ViewCounter) Stop() {
	v.stopOnce.Do(func() { close(v.stop) })
	<-v.done
}

func (v *ViewCounter) flushAndLog() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := v.Flush(ctx)
	metrics.ViewFlushes.Add(float64(n))
	if err != nil {
		zap.L().Warn("flush post views failed", zap.Int("flushed", n), zap.Error(err))
	}
}
