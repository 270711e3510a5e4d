// Package hotrank 实现 hot 排序的打分函数
package hotrank

import (
	"math"
	"time"
)

// Epoch 打分的时间基准 2025-01-01T00:00Z
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// DecaySeconds 每 45000 秒（12.5 小时）的新鲜度相当于 10 倍的分数
const DecaySeconds = 45000

// Score hot(score, createdAt) = sign(score)*log10(max(|score|,1)) + secondsSinceEpoch/45000
// secondsSinceEpoch 取整秒，保证同一输入在任何机器上得到同一结果
func Score(score int64, createdAt time.Time) float64 {
	order := math.Log10(math.Max(math.Abs(float64(score)), 1))
	var sign float64
	switch {
	case score > 0:
		sign = 1
	case score < 0:
		sign = -1
	}
	seconds := float64(createdAt.Unix() - Epoch.Unix())
	return sign*order + seconds/DecaySeconds
}
