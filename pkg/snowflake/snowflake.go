package snowflake

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	sf "github.com/bwmarrin/snowflake"
)

// 所有实体主键都由同一个节点生成，ID 随时间递增，feed 游标依赖这一点
var (
	node     atomic.Pointer[sf.Node]
	lazyInit sync.Once
)

// Init 设置 Epoch 并创建节点，startTime 格式为 2006-01-02
func Init(startTime string, machineID int64) error {
	st, err := time.Parse("2006-01-02", startTime)
	if err != nil {
		return fmt.Errorf("parse snowflake start time %q: %w", startTime, err)
	}
	sf.Epoch = st.UnixNano() / int64(time.Millisecond)

	n, err := sf.NewNode(machineID)
	if err != nil {
		return fmt.Errorf("new snowflake node %d: %w", machineID, err)
	}
	node.Store(n)
	return nil
}

// GenID 生成 ID；未初始化时按默认参数懒加载，便于单测直接使用
func GenID() int64 {
	n := node.Load()
	if n == nil {
		lazyInit.Do(func() {
			if node.Load() == nil {
				_ = Init("2025-01-01", 1)
			}
		})
		n = node.Load()
	}
	return n.Generate().Int64()
}
