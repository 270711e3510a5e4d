package models

// ContentStatus 帖子/评论的可见状态，作者删除与版主移除互斥
type ContentStatus string

const (
	StatusVisible ContentStatus = "VISIBLE"
	StatusDeleted ContentStatus = "DELETED" // 作者自删，终态
	StatusRemoved ContentStatus = "REMOVED" // 版主移除，写 modlog
)

func (s ContentStatus) Live() bool {
	return s == StatusVisible
}
