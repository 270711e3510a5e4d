// Package dao 存放各存储实现共用的错误
package dao

import "errors"

// ErrDuplicateKey 唯一索引冲突，logic 层据此做 slug 重试或幂等处理
var ErrDuplicateKey = errors.New("duplicate key")
