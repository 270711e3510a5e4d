// Package cursor 编解码 feed 的不透明分页游标
package cursor

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

// Cursor 上一页最后一条的排序键和 ID，ID 在同一排序键内严格递减
type Cursor struct {
	Key float64
	ID  int64
}

var ErrMalformed = errors.New("malformed cursor")

func (c Cursor) Encode() string {
	raw := strconv.FormatFloat(c.Key, 'g', -1, 64) + ":" + strconv.FormatInt(c.ID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode 空字符串表示第一页，返回 nil
func Decode(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrMalformed
	}
	key, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil, ErrMalformed
	}
	k, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return nil, ErrMalformed
	}
	i, err := strconv.ParseInt(id, 10, 64)
	if err != nil || i <= 0 {
		return nil, ErrMalformed
	}
	return &Cursor{Key: k, ID: i}, nil
}

// Before 判断 (key,id) 是否排在游标之后（降序）
func (c *Cursor) Before(key float64, id int64) bool {
	if c == nil {
		return true
	}
	return key < c.Key || (key == c.Key && id < c.ID)
}
