// Package slug 由社区名称生成 URL 安全的短标识
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxLen   = 80
	fallback = "community"
)

// Make 小写化，去掉拉丁字母的重音符号，保留各语种的字母和数字，
// 其余连续字符折叠为一个 "-"。MaxLen 按字符计
func Make(name string) string {
	out := make([]rune, 0, len(name))
	dash, latin := false, false
	for _, r := range norm.NFKD.String(name) {
		if unicode.Is(unicode.Mn, r) {
			// 拉丁字母的重音去掉，其他文字的组合符号 (如假名浊点) 保留
			if latin || dash || len(out) == 0 {
				continue
			}
			out = append(out, r)
			continue
		}
		r = unicode.ToLower(r)
		latin = unicode.Is(unicode.Latin, r)
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			if dash && len(out) > 0 {
				out = append(out, '-')
			}
			dash = false
			out = append(out, r)
		default:
			dash = true
			latin = false
		}
	}
	out = []rune(norm.NFC.String(string(out)))
	if len(out) > MaxLen {
		out = out[:MaxLen]
	}
	s := strings.Trim(string(out), "-")
	if s == "" {
		return fallback
	}
	return s
}

// WithSuffix 第 n 次冲突后的候选值，n=0 返回原值
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
