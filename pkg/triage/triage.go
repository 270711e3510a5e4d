// Package triage 用大模型给新举报打优先级标签
package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"forumcore/settings"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	maxContentRunes = 2000
	maxNoteRunes    = 500
)

const systemPrompt = `你是社区审核助手。根据举报理由和被举报内容判断处理优先级。
只输出一个 JSON 对象：{"priority":"low|medium|high","note":"一句话理由"}。
high：人身威胁、违法内容、明显垃圾广告；medium：辱骂、引战、违反社区规则；low：其他。`

type generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

type Triager struct {
	model generator
}

func New(ctx context.Context, cfg *settings.TriageConfig) (*Triager, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("triage api key not configured")
	}
	timeout := 10 * time.Second
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse triage timeout failed: %w", err)
		}
		timeout = d
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model failed: %w", err)
	}
	zap.L().Info("init report triage success", zap.String("model", cfg.Model))
	return &Triager{model: cm}, nil
}

type verdict struct {
	Priority string `json:"priority"`
	Note     string `json:"note"`
}

func (t *Triager) Triage(ctx context.Context, reason, content string) (string, string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(fmt.Sprintf("举报理由：%s\n\n被举报内容：\n%s", reason, truncate(content, maxContentRunes))),
	}
	out, err := t.model.Generate(ctx, msgs)
	if err != nil {
		return "", "", fmt.Errorf("triage generate failed: %w", err)
	}
	return parse(out.Content)
}

// parse 兼容模型把 JSON 包在代码块里的情况
func parse(raw string) (string, string, error) {
	s := strings.TrimSpace(raw)
	if i, j := strings.Index(s, "{"), strings.LastIndex(s, "}"); i >= 0 && j > i {
		s = s[i : j+1]
	}
	var v verdict
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return "", "", fmt.Errorf("decode triage verdict failed: %w", err)
	}
	p := strings.ToLower(strings.TrimSpace(v.Priority))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return "", "", fmt.Errorf("unknown triage priority %q", v.Priority)
	}
	return p, truncate(strings.TrimSpace(v.Note), maxNoteRunes), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
