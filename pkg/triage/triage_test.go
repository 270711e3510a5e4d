package triage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	reply string
	err   error
	input []*schema.Message
}

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func TestTriage(t *testing.T) {
	m := &fakeModel{reply: "```json\n{\"priority\":\"HIGH\",\"note\":\" 疑似广告 \"}\n```"}
	tr := &Triager{model: m}

	p, note, err := tr.Triage(context.Background(), "spam", "buy now")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)
	assert.Equal(t, "疑似广告", note)

	require.Len(t, m.input, 2)
	assert.Equal(t, schema.System, m.input[0].Role)
	assert.Contains(t, m.input[1].Content, "spam")
	assert.Contains(t, m.input[1].Content, "buy now")
}

func TestTriageRejectsBadVerdict(t *testing.T) {
	cases := []string{"not json", `{"priority":"urgent"}`, ""}
	for _, reply := range cases {
		_, _, err := (&Triager{model: &fakeModel{reply: reply}}).Triage(context.Background(), "r", "c")
		assert.Error(t, err, reply)
	}

	boom := errors.New("rate limited")
	_, _, err := (&Triager{model: &fakeModel{err: boom}}).Triage(context.Background(), "r", "c")
	assert.ErrorIs(t, err, boom)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "举报", truncate("举报内容", 2))
	long := strings.Repeat("x", maxContentRunes+10)
	assert.Len(t, truncate(long, maxContentRunes), maxContentRunes)
}
