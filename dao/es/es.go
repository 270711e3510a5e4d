// Package es 基于 Elasticsearch 的全文检索，只提供候选 ID
package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"forumcore/logic"
	"forumcore/settings"
)

const defaultIndex = "forumcore-content"

// Searcher 社区、帖子、评论共用一个索引，按 kind 字段区分
type Searcher struct {
	client *elasticsearch.Client
	index  string
}

var _ logic.Searcher = (*Searcher)(nil)

func New(cfg *settings.ElasticsearchConfig) (*Searcher, error) {
	if cfg == nil || len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch addresses not configured")
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client failed: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = defaultIndex
	}
	zap.L().Info("init elasticsearch success", zap.Strings("addresses", cfg.Addresses), zap.String("index", index))
	return &Searcher{client: client, index: index}, nil
}

func docID(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

func (s *Searcher) Index(ctx context.Context, doc *logic.SearchDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal search doc failed: %w", err)
	}
	res, err := s.client.Index(s.index, bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(docID(doc.Kind, doc.ID)),
	)
	if err != nil {
		return fmt.Errorf("index %s failed: %w", docID(doc.Kind, doc.ID), err)
	}
	return drain(res, "index")
}

// Delete 文档不存在不算错误
func (s *Searcher) Delete(ctx context.Context, kind string, id int64) error {
	res, err := s.client.Delete(s.index, docID(kind, id), s.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete %s failed: %w", docID(kind, id), err)
	}
	if res.StatusCode == http.StatusNotFound {
		_ = res.Body.Close()
		return nil
	}
	return drain(res, "delete")
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source logic.SearchDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search 按相关度返回 ID
func (s *Searcher) Search(ctx context.Context, kind, q string, limit int) ([]int64, error) {
	query := map[string]any{
		"_source": []string{"id"},
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "body"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"kind": kind},
				},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal search query failed: %w", err)
	}
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s failed: %w", kind, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search %s failed: %s", kind, res.String())
	}
	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response failed: %w", err)
	}
	ids := make([]int64, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, nil
}

func drain(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%s failed: %s", op, res.String())
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
