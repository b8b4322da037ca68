package builders

import (
	"fmt"

	"github.com/rushteam/cfrec/config"
	"github.com/rushteam/cfrec/filter"
	"github.com/rushteam/cfrec/pipeline"
	"github.com/rushteam/cfrec/pkg/conv"
	"github.com/rushteam/cfrec/recall"
	"github.com/rushteam/cfrec/rerank"
	"github.com/rushteam/cfrec/similarity"
)

func init() {
	config.Register("recall.u2i", BuildU2INode)
	config.Register("filter.expr", BuildExprFilterNode)
	config.Register("filter.blacklist", BuildBlacklistNode)
	config.Register("filter.min_score", BuildMinScoreNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildU2INode 配置：metric（euclidean / pearson）、top_n、max_concurrent。
func BuildU2INode(cfg map[string]any, res *pipeline.Resources) (pipeline.Node, error) {
	if res.Train == nil {
		return nil, fmt.Errorf("recall.u2i requires a training store")
	}
	scorer, err := similarity.ByName(conv.ConfigGet(cfg, "metric", ""))
	if err != nil {
		return nil, err
	}
	return &recall.UserBasedCF{
		Store:         res.Train,
		Similarity:    scorer,
		TopN:          int(conv.ConfigGetInt64(cfg, "top_n", 0)),
		Catalog:       res.Catalog,
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
	}, nil
}

// BuildExprFilterNode 配置：expr（CEL 表达式）。
func BuildExprFilterNode(cfg map[string]any, _ *pipeline.Resources) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	f, err := filter.NewExprFilter(expr)
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

// BuildBlacklistNode 配置：item_ids。
func BuildBlacklistNode(cfg map[string]any, _ *pipeline.Resources) (pipeline.Node, error) {
	ids := conv.SliceAnyToInt64(cfg["item_ids"])
	return &filter.FilterNode{Filters: []filter.Filter{filter.NewBlacklistFilter(ids)}}, nil
}

// BuildMinScoreNode 配置：min_score（整数或小数均可）。
func BuildMinScoreNode(cfg map[string]any, _ *pipeline.Resources) (pipeline.Node, error) {
	minScore := conv.ConfigGetFloat64(cfg, "min_score", 0)
	return &filter.FilterNode{Filters: []filter.Filter{&filter.MinScoreFilter{Min: minScore}}}, nil
}

// BuildTopNNode 配置：n。
func BuildTopNNode(cfg map[string]any, _ *pipeline.Resources) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
