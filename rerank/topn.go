package rerank

import (
	"context"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，在过滤后再截取前 N 个物品。
// 召回阶段已经截断到 25 个，这里用于进一步收紧，例如只评估 Top 10。
type TopNNode struct {
	// N 要保留的物品数量，N <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
