package pipeline

import (
	"context"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pkg/log"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：Recall → Filter → ReRank。
type Pipeline struct {
	Name  string
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, errors.Annotatef(err, "node %s", node.Name())
		}
		log.Logger().Debug("pipeline node done",
			zap.String("pipeline", p.Name),
			zap.String("node", node.Name()),
			zap.String("kind", string(node.Kind())),
			zap.Int("in", len(cur)),
			zap.Int("out", len(next)))
		cur = next
	}
	return cur, nil
}

// Recommend 运行 Pipeline 并把结果转为推荐列表。
func (p *Pipeline) Recommend(ctx context.Context, user core.UserID) (core.Recommendation, error) {
	items, err := p.Run(ctx, &core.RecommendContext{UserID: user}, nil)
	if err != nil {
		return nil, err
	}
	return core.RecommendationFromItems(items), nil
}
