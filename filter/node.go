package filter

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pipeline"
	"github.com/rushteam/cfrec/pkg/log"
	"github.com/rushteam/cfrec/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 任何一个过滤器返回 true，该物品就会被过滤掉；保留的物品保持原有顺序。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	filteredCount := 0

	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				log.Logger().Warn("filter failed",
					zap.String("filter", f.Name()),
					zap.Int64("item_id", item.ID),
					zap.Error(err))
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			filteredCount++
			item.PutLabel(utils.LabelFiltered, utils.NewLabel("true", filterReason))
			continue
		}

		out = append(out, item)
	}

	if filteredCount > 0 {
		log.Logger().Debug("filtered items", zap.Int("count", filteredCount))
	}
	return out, nil
}
