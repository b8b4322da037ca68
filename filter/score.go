package filter

import (
	"context"

	"github.com/rushteam/cfrec/core"
)

// MinScoreFilter 过滤掉预测分低于 Min 的物品。
type MinScoreFilter struct {
	Min float64
}

func (f *MinScoreFilter) Name() string {
	return "filter.min_score"
}

func (f *MinScoreFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return item.Score < f.Min, nil
}
