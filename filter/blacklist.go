package filter

import (
	"context"

	"github.com/rushteam/cfrec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉黑名单中的物品。
type BlacklistFilter struct {
	items map[core.ItemID]struct{}
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []core.ItemID) *BlacklistFilter {
	items := make(map[core.ItemID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		items[id] = struct{}{}
	}
	return &BlacklistFilter{items: items}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	_, ok := f.items[item.ID]
	return ok, nil
}
