package store

import (
	"slices"

	"github.com/samber/lo"

	"github.com/rushteam/cfrec/core"
)

// ItemCatalog 是物品（电影）目录：物品 ID -> 物品属性
// （导演、演员、类型、预算、语言、国家）。同一物品多次写入时以最后一次为准。
type ItemCatalog struct {
	items map[core.ItemID][]float64
}

func NewItemCatalog() *ItemCatalog {
	return &ItemCatalog{items: make(map[core.ItemID][]float64)}
}

func (c *ItemCatalog) Set(item core.ItemID, attrs []float64) {
	c.items[item] = attrs
}

func (c *ItemCatalog) Get(item core.ItemID) ([]float64, bool) {
	if c == nil {
		return nil, false
	}
	attrs, ok := c.items[item]
	return attrs, ok
}

func (c *ItemCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items 返回升序排列的物品 ID。
func (c *ItemCatalog) Items() []core.ItemID {
	if c == nil {
		return nil
	}
	ids := lo.Keys(c.items)
	slices.Sort(ids)
	return ids
}
