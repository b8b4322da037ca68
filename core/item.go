package core

import "github.com/rushteam/cfrec/pkg/utils"

// Item 是 Pipeline 中的统一承载结构：分数、物品属性、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID    ItemID
	Score float64
	// Attributes 是物品目录（导演、演员、类型、预算、语言、国家）中的属性，可能为空
	Attributes []float64
	Labels     map[string]utils.Label
}

func NewItem(id ItemID) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// ItemsFromRecommendation 把推荐列表转为 Pipeline 使用的 Item，保持顺序。
func ItemsFromRecommendation(rec Recommendation) []*Item {
	out := make([]*Item, 0, len(rec))
	for _, s := range rec {
		it := NewItem(s.ID)
		it.Score = s.Score
		out = append(out, it)
	}
	return out
}

// RecommendationFromItems 是 ItemsFromRecommendation 的逆操作。
func RecommendationFromItems(items []*Item) Recommendation {
	out := make(Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, Scored{Score: it.Score, ID: it.ID})
	}
	return out
}
