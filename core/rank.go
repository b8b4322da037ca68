package core

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Scored 是一个 (分数, ID) 对。
// 推荐列表里 ID 是物品，相似用户列表里 ID 是用户、分数是相似度。
type Scored struct {
	Score float64
	ID    int64
}

// Recommendation 是按预测分降序排列、截断后的推荐结果。
type Recommendation []Scored

// IDs 返回推荐列表中的 ID，保持顺序。
func (r Recommendation) IDs() []int64 {
	return lo.Map(r, func(s Scored, _ int) int64 { return s.ID })
}

// Contains 判断推荐列表是否包含某个物品。
func (r Recommendation) Contains(id ItemID) bool {
	return lo.ContainsBy(r, func(s Scored) bool { return s.ID == id })
}

// compareScored 先比较分数，再比较 ID。
func compareScored(a, b Scored) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// RankDescending 按 (Score, ID) 升序排序后整体反转，再取前 n 个（n <= 0 表示不截断）。
//
// 分数相同时 ID 较大的排在前面，这是“升序 + 反转”构造的结果，不额外引入次级排序键。
// 会原地修改 pairs。
func RankDescending(pairs []Scored, n int) []Scored {
	slices.SortFunc(pairs, compareScored)
	pairs = lo.Reverse(pairs)
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
