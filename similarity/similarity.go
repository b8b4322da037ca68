// Package similarity 计算两个用户之间的相似度，只基于两人都评过分的物品。
package similarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/store"
)

// Scorer 是相似度策略。实现必须满足交换律 Score(a, b) == Score(b, a)，
// 并在没有共同评分物品时返回 0。
type Scorer interface {
	// Name 返回度量名称（用于日志/label/配置）
	Name() string

	// Score 计算 user1 与 user2 的相似度
	Score(s *store.RatingStore, user1, user2 core.UserID) float64
}

// 度量名称
const (
	MetricEuclidean = "euclidean"
	MetricPearson   = "pearson"
)

// ErrUnknownMetric 表示配置了不存在的相似度度量。
var ErrUnknownMetric = core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput, "similarity: unknown metric")

// Euclidean 是基于欧氏距离的相似度：1 / (1 + sqrt(Σ(r1 - r2)²))，取值 (0, 1]。
type Euclidean struct{}

func (Euclidean) Name() string { return MetricEuclidean }

func (Euclidean) Score(s *store.RatingStore, user1, user2 core.UserID) float64 {
	n := 0
	dist := 0.0
	first, second := ordered(s, user1, user2)
	first.ForIntersection(second, func(_ core.ItemID, a, b core.AttributeVector) {
		d := a.Rating() - b.Rating()
		dist += d * d
		n++
	})
	if n == 0 {
		return 0
	}
	return 1 / (1 + math.Sqrt(dist))
}

// Pearson 是皮尔逊相关系数，取值 [-1, 1]。
// 任一用户在共同物品上的评分方差为 0 时相关系数无定义，返回 0。
type Pearson struct{}

func (Pearson) Name() string { return MetricPearson }

func (Pearson) Score(s *store.RatingStore, user1, user2 core.UserID) float64 {
	var sum1, sum2, sumSq1, sumSq2, sumProd float64
	n := 0
	first, second := ordered(s, user1, user2)
	first.ForIntersection(second, func(_ core.ItemID, a, b core.AttributeVector) {
		r1, r2 := a.Rating(), b.Rating()
		sum1 += r1
		sum2 += r2
		sumSq1 += r1 * r1
		sumSq2 += r2 * r2
		sumProd += r1 * r2
		n++
	})
	if n == 0 {
		return 0
	}
	fn := float64(n)
	num := fn*sumProd - sum1*sum2
	den := math.Sqrt((fn*sumSq1 - sum1*sum1) * (fn*sumSq2 - sum2*sum2))
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return num / den
}

// ordered 总是以 ID 较小的用户驱动遍历，使 Score(a, b) 与 Score(b, a) 的浮点累加顺序相同。
func ordered(s *store.RatingStore, user1, user2 core.UserID) (*store.UserRatings, *store.UserRatings) {
	if user2 < user1 {
		user1, user2 = user2, user1
	}
	return s.User(user1), s.User(user2)
}

// Default 是未显式指定时使用的相似度（欧氏距离）。
var Default Scorer = Euclidean{}

// ByName 根据名称返回相似度策略；空字符串返回 Default。
func ByName(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Default, nil
	case MetricEuclidean, "distance":
		return Euclidean{}, nil
	case MetricPearson, "correlation":
		return Pearson{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

// OrDefault 在 s 为 nil 时返回 Default。
func OrDefault(s Scorer) Scorer {
	if s == nil {
		return Default
	}
	return s
}

var (
	_ Scorer = Euclidean{}
	_ Scorer = Pearson{}
)
