package core

// UserID 是评分存储中区分用户的键。
type UserID = int64

// ItemID 是评分存储中区分物品（电影）的键。
type ItemID = int64

// 属性向量的固定布局：第 0 位永远是评分，其余为上下文属性
// （年龄、性别、城市、国家、时间、心情、同伴等）。
const (
	RatingIndex = 0
	// ContextWidth 是一条用户-物品记录的属性向量宽度（评分 + 16 个上下文属性）。
	ContextWidth = 17
)

// AttributeVector 是一条用户-物品记录对应的有序数值属性。
type AttributeVector []float64

// NewAttributeVector 用评分和若干上下文属性构建属性向量。
func NewAttributeVector(rating float64, contextual ...float64) AttributeVector {
	v := make(AttributeVector, 0, 1+len(contextual))
	v = append(v, rating)
	return append(v, contextual...)
}

// Rating 返回评分字段；空向量视为未评分（0）。
func (v AttributeVector) Rating() float64 {
	if len(v) <= RatingIndex {
		return 0
	}
	return v[RatingIndex]
}
