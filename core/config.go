package core

// RecommendConfig 提供推荐/评估相关的默认值。
type RecommendConfig interface {
	// DefaultTopN 返回推荐列表的最大长度
	DefaultTopN() int

	// DefaultTopMatches 返回相似用户列表的最大长度
	DefaultTopMatches() int

	// DefaultGoodRating 返回“好评”阈值（召回率分母统计 rating >= 阈值的物品）
	DefaultGoodRating() float64

	// DefaultTrainRatio 返回训练集占全部记录的比例
	DefaultTrainRatio() float64
}

// DefaultRecommendConfig 是默认配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopN() int {
	return 25
}

func (c *DefaultRecommendConfig) DefaultTopMatches() int {
	return 25
}

func (c *DefaultRecommendConfig) DefaultGoodRating() float64 {
	return 4
}

func (c *DefaultRecommendConfig) DefaultTrainRatio() float64 {
	return 2 / 3.0
}

// Defaults 是包级共享的默认配置。
var Defaults RecommendConfig = &DefaultRecommendConfig{}
