package core

import "github.com/rushteam/cfrec/pkg/utils"

// RecommendContext 承载目标用户与请求级参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID UserID

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级参数，例如 CEL 过滤表达式里引用的阈值
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
