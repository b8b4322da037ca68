package recall

import (
	"context"

	"github.com/rushteam/cfrec/core"
)

// Source 表示一个可复用的召回源。UserBasedCF 同时实现 Source 和 pipeline.Node。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
