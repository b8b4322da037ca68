package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由业务自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank ...
}

// 链路里约定使用的 label key。
const (
	LabelRecallSource = "recall_source" // 召回源，例如 u2i
	LabelMetric       = "cf_metric"     // 计算相似度使用的度量
	LabelNeighbors    = "cf_neighbors"  // 贡献了该物品的正相似用户数
	LabelFiltered     = "filtered"      // 被过滤时记录原因
	LabelCandidates   = "cf_candidates" // 用户级：召回得到的候选数
)

// NewLabel 构造一个 Label。
func NewLabel(value, source string) Label {
	return Label{Value: value, Source: source}
}

// MergeLabel 合并同名 Label，保留历史以便追踪：
// Value 以 '|' 累积，Source 以 ',' 累积；任一方为空时直接取另一方。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := Label{Value: existing.Value + "|" + incoming.Value}
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "", incoming.Source == existing.Source:
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
