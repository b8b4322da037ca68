package dataset

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pkg/log"
	"github.com/rushteam/cfrec/store"
)

// Split 是一次训练/测试切分的结果。
type Split struct {
	Train   *store.RatingStore
	Test    *store.RatingStore
	Catalog *store.ItemCatalog
}

// Partition 把前 int(N*ratio) 行写入训练集，其余写入测试集。
// 同一用户-物品在同一个集合中出现多次时以最后一行为准；物品目录同样以最后一行为准。
// ratio <= 0 时使用默认值 2/3。
func Partition(t *Table, ratio float64) (*Split, error) {
	if ratio <= 0 {
		ratio = core.Defaults.DefaultTrainRatio()
	}
	if ratio > 1 {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
			fmt.Sprintf("dataset: train ratio %v out of range (0, 1]", ratio))
	}

	// 加一个极小量，避免 N*2/3 这类比例因浮点误差少算一行
	trainLen := min(int(float64(len(t.Rows))*ratio+1e-9), len(t.Rows))
	split := &Split{
		Train:   store.NewRatingStore(),
		Test:    store.NewRatingStore(),
		Catalog: store.NewItemCatalog(),
	}
	for i, row := range t.Rows {
		target := split.Train
		if i >= trainLen {
			target = split.Test
		}
		user := core.UserID(row[UserColumn])
		item := core.ItemID(row[ItemColumn])
		target.Set(user, item, attributeVector(row))
		split.Catalog.Set(item, itemAttributes(row))
	}
	log.Logger().Info("partitioned dataset",
		zap.Int("train_rows", trainLen),
		zap.Int("test_rows", len(t.Rows)-trainLen),
		zap.Int("train_users", split.Train.Len()),
		zap.Int("test_users", split.Test.Len()),
		zap.Int("items", split.Catalog.Len()))
	return split, nil
}

// attributeVector 复制第 2..18 列（行较短时截断）。
func attributeVector(row []float64) core.AttributeVector {
	end := min(len(row), ItemAttrColumn)
	v := make(core.AttributeVector, end-RatingColumn)
	copy(v, row[RatingColumn:end])
	return v
}

// itemAttributes 复制第 19 列之后的物品属性。
func itemAttributes(row []float64) []float64 {
	if len(row) <= ItemAttrColumn {
		return []float64{}
	}
	attrs := make([]float64, len(row)-ItemAttrColumn)
	copy(attrs, row[ItemAttrColumn:])
	return attrs
}
