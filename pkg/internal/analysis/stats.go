package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

// 推断类型集合.
const (
	dtypeInteger  = "integer"
	dtypeFloat    = "float"
	dtypeBool     = "bool"
	dtypeText     = "text"
	dtypeDatetime = "datetime"
)

// datetimeLayouts 日期推断尝试的格式.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// inferDtype 由非缺失值推断列类型.
// 全缺失列按 float 处理，统计摘要全为 null.
func inferDtype(col []*string) string {
	isInt, isFloat, isBool, isTime := true, true, true, true
	seen := false

	for _, v := range col {
		if v == nil {
			continue
		}

		seen = true
		s := strings.TrimSpace(*v)

		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}

		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}

		if isBool {
			switch strings.ToLower(s) {
			case "true", "false":
			default:
				isBool = false
			}
		}

		if isTime {
			isTime = false

			for _, layout := range datetimeLayouts {
				if _, err := time.Parse(layout, s); err == nil {
					isTime = true

					break
				}
			}
		}

		if !isInt && !isFloat && !isBool && !isTime {
			return dtypeText
		}
	}

	switch {
	case !seen:
		return dtypeFloat
	case isBool:
		return dtypeBool
	case isInt:
		return dtypeInteger
	case isFloat:
		return dtypeFloat
	case isTime:
		return dtypeDatetime
	default:
		return dtypeText
	}
}

// numericDtype 类型是否参与数值摘要.
func numericDtype(dtype string) bool {
	return dtype == dtypeInteger || dtype == dtypeFloat
}

// numericSummary 对非缺失值计算描述统计.
// 空切片返回全 null 的摘要对象；样本标准差在 n<2 时为 null.
func numericSummary(values []float64) itypes.NumericSummary {
	if len(values) == 0 {
		return itypes.NumericSummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	std := stat.StdDev(sorted, nil)

	return itypes.NumericSummary{
		Mean:   fptr(mean),
		Median: fptr(stat.Quantile(0.5, stat.LinInterp, sorted, nil)),
		Std:    fptr(std),
		Min:    fptr(sorted[0]),
		Max:    fptr(sorted[len(sorted)-1]),
		Q25:    fptr(stat.Quantile(0.25, stat.LinInterp, sorted, nil)),
		Q75:    fptr(stat.Quantile(0.75, stat.LinInterp, sorted, nil)),
	}
}

// fptr NaN 归一化为 null.
func fptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}

	return &v
}

// summarize 计算整表元数据与每列结果.
func summarize(f *frame) (*itypes.TableMetadata, *itypes.AnalysisResults) {
	meta := &itypes.TableMetadata{
		Columns:     f.columns,
		RowCount:    f.rows,
		ColumnCount: len(f.columns),
		Dtypes:      make(map[string]string, len(f.columns)),
	}

	results := &itypes.AnalysisResults{
		SummaryStatistics: map[string]itypes.NumericSummary{},
		MissingValues:     make(map[string]int64, len(f.columns)),
		UniqueValues:      make(map[string]int64, len(f.columns)),
		DataTypes:         make(map[string]string, len(f.columns)),
	}

	var memory int64

	for i, name := range f.columns {
		col := f.cols[i]
		dtype := inferDtype(col)
		meta.Dtypes[name] = dtype
		results.DataTypes[name] = dtype

		var missing int64

		distinct := map[string]struct{}{}

		for _, v := range col {
			memory += cellFootprint(v)

			if v == nil {
				missing++

				continue
			}

			distinct[*v] = struct{}{}
		}

		results.MissingValues[name] = missing
		results.UniqueValues[name] = int64(len(distinct))

		if !numericDtype(dtype) {
			continue
		}

		values := make([]float64, 0, len(col)-int(missing))

		for _, v := range col {
			if v == nil {
				continue
			}

			if x, err := strconv.ParseFloat(strings.TrimSpace(*v), 64); err == nil {
				values = append(values, x)
			}
		}

		results.SummaryStatistics[name] = numericSummary(values)
	}

	meta.MemoryUsage = memory

	return meta, results
}

// cellFootprint 单元格的估算内存占用.
func cellFootprint(v *string) int64 {
	const ptrSize = 8

	if v == nil {
		return ptrSize
	}

	return ptrSize + int64(len(*v))
}
