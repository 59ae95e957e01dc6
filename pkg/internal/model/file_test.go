package model

import (
	"strings"
	"testing"

	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

func fptr(v float64) *float64 { return &v }

// 多键 map 的产物文本必须逐次一致且键有序，
// 否则对同一输入的重复分析会产出不同的落库字节.
func TestArtifactSerializationStable(t *testing.T) {
	meta := &itypes.TableMetadata{
		Columns:     []string{"zeta", "alpha", "mid"},
		RowCount:    3,
		ColumnCount: 3,
		Dtypes: map[string]string{
			"zeta":  "integer",
			"alpha": "text",
			"mid":   "float",
		},
		MemoryUsage: 128,
	}

	results := &itypes.AnalysisResults{
		SummaryStatistics: map[string]itypes.NumericSummary{
			"zeta": {Mean: fptr(2), Median: fptr(2)},
			"mid":  {Mean: fptr(1.5)},
		},
		MissingValues: map[string]int64{"zeta": 0, "alpha": 1, "mid": 2},
		UniqueValues:  map[string]int64{"zeta": 3, "alpha": 2, "mid": 1},
		DataTypes: map[string]string{
			"zeta":  "integer",
			"alpha": "text",
			"mid":   "float",
		},
	}

	encode := func() (string, string) {
		var f File
		if err := f.SetMetadata(meta); err != nil {
			t.Fatalf("SetMetadata: %v", err)
		}

		if err := f.SetResults(results); err != nil {
			t.Fatalf("SetResults: %v", err)
		}

		return f.MetadataJSON, f.ResultsJSON
	}

	for i := 0; i < 20; i++ {
		m1, r1 := encode()
		m2, r2 := encode()

		if m1 != m2 {
			t.Fatalf("metadata serialization diverged:\n%s\n%s", m1, m2)
		}

		if r1 != r2 {
			t.Fatalf("results serialization diverged:\n%s\n%s", r1, r2)
		}
	}

	m, _ := encode()
	if strings.Index(m, `"alpha"`) > strings.Index(m, `"zeta"`) {
		t.Error("map keys are not sorted in serialized metadata")
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	var f File

	meta := &itypes.TableMetadata{
		Columns:     []string{"a"},
		RowCount:    1,
		ColumnCount: 1,
		Dtypes:      map[string]string{"a": "integer"},
	}

	if err := f.SetMetadata(meta); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}

	got, err := f.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}

	if got.RowCount != 1 || got.Dtypes["a"] != "integer" {
		t.Errorf("metadata round trip mismatch: %+v", got)
	}

	if err := f.SetMetadata(nil); err != nil {
		t.Fatalf("SetMetadata(nil): %v", err)
	}

	if f.MetadataJSON != "" {
		t.Error("nil metadata must clear the stored text")
	}
}
