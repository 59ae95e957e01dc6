package analysis

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/xuri/excelize/v2"
)

func TestAnalyzeCSVWithMissingNumeric(t *testing.T) {
	csvData := "name,score,city\nalice,90,beijing\nbob,,shanghai\ncarol,75,beijing\ndave,60,shenzhen\n"

	meta, results, err := Analyze(strings.NewReader(csvData), KindCSV)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if meta.RowCount != 4 {
		t.Errorf("row_count = %d, want 4", meta.RowCount)
	}

	if meta.ColumnCount != 3 {
		t.Errorf("column_count = %d, want 3", meta.ColumnCount)
	}

	if got := results.MissingValues["score"]; got != 1 {
		t.Errorf("score missing_count = %d, want 1", got)
	}

	if got := results.UniqueValues["score"]; got != 3 {
		t.Errorf("score unique_count = %d, want 3", got)
	}

	if meta.Dtypes["score"] != "integer" {
		t.Errorf("score dtype = %q, want integer", meta.Dtypes["score"])
	}

	if meta.Dtypes["name"] != "text" {
		t.Errorf("name dtype = %q, want text", meta.Dtypes["name"])
	}

	sum, ok := results.SummaryStatistics["score"]
	if !ok {
		t.Fatal("score has no summary")
	}

	if sum.Mean == nil || *sum.Mean != 75 {
		t.Errorf("score mean = %v, want 75", sum.Mean)
	}

	// 非数值列不得出现摘要对象
	if _, ok := results.SummaryStatistics["name"]; ok {
		t.Error("text column must not carry a summary")
	}
}

func TestAnalyzeSummaryOrdering(t *testing.T) {
	csvData := "v\n3\n1\n4\n1\n5\n9\n2\n6\n"

	_, results, err := Analyze(strings.NewReader(csvData), KindCSV)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	s := results.SummaryStatistics["v"]
	if s.Q25 == nil || s.Median == nil || s.Q75 == nil {
		t.Fatal("quantiles missing")
	}

	if !(*s.Q25 <= *s.Median && *s.Median <= *s.Q75) {
		t.Errorf("quantile ordering violated: q25=%v median=%v q75=%v", *s.Q25, *s.Median, *s.Q75)
	}

	if !(*s.Min <= *s.Mean && *s.Mean <= *s.Max) {
		t.Errorf("mean out of bounds: min=%v mean=%v max=%v", *s.Min, *s.Mean, *s.Max)
	}
}

func TestAnalyzeAllNullColumn(t *testing.T) {
	csvData := "a,b\n1,\n2,\n3,\n"

	meta, results, err := Analyze(strings.NewReader(csvData), KindCSV)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if meta.Dtypes["b"] != "float" {
		t.Errorf("all-null dtype = %q, want float", meta.Dtypes["b"])
	}

	sum, ok := results.SummaryStatistics["b"]
	if !ok {
		t.Fatal("all-null numeric column must still carry a summary object")
	}

	if sum.Mean != nil || sum.Median != nil || sum.Std != nil || sum.Min != nil || sum.Max != nil {
		t.Errorf("all-null summary must be entirely null: %+v", sum)
	}

	if got := results.MissingValues["b"]; got != 3 {
		t.Errorf("b missing_count = %d, want 3", got)
	}
}

func TestAnalyzeSingleValueStd(t *testing.T) {
	_, results, err := Analyze(strings.NewReader("x\n42\n"), KindCSV)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	s := results.SummaryStatistics["x"]
	if s.Std != nil {
		t.Errorf("sample stddev of n=1 must be null, got %v", *s.Std)
	}

	if s.Mean == nil || *s.Mean != 42 {
		t.Errorf("mean = %v, want 42", s.Mean)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	csvData := "a,b,c\n1,x,2.5\n2,y,\n3,z,7.5\n"

	// 产物入库用的序列化配置同款：map 键排序
	enc := sonic.Config{SortMapKeys: true}.Froze()

	run := func() string {
		meta, results, err := Analyze(strings.NewReader(csvData), KindCSV)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		mb, err := enc.MarshalToString(meta)
		if err != nil {
			t.Fatalf("marshal metadata: %v", err)
		}

		rb, err := enc.MarshalToString(results)
		if err != nil {
			t.Fatalf("marshal results: %v", err)
		}

		return mb + rb
	}

	if run() != run() {
		t.Error("repeated analysis of identical input diverged")
	}
}

func TestAnalyzeJSONRecords(t *testing.T) {
	jsonData := `[{"a":1,"b":"x"},{"a":2,"b":"y"},{"a":null,"b":"x"}]`

	meta, results, err := Analyze(strings.NewReader(jsonData), KindJSON)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if meta.RowCount != 3 {
		t.Errorf("row_count = %d, want 3", meta.RowCount)
	}

	if got := results.MissingValues["a"]; got != 1 {
		t.Errorf("a missing_count = %d, want 1", got)
	}

	if got := results.UniqueValues["b"]; got != 2 {
		t.Errorf("b unique_count = %d, want 2", got)
	}
}

func TestAnalyzeJSONColumnar(t *testing.T) {
	jsonData := `{"a":[1,2,3],"b":["x","y","z"]}`

	meta, _, err := Analyze(strings.NewReader(jsonData), KindJSON)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if meta.RowCount != 3 || meta.ColumnCount != 2 {
		t.Errorf("shape = %dx%d, want 3x2", meta.RowCount, meta.ColumnCount)
	}

	if meta.Dtypes["a"] != "integer" {
		t.Errorf("a dtype = %q, want integer", meta.Dtypes["a"])
	}
}

func TestAnalyzeJSONColumnLengthMismatch(t *testing.T) {
	_, _, err := Analyze(strings.NewReader(`{"a":[1,2],"b":[1]}`), KindJSON)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError, got %v", err)
	}
}

func TestAnalyzeTXTUnsupported(t *testing.T) {
	// txt 在上传白名单内，但引擎不解析
	_, _, err := Analyze(strings.NewReader("a\tb\n1\tx\n"), KindTXT)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Analyze(txt) = %v, want ErrUnsupportedType", err)
	}
}

func TestAnalyzeExcel(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)

	rows := [][]any{
		{"name", "value"},
		{"a", 1},
		{"b", 2},
		{"c", 3},
	}
	for i, row := range rows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("Write workbook: %v", err)
	}

	meta, results, err := Analyze(&buf, KindXLSX)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if meta.RowCount != 3 {
		t.Errorf("row_count = %d, want 3", meta.RowCount)
	}

	if meta.Dtypes["value"] != "integer" {
		t.Errorf("value dtype = %q, want integer", meta.Dtypes["value"])
	}

	if got := results.UniqueValues["name"]; got != 3 {
		t.Errorf("name unique_count = %d, want 3", got)
	}
}

func TestAnalyzeDatetimeDtype(t *testing.T) {
	csvData := "d\n2024-01-01\n2024-06-15\n"

	meta, results, err := Analyze(strings.NewReader(csvData), KindCSV)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if meta.Dtypes["d"] != "datetime" {
		t.Errorf("d dtype = %q, want datetime", meta.Dtypes["d"])
	}

	if _, ok := results.SummaryStatistics["d"]; ok {
		t.Error("datetime column must not carry a numeric summary")
	}
}

func TestAnalyzeParseError(t *testing.T) {
	// 行字段数不一致
	_, _, err := Analyze(strings.NewReader("a,b\n1,2,3\n"), KindCSV)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError, got %v", err)
	}

	if pe.Error() == "" {
		t.Error("decoder text must be carried verbatim")
	}
}

func TestAnalyzeUnsupportedType(t *testing.T) {
	_, _, err := Analyze(strings.NewReader("x"), Kind("pdf"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("want ErrUnsupportedType, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, ok := range []string{"csv", "XLSX", ".xls", "json", "txt"} {
		if _, err := ParseKind(ok); err != nil {
			t.Errorf("ParseKind(%q) failed: %v", ok, err)
		}
	}

	if _, err := ParseKind("exe"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("ParseKind(exe) = %v, want ErrUnsupportedType", err)
	}
}
