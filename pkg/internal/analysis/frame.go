package analysis

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic/decoder"
	"github.com/xuri/excelize/v2"
)

// frame 列主序的矩形表.
// cols[i] 与 columns[i] 对齐，单元格 nil 表示缺失.
type frame struct {
	columns []string
	cols    [][]*string
	rows    int64
}

// missingTokens 视为缺失值的字面量.
var missingTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"null": {},
	"none": {},
	"na":   {},
	"n/a":  {},
}

// cell 归一化单元格：缺失标记转为 nil.
func cell(raw string) *string {
	if _, ok := missingTokens[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return nil
	}

	return &raw
}

// fromRows 以首行为表头构建 frame，短行右侧补缺失.
func fromRows(records [][]string) (*frame, error) {
	if len(records) == 0 {
		return nil, parseErrorf("no columns to parse from file")
	}

	header := records[0]
	f := &frame{
		columns: make([]string, len(header)),
		cols:    make([][]*string, len(header)),
		rows:    int64(len(records) - 1),
	}

	copy(f.columns, header)

	for i := range f.cols {
		f.cols[i] = make([]*string, 0, f.rows)
	}

	for _, rec := range records[1:] {
		for i := range f.columns {
			if i < len(rec) {
				f.cols[i] = append(f.cols[i], cell(rec[i]))
			} else {
				f.cols[i] = append(f.cols[i], nil)
			}
		}
	}

	return f, nil
}

// loadDelimited 按固定分隔符解析.
func loadDelimited(r io.Reader, sep rune) (*frame, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return fromRows(records)
}

// loadExcel 解析工作簿第一个工作表.
func loadExcel(r io.Reader) (*frame, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseErrorf("workbook has no sheets")
	}

	records, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return fromRows(records)
}

// loadJSON 解析对象数组或列式对象.
// 列名按字典序排序以保证确定性.
func loadJSON(r io.Reader) (*frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var root any

	dec := decoder.NewDecoder(string(data))
	dec.UseNumber()

	if err := dec.Decode(&root); err != nil {
		return nil, &ParseError{Err: err}
	}

	switch v := root.(type) {
	case []any:
		return jsonRecords(v)
	case map[string]any:
		return jsonColumnar(v)
	default:
		return nil, parseErrorf("json root must be an array of objects or a columnar object")
	}
}

// jsonRecords 对象数组 → 行集合.
func jsonRecords(items []any) (*frame, error) {
	set := map[string]struct{}{}

	objs := make([]map[string]any, 0, len(items))

	for i, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			return nil, parseErrorf("json array element %d is not an object", i)
		}

		for k := range obj {
			set[k] = struct{}{}
		}

		objs = append(objs, obj)
	}

	columns := make([]string, 0, len(set))
	for k := range set {
		columns = append(columns, k)
	}

	sort.Strings(columns)

	f := &frame{
		columns: columns,
		cols:    make([][]*string, len(columns)),
		rows:    int64(len(objs)),
	}

	for i := range f.cols {
		f.cols[i] = make([]*string, 0, f.rows)
	}

	for _, obj := range objs {
		for i, col := range columns {
			raw, ok := obj[col]
			if !ok {
				f.cols[i] = append(f.cols[i], nil)

				continue
			}

			s, err := scalarString(raw)
			if err != nil {
				return nil, err
			}

			if s == nil {
				f.cols[i] = append(f.cols[i], nil)
			} else {
				f.cols[i] = append(f.cols[i], cell(*s))
			}
		}
	}

	return f, nil
}

// jsonColumnar 列式对象 → 等长列集合.
func jsonColumnar(obj map[string]any) (*frame, error) {
	if len(obj) == 0 {
		return nil, parseErrorf("no columns to parse from file")
	}

	columns := make([]string, 0, len(obj))
	for k := range obj {
		columns = append(columns, k)
	}

	sort.Strings(columns)

	f := &frame{
		columns: columns,
		cols:    make([][]*string, len(columns)),
	}

	for i, col := range columns {
		arr, ok := obj[col].([]any)
		if !ok {
			return nil, parseErrorf("json column %q is not an array", col)
		}

		if i == 0 {
			f.rows = int64(len(arr))
		} else if int64(len(arr)) != f.rows {
			return nil, parseErrorf("json column %q length %d does not match %d", col, len(arr), f.rows)
		}

		f.cols[i] = make([]*string, 0, len(arr))

		for _, raw := range arr {
			s, err := scalarString(raw)
			if err != nil {
				return nil, err
			}

			if s == nil {
				f.cols[i] = append(f.cols[i], nil)
			} else {
				f.cols[i] = append(f.cols[i], cell(*s))
			}
		}
	}

	return f, nil
}

// scalarString 将 JSON 标量转为单元格文本，null 转为缺失.
func scalarString(v any) (*string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &t, nil
	case bool:
		s := strconv.FormatBool(t)

		return &s, nil
	default:
		// UseNumber 下数值为 json.Number，实现 fmt.Stringer
		if n, ok := v.(interface{ String() string }); ok {
			s := n.String()

			return &s, nil
		}

		return nil, parseErrorf("json value %v is not a scalar", v)
	}
}
