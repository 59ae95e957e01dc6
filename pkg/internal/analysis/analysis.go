// Package analysis 实现表格文件的统计分析引擎.
// 引擎是 (字节流, 声明类型) → (元数据, 结果) 的纯函数，
// 除读取输入外不做任何 I/O，也不接触数据库.
//
// Example:
//
//	import "github.com/yeisme/tablevault/pkg/internal/analysis"
//
//	meta, results, err := analysis.Analyze(reader, analysis.KindCSV)
//	if err != nil {
//		var pe *analysis.ParseError
//		if errors.As(err, &pe) {
//			// 解码错误文本原样入库
//		}
//	}
package analysis

import (
	"errors"
	"fmt"
	"io"
	"strings"

	itypes "github.com/yeisme/tablevault/pkg/internal/types"
)

// Kind 声明的文件类型，闭集.
type Kind string

const (
	// KindCSV 逗号分隔文本.
	KindCSV Kind = "csv"
	// KindXLSX Excel 2007+ 工作簿.
	KindXLSX Kind = "xlsx"
	// KindXLS 旧版 Excel 工作簿，按 xlsx 同路径解析.
	KindXLS Kind = "xls"
	// KindJSON 对象数组或列式对象.
	KindJSON Kind = "json"
	// KindTXT 纯文本，可上传存储，但引擎不解析.
	KindTXT Kind = "txt"
)

// ErrUnsupportedType 声明类型不在支持集合内.
var ErrUnsupportedType = errors.New("unsupported file type")

// ParseError 输入无法按声明类型解码.
// Error 文本来自底层解码器，原样返回.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// parseErrorf 构造带格式化消息的 ParseError.
func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Err: fmt.Errorf(format, args...)}
}

// ParseKind 从声明类型字符串解析 Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimPrefix(s, "."))); k {
	case KindCSV, KindXLSX, KindXLS, KindJSON, KindTXT:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
}

// Analyze 读取 r 的全部内容并按 kind 解析为矩形表，
// 返回结构元数据与每列统计结果.
// 对同一输入重复调用结果逐位一致.
func Analyze(r io.Reader, kind Kind) (*itypes.TableMetadata, *itypes.AnalysisResults, error) {
	var (
		f   *frame
		err error
	)

	switch kind {
	case KindCSV:
		f, err = loadDelimited(r, ',')
	case KindXLSX, KindXLS:
		f, err = loadExcel(r)
	case KindJSON:
		f, err = loadJSON(r)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedType, kind)
	}

	if err != nil {
		return nil, nil, err
	}

	meta, results := summarize(f)

	return meta, results, nil
}
