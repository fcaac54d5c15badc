package document

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Parser 参考文档解析器接口
// 将不同格式的参考文档（BNCC/DCRC）解析为纯文本，供语料加载使用
type Parser interface {
	// Parse 解析文档文件，返回文本内容
	Parse(filePath string) (string, error)

	// ParseReader 从Reader解析文档，filename用于确定文档类型
	ParseReader(r io.Reader, filename string) (string, error)
}

// ErrUnsupportedType 不支持的文档类型
var ErrUnsupportedType = errors.New("unsupported document type")

// ParserFor 根据文件名创建对应的解析器
// 参考文档目前以Markdown分发，早期版本为PDF，两者都支持
func ParserFor(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return NewMarkdownParser(), nil
	case ".pdf":
		return NewPDFParser(), nil
	case ".txt":
		return NewPlainTextParser(), nil
	default:
		return nil, ErrUnsupportedType
	}
}

// normalizeWhitespace 规范化文本中的空白符
// 行内连续空白压缩为单个空格，连续空行压缩为一个
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = strings.Join(lines, "\n")

	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}
