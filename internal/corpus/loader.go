package corpus

import (
	"strings"
)

// Source 参考文档来源
type Source string

const (
	// SourceBNCC 国家课程基础文件（Base Nacional Comum Curricular）
	SourceBNCC Source = "BNCC"
	// SourceDCRC 塞阿拉州课程参考文件（Documento Curricular Referencial do Ceará）
	SourceDCRC Source = "DCRC"
)

// 来源标记关键词
// 块文本中出现这些关键词时可以直接判定来源，无需依赖位置信息
var (
	bnccMarkers = []string{"BNCC", "Base Nacional Comum Curricular", "BNCC_20dez_site"}
	dcrcMarkers = []string{"DCRC", "Documento Curricular Referencial"}
)

// Combine 将两份参考文档合并为带来源标记的语料
// 标记内嵌在文本中，保证仅凭文本内容即可推断来源
func Combine(dcrcText, bnccText string) string {
	var b strings.Builder
	b.WriteString("DCRC:\n")
	b.WriteString(dcrcText)
	b.WriteString("\n\nBNCC:\n")
	b.WriteString(bnccText)
	return b.String()
}

// DetectSource 根据块文本内容判定来源
// 找不到显式标记时返回false，由调用方用块序号的奇偶性兜底
func DetectSource(text string) (Source, bool) {
	for _, m := range bnccMarkers {
		if strings.Contains(text, m) {
			return SourceBNCC, true
		}
	}
	for _, m := range dcrcMarkers {
		if strings.Contains(text, m) {
			return SourceDCRC, true
		}
	}
	if strings.Contains(strings.ToLower(text), "dcrc") {
		return SourceDCRC, true
	}
	return "", false
}

// SourceByParity 按块序号奇偶性分配来源
// 两份文档拼接后无法定位的块在两个来源间均分
func SourceByParity(index int) Source {
	if index%2 == 0 {
		return SourceBNCC
	}
	return SourceDCRC
}
