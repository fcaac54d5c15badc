package corpus

import (
	"regexp"
	"strings"
)

const (
	// tableSectionLimit 只检查语料末尾的若干结构段，表格数据集中在文档结尾
	tableSectionLimit = 5
	// tableTokenLimit 每个候选保留的数字串上限
	tableTokenLimit = 10
	// tableExcerptLimit 摘录文本的字节上限
	tableExcerptLimit = 200
)

// numericRunPattern 连续数字串模式，匹配整数、小数及其空白分隔的序列
var numericRunPattern = regexp.MustCompile(`\d+(?:\.\d+)?(?:\s+\d+(?:\.\d+)?)*`)

// TableCandidate 数字数据块候选
// 结构启发式的产物，不是完整的表格解析结果：参考文档本身是非结构化散文
type TableCandidate struct {
	NumericTokens []string // 命中的数字串，最多10个
	Excerpt       string   // 所在段落的摘录，最多200字节
}

// ExtractTables 在语料末尾启发式定位数字数据块
// 按结构分隔符切分，仅扫描最后5段，命中数字串即产出候选
func ExtractTables(text string) []TableCandidate {
	sections := strings.Split(text, "\n---")
	if len(sections) > tableSectionLimit {
		sections = sections[len(sections)-tableSectionLimit:]
	}

	var candidates []TableCandidate
	for _, section := range sections {
		matches := numericRunPattern.FindAllString(section, -1)
		if len(matches) == 0 {
			continue
		}

		if len(matches) > tableTokenLimit {
			matches = matches[:tableTokenLimit]
		}

		excerpt := section
		if len(excerpt) > tableExcerptLimit {
			cut := snapRuneStart(excerpt, tableExcerptLimit)
			excerpt = excerpt[:cut] + "..."
		}

		candidates = append(candidates, TableCandidate{
			NumericTokens: matches,
			Excerpt:       excerpt,
		})
	}

	return candidates
}
