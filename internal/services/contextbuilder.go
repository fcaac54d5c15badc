package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fyerfyer/edu-assess-rag/internal/corpus"
	"github.com/fyerfyer/edu-assess-rag/internal/retriever"
)

// ContextBuilder 将检索结果拼装为下游提示词可用的上下文文本
// 拼装是纯文本操作，不做任何生成，输出长度有上限
type ContextBuilder struct {
	maxChars int // 输出字符数上限
}

// NewContextBuilder 创建上下文拼装器
func NewContextBuilder(maxChars int) *ContextBuilder {
	if maxChars <= 0 {
		maxChars = 8000
	}
	return &ContextBuilder{maxChars: maxChars}
}

// Build 拼装上下文
// 检索结果带来源和分数标注，随后是主题片段和数字数据摘要，超限时截断
func (b *ContextBuilder) Build(results []retriever.Result, sections map[corpus.Topic][]string, tables []corpus.TableCandidate) string {
	var sb strings.Builder

	if len(results) > 0 {
		sb.WriteString("TRECHOS RELEVANTES DOS DOCUMENTOS DE REFERÊNCIA:\n\n")
		for i, res := range results {
			sb.WriteString(fmt.Sprintf("[%d] FONTE: %s (relevância %.2f)\n", i+1, res.Provenance, res.Score))
			sb.WriteString(strings.TrimSpace(res.Chunk.Text))
			sb.WriteString("\n\n")
		}
	}

	if len(sections) > 0 {
		// map遍历顺序不确定，按主题名排序保证输出稳定
		topics := make([]corpus.Topic, 0, len(sections))
		for topic := range sections {
			topics = append(topics, topic)
		}
		sort.Slice(topics, func(a, b int) bool { return topics[a] < topics[b] })

		sb.WriteString("SEÇÕES TEMÁTICAS:\n")
		for _, topic := range topics {
			excerpts := sections[topic]
			if len(excerpts) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("[%s] %s\n", topic, strings.TrimSpace(excerpts[0])))
		}
		sb.WriteString("\n")
	}

	if len(tables) > 0 {
		sb.WriteString("DADOS NUMÉRICOS IDENTIFICADOS:\n")
		for _, t := range tables {
			sb.WriteString("- ")
			sb.WriteString(strings.Join(t.NumericTokens, " "))
			sb.WriteString("\n")
		}
	}

	return b.truncate(strings.TrimSpace(sb.String()))
}

// truncate 按字符数截断文本
// range迭代天然落在UTF-8字符边界上，不会截出非法文本
func (b *ContextBuilder) truncate(text string) string {
	if len([]rune(text)) <= b.maxChars {
		return text
	}

	runes := 0
	cut := len(text)
	for i := range text {
		if runes == b.maxChars {
			cut = i
			break
		}
		runes++
	}
	return text[:cut] + "..."
}
