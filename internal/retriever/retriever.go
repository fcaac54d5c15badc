package retriever

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/edu-assess-rag/internal/corpus"
	"github.com/fyerfyer/edu-assess-rag/internal/index"
)

const (
	// DefaultTopK 默认返回结果数
	DefaultTopK = 5
	// scoreThreshold 主检索通道的相似度下限，严格大于才保留
	scoreThreshold = 0.05
	// boostScore 主题加权补召回的合成分数
	boostScore = 0.4
	// fallbackScore 关键词兜底检索的合成分数
	fallbackScore = 0.3
)

// Result 检索结果
// 仅在单次检索调用内有效
type Result struct {
	Chunk      corpus.Chunk  // 命中的块
	Score      float64       // 相似度分数，范围[-1,1]
	Provenance corpus.Source // 来源标签，永不为空
}

// Retriever 多阶段排序检索器
// 本身无状态，索引由调用方持有并显式传入
type Retriever struct {
	logger *logrus.Logger
}

// New 创建检索器
func New(logger *logrus.Logger) *Retriever {
	if logger == nil {
		logger = logrus.New()
	}
	return &Retriever{logger: logger}
}

// Search 对加载好的索引执行查询
// 流程：查询扩展 -> 余弦排序 -> 能力类主题加权 -> 关键词兜底 -> 来源标注
// 任何情况下都不返回错误：索引为nil或无命中时返回空列表
func (r *Retriever) Search(idx *index.Index, query string, topK int) []Result {
	if idx == nil {
		return []Result{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	expanded, category := Expand(query)

	results := r.rankBySimilarity(idx, expanded, topK)

	boosted := false
	if category == CategoryAbility {
		results = r.boostAbilityChunks(idx, results, topK)
		boosted = true
	}

	if len(results) == 0 && !boosted {
		results = r.keywordFallback(idx, query, topK)
	}

	r.logger.WithFields(logrus.Fields{
		"query":    query,
		"category": category,
		"results":  len(results),
	}).Debug("Retrieval completed")

	return results
}

// rankBySimilarity 主检索通道
// 余弦相似度降序排序，稳定排序保证同分时按块序保留，严格大于阈值才入选
func (r *Retriever) rankBySimilarity(idx *index.Index, expandedQuery string, topK int) []Result {
	queryVec := idx.Vectorize(expandedQuery)
	sims := idx.Similarities(queryVec)
	chunks := idx.Chunks()

	order := make([]int, len(sims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})

	results := make([]Result, 0, topK)
	for _, i := range order {
		if len(results) >= topK {
			break
		}
		if !aboveThreshold(sims[i]) {
			// 降序遍历，低于阈值后不会再有入选项
			break
		}
		results = append(results, Result{
			Chunk:      chunks[i],
			Score:      sims[i],
			Provenance: tagProvenance(chunks[i]),
		})
	}
	return results
}

// aboveThreshold 判断相似度是否超过主通道下限
// 等于下限不入选，必须严格大于
func aboveThreshold(score float64) bool {
	return score > scoreThreshold
}

// boostAbilityChunks 能力类查询的主题加权补召回
// 字面扫描所有块，命中关键词且尚未入选的块以合成分数0.4追加
// 结果总数最多放宽到2倍topK
func (r *Retriever) boostAbilityChunks(idx *index.Index, results []Result, topK int) []Result {
	present := make(map[int]bool, len(results))
	for _, res := range results {
		present[res.Chunk.Index] = true
	}

	for _, chunk := range idx.Chunks() {
		if len(results) >= topK*2 {
			break
		}
		if present[chunk.Index] {
			continue
		}
		text := strings.ToLower(chunk.Text)
		for _, kw := range abilityKeywords {
			if strings.Contains(text, kw) {
				results = append(results, Result{
					Chunk:      chunk,
					Score:      boostScore,
					Provenance: tagProvenance(chunk),
				})
				present[chunk.Index] = true
				break
			}
		}
	}
	return results
}

// keywordFallback 关键词兜底检索
// 主通道无命中时按原始查询分词做字面包含匹配，合成分数0.3
func (r *Retriever) keywordFallback(idx *index.Index, query string, topK int) []Result {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return []Result{}
	}

	var results []Result
	for _, chunk := range idx.Chunks() {
		if len(results) >= topK {
			break
		}
		text := strings.ToLower(chunk.Text)
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				results = append(results, Result{
					Chunk:      chunk,
					Score:      fallbackScore,
					Provenance: tagProvenance(chunk),
				})
				break
			}
		}
	}
	return results
}

// tagProvenance 两级来源标注
// 先查块文本中的显式来源标记，找不到时按块序号奇偶性在两个来源间均分
// 每个结果无一例外都会得到来源标签
func tagProvenance(chunk corpus.Chunk) corpus.Source {
	if src, ok := corpus.DetectSource(chunk.Text); ok {
		return src
	}
	return corpus.SourceByParity(chunk.Index)
}
