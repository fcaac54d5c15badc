package index

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/fyerfyer/edu-assess-rag/internal/corpus"
)

// 索引参数
const (
	// MaxFeatures 词表容量上限
	MaxFeatures = 1000
	// NgramMax 最大n-gram长度，词表由unigram和bigram构成
	NgramMax = 2
)

// Config 索引配置
type Config struct {
	MaxFeatures int // 词表容量上限
	NgramMax    int // 最大n-gram长度
}

// DefaultConfig 返回默认索引配置
func DefaultConfig() Config {
	return Config{
		MaxFeatures: MaxFeatures,
		NgramMax:    NgramMax,
	}
}

// SparseVector 稀疏向量，词表列号到权重的映射
type SparseVector map[int]float64

// Index TF-IDF相似度索引
// 构建后只读，绑定到构建时的块序列；重建产生全新的索引实例
type Index struct {
	vocabulary map[string]int // 词项到列号
	idf        []float64      // 每列的逆块频率权重
	vectors    []SparseVector // 每块一条L2归一化的稀疏行向量
	chunks     []corpus.Chunk // 构建来源的块序列
	ngramMax   int            // 构建时使用的最大n-gram长度
}

// Build 基于块序列构建TF-IDF索引
// 词表按语料内词频截断到上限，行向量L2归一化
// 空块序列返回nil哨兵值而不是错误
func Build(chunks []corpus.Chunk, cfg Config) *Index {
	if len(chunks) == 0 {
		return nil
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = MaxFeatures
	}
	if cfg.NgramMax <= 0 {
		cfg.NgramMax = NgramMax
	}

	// 统计每块的词项计数和全语料的词频/块频
	docCounts := make([]map[string]int, len(chunks))
	totalFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for i, chunk := range chunks {
		counts := termCounts(chunk.Text, cfg.NgramMax)
		docCounts[i] = counts
		for term, n := range counts {
			totalFreq[term] += n
			docFreq[term]++
		}
	}

	// 按语料词频降序选择词表，同频按字典序，保证构建确定性
	terms := make([]string, 0, len(totalFreq))
	for term := range totalFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(a, b int) bool {
		if totalFreq[terms[a]] != totalFreq[terms[b]] {
			return totalFreq[terms[a]] > totalFreq[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if len(terms) > cfg.MaxFeatures {
		terms = terms[:cfg.MaxFeatures]
	}

	vocabulary := make(map[string]int, len(terms))
	for col, term := range terms {
		vocabulary[term] = col
	}

	// 平滑idf：ln((1+n)/(1+df))+1
	n := float64(len(chunks))
	idf := make([]float64, len(terms))
	for col, term := range terms {
		idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	// 构造每块的tf-idf行向量并归一化
	vectors := make([]SparseVector, len(chunks))
	for i, counts := range docCounts {
		vec := make(SparseVector)
		for term, tf := range counts {
			if col, ok := vocabulary[term]; ok {
				vec[col] = float64(tf) * idf[col]
			}
		}
		vectors[i] = normalize(vec)
	}

	chunksCopy := make([]corpus.Chunk, len(chunks))
	copy(chunksCopy, chunks)

	return &Index{
		vocabulary: vocabulary,
		idf:        idf,
		vectors:    vectors,
		chunks:     chunksCopy,
		ngramMax:   cfg.NgramMax,
	}
}

// Chunks 返回索引绑定的块序列
func (idx *Index) Chunks() []corpus.Chunk {
	return idx.chunks
}

// VocabularySize 返回词表大小
func (idx *Index) VocabularySize() int {
	return len(idx.vocabulary)
}

// Vectorize 用索引词表向量化查询文本
// 按构建时的n-gram配置统计词项，不在词表内的词项被忽略
func (idx *Index) Vectorize(text string) SparseVector {
	counts := termCounts(text, idx.ngramMax)
	vec := make(SparseVector)
	for term, tf := range counts {
		if col, ok := idx.vocabulary[term]; ok {
			vec[col] = float64(tf) * idx.idf[col]
		}
	}
	return normalize(vec)
}

// Similarities 计算查询向量对每个块的余弦相似度
// 返回的切片与块序列一一对应
func (idx *Index) Similarities(query SparseVector) []float64 {
	sims := make([]float64, len(idx.vectors))
	for i, vec := range idx.vectors {
		sims[i] = dot(query, vec)
	}
	return sims
}

// dot 稀疏向量点积
// 两侧均已归一化，点积即余弦相似度
func dot(a, b SparseVector) float64 {
	// 遍历较小的一侧
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		if w2, ok := b[col]; ok {
			sum += w * w2
		}
	}
	return sum
}

// normalize L2归一化稀疏向量
func normalize(vec SparseVector) SparseVector {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for col, w := range vec {
		vec[col] = w / norm
	}
	return vec
}

// termCounts 统计文本的unigram/bigram词项计数
func termCounts(text string, ngramMax int) map[string]int {
	tokens := tokenize(text)
	counts := make(map[string]int)
	for _, tok := range tokens {
		counts[tok]++
	}
	if ngramMax >= 2 {
		for i := 0; i+1 < len(tokens); i++ {
			counts[tokens[i]+" "+tokens[i+1]]++
		}
	}
	return counts
}

// tokenize 分词：小写化后提取长度至少为2的字母数字串
// 按Unicode类别判断，葡萄牙语重音字符不会被切断
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
			continue
		}
		flushToken(&current, &tokens)
	}
	flushToken(&current, &tokens)
	return tokens
}

func flushToken(current *strings.Builder, tokens *[]string) {
	if current.Len() == 0 {
		return
	}
	tok := current.String()
	current.Reset()
	// 单字符词项信息量过低，丢弃
	if len([]rune(tok)) >= 2 {
		*tokens = append(*tokens, tok)
	}
}
