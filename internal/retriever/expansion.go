package retriever

import (
	"strings"
)

// QueryCategory 查询扩展类别
// 由查询中的触发词决定，每个类别追加一组固定的同义词袋
type QueryCategory int

const (
	// CategoryGeneric 未命中任何触发词，追加通用领域词尾
	CategoryGeneric QueryCategory = iota
	// CategoryAbility 能力/素养类查询
	CategoryAbility
	// CategoryProficiency 熟练度/成绩类查询
	CategoryProficiency
	// CategoryParticipation 参与度类查询
	CategoryParticipation
)

// 各类别的固定同义词袋
// 扩展是规则驱动的确定性操作，同一查询永远得到同一扩展结果
const (
	abilityExpansion = "habilidade competência capacidade componente relação entre componentes " +
		"proximidade habilidades SPAECE DCRC BNCC avaliação proficiência competência geral " +
		"competência específica habilidade essencial descrição da habilidade caracterização " +
		"habilidade específica vinculação competência conexão componente relação dentro próprio " +
		"componente competências específicas descrições habilidades relações habilidades objeto " +
		"de conhecimento campo de experiência prática de linguagem percurso aprendizado progressão " +
		"sequência dependência pré-requisito hierarquia metodologia estratégia ensino objetivo " +
		"aprendizagem expectativa aprendizagem direito aprendizagem base nacional comum curricular " +
		"documento curricular referencial"

	proficiencyExpansion = "proficiência desempenho rendimento SPAECE DCRC BNCC avaliação " +
		"competência objetivo de aprendizagem competência específica"

	participationExpansion = "participação frequência presença SPAECE DCRC BNCC educação básica"

	genericExpansion = "educação avaliação SPAECE DCRC BNCC metodologia indicadores " +
		"competência geral competência específica habilidade essencial descrição habilidade"
)

// abilityKeywords 能力类查询的字面命中关键词集
// 稀疏向量在短文本上容易低估术语的字面命中，这组词用于主题加权补召回
var abilityKeywords = []string{
	"habilidade", "competência", "capacidade", "componente", "relação",
	"vinculação", "conexão", "descrição", "caracterização", "específica",
	"geral", "essencial", "dcrc", "documento curricular", "bncc",
	"base nacional comum curricular",
}

// Categorize 根据触发词判定查询类别
func Categorize(query string) QueryCategory {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "habilidade") || strings.Contains(q, "competência"):
		return CategoryAbility
	case strings.Contains(q, "proficiência") || strings.Contains(q, "desempenho"):
		return CategoryProficiency
	case strings.Contains(q, "participação"):
		return CategoryParticipation
	default:
		return CategoryGeneric
	}
}

// Expand 对查询做确定性的规则扩展
// 返回扩展后的查询文本和命中的类别
func Expand(query string) (string, QueryCategory) {
	category := Categorize(query)
	switch category {
	case CategoryAbility:
		return query + " " + abilityExpansion, category
	case CategoryProficiency:
		return query + " " + proficiencyExpansion, category
	case CategoryParticipation:
		return query + " " + participationExpansion, category
	default:
		return query + " " + genericExpansion, category
	}
}
