package corpus

import (
	"regexp"
	"unicode/utf8"
)

// sectionWindow 关键词命中时向前后各截取的字节数
const sectionWindow = 500

// Topic 主题标识
// 每个主题对应一组固定的领域关键词
type Topic string

// 主题关键词模式表
// 大小写不敏感的葡萄牙语关键词正则，覆盖方法论、指标、BNCC/DCRC专有主题等
var sectionPatterns = map[Topic]*regexp.Regexp{
	"metodologia":                    regexp.MustCompile(`(?i)(metodologia|método|procedimento)`),
	"indicadores":                    regexp.MustCompile(`(?i)(indicador|métrica|medida)`),
	"resultados":                     regexp.MustCompile(`(?i)(resultado|conclusão|achado)`),
	"recomendacoes":                  regexp.MustCompile(`(?i)(recomenda|sugestão|orientação)`),
	"tabelas":                        regexp.MustCompile(`(?i)(tabela|quadro|dados)`),
	"graficos":                       regexp.MustCompile(`(?i)(gráfico|figura|chart)`),
	"habilidades":                    regexp.MustCompile(`(?i)(habilidade|competência|capacidade)`),
	"componentes":                    regexp.MustCompile(`(?i)(componente|disciplina|área)`),
	"relacoes":                       regexp.MustCompile(`(?i)(relação|relacionamento|conexão|vinculação)`),
	"proficiencia":                   regexp.MustCompile(`(?i)(proficiência|desempenho|rendimento)`),
	"avaliacao":                      regexp.MustCompile(`(?i)(avaliação|teste|exame)`),
	"curriculo":                      regexp.MustCompile(`(?i)(currículo|conteúdo|programa)`),
	"bncc_competencias":              regexp.MustCompile(`(?i)(competência geral|competência específica|habilidade essencial)`),
	"bncc_campos":                    regexp.MustCompile(`(?i)(campo de experiência|área de conhecimento)`),
	"bncc_objetivos":                 regexp.MustCompile(`(?i)(objetivo de aprendizagem|expectativa de aprendizagem)`),
	"bncc_etapas":                    regexp.MustCompile(`(?i)(educação infantil|ensino fundamental|ensino médio)`),
	"bncc_areas":                     regexp.MustCompile(`(?i)(linguagens|matemática|ciências|humanas)`),
	"bncc_objetivos_gerais":          regexp.MustCompile(`(?i)(objetivo geral|finalidade|propósito)`),
	"bncc_principios":                regexp.MustCompile(`(?i)(princípio|fundamento|base)`),
	"bncc_organizacao":               regexp.MustCompile(`(?i)(organização|estrutura|distribuição)`),
	"bncc_avaliacao":                 regexp.MustCompile(`(?i)(avaliação formativa|avaliação diagnóstica|avaliação somativa)`),
	"dcrc_competencias_especificas":  regexp.MustCompile(`(?i)(competência específica|habilidade específica|descrição da habilidade)`),
	"dcrc_descricoes_habilidades":    regexp.MustCompile(`(?i)(descrição|caracterização|definição.*habilidade)`),
	"dcrc_relacoes_habilidades":      regexp.MustCompile(`(?i)(relação.*habilidade|vinculação.*competência|conexão.*componente)`),
}

// ExtractSections 从语料中提取主题相关的上下文片段
// 每次关键词命中都截取前后各500字节的窗口并归入对应主题
// 同一段文本命中多个主题会被重复收录；没有命中的主题不出现在结果中
func ExtractSections(text string) map[Topic][]string {
	sections := make(map[Topic][]string)

	for topic, pattern := range sectionPatterns {
		matches := pattern.FindAllStringIndex(text, -1)
		for _, m := range matches {
			start := m[0] - sectionWindow
			if start < 0 {
				start = 0
			}
			end := m[1] + sectionWindow
			if end > len(text) {
				end = len(text)
			}

			start = snapRuneStart(text, start)
			end = snapRuneStart(text, end)

			sections[topic] = append(sections[topic], text[start:end])
		}
	}

	return sections
}

// snapRuneStart 将字节偏移对齐到UTF-8字符边界
// 窗口截断落在多字节字符中间时向前收缩，避免产生非法文本
func snapRuneStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
