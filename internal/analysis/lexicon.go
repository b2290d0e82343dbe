// Package analysis 实现会话分类、参与度分析与跨会话聚合。
// 所有函数都是对内存数据的纯计算，不做任何 I/O。
package analysis

// 词表是进程级的只读静态数据：启动后不再变更，
// 可以被任意数量的并发请求无锁共享。

// 情感词表（葡萄牙语客服场景）。
var (
	positiveWords = []string{
		"bom", "boa", "ótimo", "otimo", "ótima", "otima", "excelente",
		"obrigado", "obrigada", "perfeito", "perfeita", "maravilhoso",
		"maravilhosa", "adorei", "gostei", "legal", "satisfeito", "satisfeita",
	}
	negativeWords = []string{
		"ruim", "péssimo", "pessimo", "péssima", "pessima", "problema",
		"erro", "falha", "frustrado", "frustrada", "horrível", "horrivel",
		"insatisfeito", "insatisfeita", "demora", "absurdo", "nunca",
	}
)

// intentCategory 将一个意图类别绑定到它的单词和短语触发器。
// 单词按整词匹配计 1 分，短语按子串匹配计 2 分。
type intentCategory struct {
	Name     string
	Keywords []string
	Phrases  []string
}

// intentCategories 的声明顺序即平分时的优先级：先声明者胜出。
var intentCategories = []intentCategory{
	{
		Name:     "support",
		Keywords: []string{"ajuda", "suporte", "problema", "erro", "dúvida", "duvida", "falha"},
		Phrases:  []string{"não funciona", "nao funciona", "preciso de ajuda", "não consigo", "nao consigo"},
	},
	{
		Name:     "purchase",
		Keywords: []string{"comprar", "preço", "preco", "valor", "produto", "pedido", "orçamento", "orcamento"},
		Phrases:  []string{"quero comprar", "quanto custa", "fazer um pedido"},
	},
	{
		Name:     "information",
		Keywords: []string{"informação", "informacao", "saber", "como", "quando", "onde", "horário", "horario"},
		Phrases:  []string{"gostaria de saber", "mais informações", "mais informacoes"},
	},
	{
		Name:     "complaint",
		Keywords: []string{"reclamação", "reclamacao", "insatisfeito", "insatisfeita", "péssimo", "pessimo", "absurdo", "demora"},
		Phrases:  []string{"quero reclamar", "muito insatisfeito", "muito insatisfeita"},
	},
	{
		Name:     "compliment",
		Keywords: []string{"parabéns", "parabens", "excelente", "ótimo", "otimo", "adorei", "gostei"},
		Phrases:  []string{"muito bom", "muito boa", "adorei o atendimento"},
	},
	{
		Name:     "booking",
		Keywords: []string{"agendar", "reservar", "marcar", "agendamento", "reserva"},
		Phrases:  []string{"quero agendar", "marcar um horário", "marcar um horario"},
	},
	{
		Name:     "cancellation",
		Keywords: []string{"cancelar", "cancelamento", "desistir", "estornar", "estorno", "reembolso"},
		Phrases:  []string{"quero cancelar", "cancelar meu pedido", "pedir reembolso"},
	},
}

// topicCategory 将一个主题类别绑定到它的整词触发器。
type topicCategory struct {
	Name     string
	Keywords []string
}

// topicCategories 定义主题归类的词表；命中任一整词即归入该主题。
var topicCategories = []topicCategory{
	{Name: "product", Keywords: []string{"produto", "produtos", "item", "itens", "modelo", "catálogo", "catalogo"}},
	{Name: "delivery", Keywords: []string{"entrega", "envio", "frete", "rastreamento", "prazo", "correios"}},
	{Name: "payment", Keywords: []string{"pagamento", "pagar", "boleto", "pix", "cartão", "cartao", "fatura", "parcela"}},
	{Name: "account", Keywords: []string{"conta", "cadastro", "senha", "login", "perfil", "email"}},
	{Name: "technical", Keywords: []string{"erro", "bug", "falha", "sistema", "aplicativo", "app", "site"}},
	{Name: "support", Keywords: []string{"ajuda", "suporte", "atendimento", "atendente"}},
}

// TopicGeneral 是没有任何主题词命中时的兜底主题。
const TopicGeneral = "general"
