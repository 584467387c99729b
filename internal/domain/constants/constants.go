package constants

import "time"

// Chat va Context konstantalari
const (
	// DefaultMaxContextSize chat tarixida saqlanadigan max xabarlar soni
	DefaultMaxContextSize = 60

	// DefaultMaxHistoryMessages tarixda ko'rsatiladigan max xabarlar
	DefaultMaxHistoryMessages = 20
)

// AI Model konstantalari
const (
	// GeminiModelName Gemini AI model nomi
	GeminiModelName = "gemini-1.5-pro-latest"

	// AITemperature AI javob aniqlik darajasi (0.0-1.0)
	AITemperature = 0.3

	// AITopK Top-K sampling parametri
	AITopK = 20

	// AITopP Top-P sampling parametri
	AITopP = 0.9

	// MaxRetries AI ga so'rov yuborish uchun max urinishlar
	MaxRetries = 3

	// RetryDelay har bir urinish o'rtasidagi kutish vaqti
	RetryDelay = 10 * time.Second

	// SessionMaxIdleTime shundan uzoq ishlatilmagan chat sessiyalari o'chiriladi
	SessionMaxIdleTime     = 2 * time.Hour
	SessionCleanupInterval = 10 * time.Minute
)

// Katalog fayllari
const (
	DefaultDataDir       = "data"
	DefaultOrdersFile    = "tb_pedidos_clientes_segmentos_produtos.csv"
	DefaultPricesFile    = "precos.csv"
	DefaultPortfolioFile = "portfolio_oficial_2025_culturas.csv"
	DefaultCSVSeparator  = ";"

	// SimilarProductsLimit NPK bo'yicha o'xshash mahsulotlar soni
	SimilarProductsLimit = 3
)

// Xabar konstantalari
const (
	AgentName       = "AVI"
	CompanyName     = "Agrofel"
	DefaultVendor   = "Vendedor Padrão da Matriz"
	DefaultContext  = "Contexto geral da conversa."
	WelcomeMessage  = "Olá! Como posso ajudar você a encontrar o fertilizante ideal hoje?"
	AIErrorTemplate = "Desculpe, ocorreu um erro de comunicação com a IA. (Detalhe: %v)"
	SafetyFallback  = "Desculpe, não consegui responder a essa mensagem. Por favor, tente reformular sua pergunta."
)
