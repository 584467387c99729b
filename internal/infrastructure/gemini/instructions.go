package gemini

import (
	"strings"

	"github.com/agrofel/sales-agent/internal/domain/constants"
)

// PersonaInstruction har bir xabar oldidan qo'yiladigan AVI persona matni
const PersonaInstruction = `Você é um agente comercial especialista da Agrofel, uma empresa de fertilizantes.
Sua personalidade é prestativa, técnica e amigável.
Seu nome é AVI. Ao se apresentar, diga que você é o AVI, o assistente virtual especialista da Agrofel.
Seu objetivo é ajudar os clientes a encontrar produtos, montar um pedido e encaminhá-los ao vendedor correto.
Responda em português do Brasil.`

// BuildPrompt joins the persona, the conversation context and the customer message.
func BuildPrompt(contextText, message string) string {
	if strings.TrimSpace(contextText) == "" {
		contextText = constants.DefaultContext
	}

	var sb strings.Builder
	sb.WriteString(PersonaInstruction)
	sb.WriteString("\n\nContexto atual da conversa:\n")
	sb.WriteString(contextText)
	sb.WriteString("\n\nResponda à seguinte mensagem do cliente:\n")
	sb.WriteString(message)
	return sb.String()
}
