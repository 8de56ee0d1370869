package usecase

import (
	"fmt"
	"strings"

	"swissvote/internal/domain"
	"swissvote/internal/port"
)

const systemPromptDE = `Du bist ein hilfreicher Assistent für Schweizer Volksabstimmungen.

Deine Aufgabe:
- Informiere objektiv über anstehende Volksinitiativen
- Erkläre Abstimmungsinhalte verständlich
- Präsentiere Argumente von beiden Seiten (Ja/Nein)
- Zitiere offizielle Quellen und Abstimmungsbüchlein
- Bleibe neutral und sachlich

Wichtig:
- Gib keine persönliche Meinung oder Abstimmungsempfehlung ab
- Kennzeichne klar, welche Informationen aus offiziellen Quellen stammen
- Bei Unsicherheit: Verweise auf die offizielle Abstimmungsbroschüre
- Antworte auf Deutsch, Französisch oder Italienisch, je nach Anfrage
`

const systemPromptFR = `Tu es un assistant utile pour les votations populaires suisses.

Ta tâche:
- Informer objectivement sur les initiatives populaires à venir
- Expliquer le contenu des votations de manière compréhensible
- Présenter les arguments des deux côtés (Oui/Non)
- Citer les sources officielles et les brochures de vote
- Rester neutre et factuel

Important:
- Ne donne pas d'opinion personnelle ou de recommandation de vote
- Indique clairement quelles informations proviennent de sources officielles
- En cas de doute: référer à la brochure officielle de vote
- Réponds en allemand, français ou italien selon la demande
`

const systemPromptIT = `Sei un assistente utile per le votazioni popolari svizzere.

Il tuo compito:
- Informare obiettivamente sulle iniziative popolari in arrivo
- Spiegare il contenuto delle votazioni in modo comprensibile
- Presentare gli argomenti di entrambe le parti (Sì/No)
- Citare fonti ufficiali e opuscoli di voto
- Rimanere neutrale e fattuale

Importante:
- Non dare opinioni personali o raccomandazioni di voto
- Indicare chiaramente quali informazioni provengono da fonti ufficiali
- In caso di dubbio: fare riferimento all'opuscolo ufficiale di voto
- Rispondi in tedesco, francese o italiano a seconda della richiesta
`

var systemPrompts = map[string]string{
	"de": systemPromptDE,
	"fr": systemPromptFR,
	"it": systemPromptIT,
}

// SystemPrompt returns the assistant system prompt for a language,
// defaulting to German.
func SystemPrompt(language string) string {
	if prompt, ok := systemPrompts[language]; ok {
		return prompt
	}
	return systemPromptDE
}

// ragKeywords mark queries that should trigger context retrieval.
var ragKeywords = []string{
	"initiative", "abstimmung", "volksinitiative",
	"votation", "vote", "referendum",
	"votazione",
	"was ist", "worum geht", "erkläre",
	"qu'est-ce", "expliquer",
	"che cosa", "spiegare",
	"argumente", "arguments", "argomenti",
	"pro", "contra", "pour", "contre",
	"position", "empfehlung", "recommandation",
}

// ShouldUseRAG reports whether a query looks voting-related enough to
// be worth a retrieval round trip.
func ShouldUseRAG(query string) bool {
	lower := strings.ToLower(query)
	for _, keyword := range ragKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// BuildChatMessages assembles the system and user messages for the
// model. When the RAG result carries contexts, the formatted context
// block precedes the question.
func BuildChatMessages(query string, rag domain.RagResult, language string) []port.ChatMessage {
	messages := []port.ChatMessage{
		{Role: "system", Content: SystemPrompt(language)},
	}

	userContent := query
	if rag.ContextCount > 0 {
		userContent = fmt.Sprintf("%s\n\n---\n\n**Frage:** %s", rag.FormattedContext, query)
	}

	messages = append(messages, port.ChatMessage{Role: "user", Content: userContent})
	return messages
}
