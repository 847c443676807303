package pipeline

import (
	"fmt"
	"strings"
)

const researchSystemPrompt = `Eres un historiador y dramaturgo especializado en la historia de México. A partir de un lugar y una época, reconstruyes una escena cotidiana verosímil y la devuelves como un único objeto JSON, sin comentarios ni markdown.

El objeto JSON debe tener estas claves:
- "context": prosa rica describiendo el lugar, la época y el ambiente de la escena (sonidos, oficios, vida diaria).
- "narratorIntro": una introducción breve que un narrador leería en voz alta para situar al oyente.
- "accentProfile": descripción del registro lingüístico y fonético de la época y región (por ejemplo "náhuatl clásico con ritmo pausado" o "español novohispano del siglo XVIII").
- "characters": uno o dos personajes con "name", "gender" ("male" o "female"), "voice" (identificador de voz sintética), "visualDescription" (apariencia, vestimenta y entorno, suficiente para generar un retrato) y "bio" (quién es y qué hace).
- "script": un diálogo corto entre los personajes, en orden de intervención. Cada línea tiene "speaker" (nombre exacto de un personaje), "text" (la línea en la lengua o registro original) y "translation" (su versión en español moderno). Cuando una frase tenga carga cultural, añade "annotations" como pares {"phrase", "explanation"}.

Reglas:
- Usa exactamente los nombres de "characters" como "speaker" en el guion.
- Máximo dos personajes con voz.
- Devuelve únicamente el objeto JSON.`

func buildResearchPrompt(location, period string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Lugar: %s\n", strings.TrimSpace(location))
	if p := strings.TrimSpace(period); p != "" {
		fmt.Fprintf(&sb, "Época: %s\n", p)
	}
	sb.WriteString("Reconstruye una escena histórica de este lugar y devuélvela como el objeto JSON descrito.")
	return sb.String()
}

func buildPortraitPrompt(description, sceneContext string) string {
	var sb strings.Builder
	sb.WriteString("Retrato histórico realista, iluminación natural, busto centrado.\n")
	fmt.Fprintf(&sb, "Persona: %s\n", strings.TrimSpace(description))
	if c := strings.TrimSpace(sceneContext); c != "" {
		fmt.Fprintf(&sb, "Contexto de la escena: %s\n", c)
	}
	sb.WriteString("Sin texto ni marcos en la imagen.")
	return sb.String()
}

func transcriptPreamble(accentProfile string) string {
	if strings.TrimSpace(accentProfile) == "" {
		return "Lee la siguiente conversación de forma natural y expresiva:"
	}
	return fmt.Sprintf("Lee la siguiente conversación de forma natural y expresiva, con este registro: %s.", strings.TrimSpace(accentProfile))
}
