// Package emotion infers a coarse emotional label from simulated client
// messages using lexical cues. The labels feed the session's emotion trail;
// nothing here affects scoring.
package emotion

import (
	"math"
	"strings"
	"unicode/utf8"
)

const Engine = "lexical-es-v1"

const Neutral = "neutral"

// Labels returns every label the tagger can emit, neutral included.
func Labels() []string {
	out := make([]string, 0, len(emotionHints)+1)
	for _, item := range emotionHints {
		out = append(out, item.label)
	}
	return append(out, Neutral)
}

var emotionHints = []struct {
	label string
	hints []string
}{
	{label: "enojo", hints: []string{"harto", "inaceptable", "ridículo", "colmo", "supervisor", "indignante", "furioso"}},
	{label: "frustracion", hints: []string{"no me está ayudando", "no es suficiente", "otra vez", "de nuevo", "pérdida de tiempo", "qué servicio"}},
	{label: "ansiedad", hints: []string{"preocupado", "nervioso", "urgente", "¿y si", "me preocupa", "angustia", "ayuda pronto"}},
	{label: "confusion", hints: []string{"no entiendo", "confund", "perdido", "no sé cómo", "qué significa", "explicar"}},
	{label: "urgencia", hints: []string{"rápido", "ya mismo", "no tengo tiempo", "prisa", "inmediato", "ahora"}},
	{label: "gratitud", hints: []string{"gracias", "agradezco", "valoro", "excelente servicio"}},
	{label: "satisfaccion", hints: []string{"perfecto", "quedé satisfecho", "problema resuelto", "me parece bien", "tranquiliza"}},
	{label: "decepcion", hints: []string{"no me ayudaron", "me voy", "buscaré ayuda", "decepcion", "esperaba más"}},
}

func hintScores(text string) map[string]float64 {
	scores := make(map[string]float64, len(emotionHints))
	for _, item := range emotionHints {
		for _, h := range item.hints {
			if strings.Contains(text, h) {
				// Longer cues are stronger evidence.
				weight := 1.0 + math.Min(float64(utf8.RuneCountInString(h))/10.0, 1.0)
				scores[item.label] += weight
			}
		}
	}

	if strings.Contains(text, "!") || strings.Contains(text, "¡") {
		scores["enojo"] += 0.4
		scores["urgencia"] += 0.3
	}
	if strings.Contains(text, "?") || strings.Contains(text, "¿") {
		scores["confusion"] += 0.3
		scores["ansiedad"] += 0.2
	}
	return scores
}

// Detect returns the dominant emotional label for a message, or Neutral
// when no cue is strong enough.
func Detect(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return Neutral
	}
	scores := hintScores(t)
	top, topScore := Neutral, 0.0
	for _, item := range emotionHints {
		if s := scores[item.label]; s > topScore {
			top, topScore = item.label, s
		}
	}
	if topScore < 0.5 {
		return Neutral
	}
	return top
}
