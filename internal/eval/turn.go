// Package eval scores agent performance two ways: a heuristic lexical
// scorer applied turn by turn, and a delegated analyzer that asks a
// language model to grade the whole conversation against a rubric.
package eval

import (
	"strings"

	"autobot/internal/domain"
	"autobot/internal/rubric"
)

var empathyWords = []string{
	"entiendo", "comprendo", "lamento", "disculpa", "preocup",
	"ayudar", "tranquilo", "seguro", "confianza", "importante",
}

// Per-personality phrases that earn the emotional-recognition bonus.
// Only the emotionally loaded personalities grant it.
var empathyBonusWords = map[domain.Personality][]string{
	domain.PersonalityEnojado: {"lamento", "disculpa", "entiendo su frustración"},
	domain.PersonalityAnsioso: {"tranquil", "no se preocupe", "seguro"},
}

var orderingWords = []string{"primero", "segundo", "paso", "siguiente"}

var jargonWords = []string{"implementar", "ejecutar", "proceder", "gestionar"}

var solutionWords = []string{
	"solución", "resolver", "ayudar", "hacer", "realizar",
	"paso", "proceso", "opción", "alternativa",
}

var commitmentWords = []string{"voy a", "haré", "realizaré", "enviaré"}

// Snapshot holds the running per-criterion means. All fields are zero
// before the first scored turn.
type Snapshot struct {
	PuntajeGeneral float64 `json:"puntaje_general"`
	Empatia        float64 `json:"empatia"`
	Claridad       float64 `json:"claridad"`
	Resolucion     float64 `json:"resolucion"`
	Turnos         int     `json:"turnos"`
}

// TurnEvaluator is the heuristic engine. It accumulates one score per
// criterion per turn; aggregates are running means over all scored turns.
// Not safe for concurrent use.
type TurnEvaluator struct {
	weights    rubric.Rubric
	turnScores []float64
	criteria   map[string][]float64
}

func NewTurnEvaluator() *TurnEvaluator {
	return &TurnEvaluator{
		weights: rubric.TurnRubric(),
		criteria: map[string][]float64{
			rubric.Empatia:    nil,
			rubric.Claridad:   nil,
			rubric.Resolucion: nil,
		},
	}
}

// ScoreTurn rates one agent message on the 0-100 scale. turn is 1-based.
// It satisfies persona.Scorer.
func (e *TurnEvaluator) ScoreTurn(agentMessage string, personality domain.Personality, turn int) float64 {
	empatia := scoreEmpathy(agentMessage, personality)
	claridad := scoreClarity(agentMessage)
	resolucion := scoreResolution(agentMessage, turn)

	e.criteria[rubric.Empatia] = append(e.criteria[rubric.Empatia], empatia)
	e.criteria[rubric.Claridad] = append(e.criteria[rubric.Claridad], claridad)
	e.criteria[rubric.Resolucion] = append(e.criteria[rubric.Resolucion], resolucion)

	total := 0.0
	for _, c := range e.weights.Criterios {
		switch c.Nombre {
		case rubric.Empatia:
			total += empatia * c.Peso
		case rubric.Claridad:
			total += claridad * c.Peso
		case rubric.Resolucion:
			total += resolucion * c.Peso
		}
	}
	e.turnScores = append(e.turnScores, total)
	return total
}

// Snapshot returns the current running means without mutating state.
func (e *TurnEvaluator) Snapshot() Snapshot {
	if len(e.turnScores) == 0 {
		return Snapshot{}
	}
	return Snapshot{
		PuntajeGeneral: mean(e.turnScores),
		Empatia:        mean(e.criteria[rubric.Empatia]),
		Claridad:       mean(e.criteria[rubric.Claridad]),
		Resolucion:     mean(e.criteria[rubric.Resolucion]),
		Turnos:         len(e.turnScores),
	}
}

// TurnScores returns a copy of the per-turn weighted scores in order.
func (e *TurnEvaluator) TurnScores() []float64 {
	out := make([]float64, len(e.turnScores))
	copy(out, e.turnScores)
	return out
}

func scoreEmpathy(message string, personality domain.Personality) float64 {
	lower := strings.ToLower(message)
	score := 50.0
	for _, w := range empathyWords {
		if strings.Contains(lower, w) {
			score += 10
		}
	}
	for _, w := range empathyBonusWords[personality] {
		if strings.Contains(lower, w) {
			score += 20
			break
		}
	}
	return min(100, score)
}

func scoreClarity(message string) float64 {
	score := 70.0
	words := len(strings.Fields(message))
	switch {
	case words >= 10 && words <= 50:
		score += 10
	case words < 5:
		score -= 20
	}

	lower := strings.ToLower(message)
	for _, w := range orderingWords {
		if strings.Contains(lower, w) {
			score += 10
			break
		}
	}

	jargon := 0
	for _, w := range jargonWords {
		if strings.Contains(lower, w) {
			jargon++
		}
	}
	if jargon > 2 {
		score -= 10
	}
	return min(100, max(0, score))
}

func scoreResolution(message string, turn int) float64 {
	lower := strings.ToLower(message)
	score := 60.0
	hasSignal := false

	for _, w := range solutionWords {
		if strings.Contains(lower, w) {
			score += 8
			hasSignal = true
		}
	}
	if strings.Contains(message, "?") && turn <= 2 {
		score += 10
		hasSignal = true
	}
	if containsAny(lower, commitmentWords) {
		score += 15
		hasSignal = true
	}
	// A message with no solution orientation at all drags the score
	// below passing instead of coasting on the base.
	if !hasSignal {
		score -= 15
	}
	return min(100, max(0, score))
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}
