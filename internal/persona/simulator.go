// Package persona simulates support clients: a static profile table plus a
// stateful client whose satisfaction and patience react to how well the
// human agent performs each turn.
package persona

import (
	"fmt"
	"math/rand"
	"strings"

	"autobot/internal/channel"
	"autobot/internal/domain"
)

// Scorer rates one agent turn on a 0-100 scale. The heuristic evaluator
// implements it; tests inject fixed scorers.
type Scorer interface {
	ScoreTurn(agentMessage string, personality domain.Personality, turn int) float64
}

// Affect update thresholds and deltas. A turn scoring above Reward raises
// both counters; at most Penalty it drains them; in between only
// satisfaction creeps up.
const (
	rewardThreshold  = 70.0
	penaltyThreshold = 50.0

	satisfactionDone = 80
)

// Closing message tiers, selected by final satisfaction.
var (
	despedidasPositivas = []string{
		"Muchas gracias por su ayuda. Quedé satisfecho.",
		"Excelente servicio. Muchas gracias.",
		"Perfecto, problema resuelto. Gracias.",
	}
	despedidasNeutras = []string{
		"Bueno, supongo que está bien. Gracias.",
		"Ok, gracias por el tiempo.",
		"Entiendo. Gracias.",
	}
	despedidasNegativas = []string{
		"No me ayudaron en nada. Buscaré ayuda en otro lado.",
		"Qué servicio tan malo. Me voy.",
		"Esto fue una pérdida de tiempo.",
	}
)

// Lexical cues that trigger a profile's canned reaction instead of the
// generic tier templates.
var (
	derivacionCues = []string{"supervisor", "derivar", "derivarlo", "transferir", "otra área", "otro departamento"}
	demoraCues     = []string{"espere", "demora", "demorar", "tardará", "tardara", "en unos días", "paciencia"}
	compromisoCues = []string{"voy a", "haré", "realizaré", "enviaré"}
)

// Client is one simulated customer. Not safe for concurrent use; the
// caller serializes access per session.
type Client struct {
	profile  Profile
	canal    domain.Channel
	problema string
	maxTurns int
	rng      *rand.Rand

	satisfaccion int
	paciencia    int
	turnos       int
	rachaMala    int
}

// NewClient builds a client for one scenario. Satisfaction starts at the
// neutral midpoint; patience is scaled by the profile.
func NewClient(p domain.Personality, c domain.Channel, esc domain.Scenario, maxTurns int, rng *rand.Rand) *Client {
	profile := ProfileFor(p)
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &Client{
		profile:      profile,
		canal:        c,
		problema:     esc.Descripcion,
		maxTurns:     maxTurns,
		rng:          rng,
		satisfaccion: 50,
		paciencia:    clampCounter(int(100 * profile.PacienciaInicial)),
	}
}

func (c *Client) Satisfaccion() int { return c.satisfaccion }
func (c *Client) Paciencia() int    { return c.paciencia }
func (c *Client) Turnos() int       { return c.turnos }
func (c *Client) Perfil() Profile   { return c.profile }

func (c *Client) Personalidad() domain.Personality { return c.profile.Tipo }

// OpeningMessage produces the client's first message: a stochastic pick
// among the profile's opening templates with the scenario problem
// interpolated, adapted to the channel.
func (c *Client) OpeningMessage() string {
	tmpl := c.profile.Aperturas[c.rng.Intn(len(c.profile.Aperturas))]
	return channel.Adapt(fmt.Sprintf(tmpl, c.problema), c.canal, c.rng)
}

// Reply consumes an agent message. It scores the turn, updates the affect
// counters, and either continues the conversation (done=false) or emits a
// tier-selected closing message (done=true). The turn score is returned
// for the caller's running aggregates.
func (c *Client) Reply(agentMessage string, scorer Scorer) (reply string, done bool, score float64) {
	c.turnos++
	score = scorer.ScoreTurn(agentMessage, c.profile.Tipo, c.turnos)
	c.updateAffect(score)

	continuar := c.paciencia > 0 && c.turnos < c.maxTurns
	if !continuar || c.satisfaccion > satisfactionDone {
		return c.despedida(), true, score
	}

	return channel.Adapt(c.contextualReply(agentMessage, score), c.canal, c.rng), false, score
}

func (c *Client) updateAffect(score float64) {
	switch {
	case score > rewardThreshold:
		c.satisfaccion = clampCounter(c.satisfaccion + 15)
		c.paciencia = clampCounter(c.paciencia + 10)
		c.rachaMala = 0
	case score > penaltyThreshold:
		c.satisfaccion = clampCounter(c.satisfaccion + 5)
	default:
		c.satisfaccion = clampCounter(c.satisfaccion - 10)
		c.paciencia = clampCounter(c.paciencia - 20)
		c.rachaMala++
	}
}

// contextualReply picks the next client line. A lexical cue in the agent
// message can trigger the profile's canned reaction; otherwise the reply
// comes from the score tier's template set.
func (c *Client) contextualReply(agentMessage string, score float64) string {
	lower := strings.ToLower(agentMessage)

	if containsAny(lower, derivacionCues) {
		return c.profile.ReaccionADerivacion
	}
	if containsAny(lower, demoraCues) {
		return c.profile.ReaccionADemora
	}
	if score <= rewardThreshold && containsAny(lower, c.profile.PalabrasCalmantes) {
		return c.profile.ReaccionAEmpatia
	}
	if score > rewardThreshold && containsAny(lower, compromisoCues) {
		return c.profile.ReaccionASolucionRapida
	}

	var pool []string
	if score > rewardThreshold {
		pool = c.profile.RespuestasAltas
	} else {
		pool = c.profile.RespuestasBajas
	}
	reply := pool[c.rng.Intn(len(pool))]

	// Escalating personalities may interject their own vocabulary when the
	// conversation keeps going badly.
	if c.rachaMala > 0 && len(c.profile.Vocabulario) > 0 {
		p := c.profile.ProbabilidadInterrupcion * (1 + c.profile.VelocidadEscalamiento*float64(c.rachaMala-1))
		if c.rng.Float64() < p {
			reply = c.profile.Vocabulario[c.rng.Intn(len(c.profile.Vocabulario))] + ". " + reply
		}
	}
	return reply
}

func (c *Client) despedida() string {
	var pool []string
	switch {
	case c.satisfaccion > 80:
		pool = despedidasPositivas
	case c.satisfaccion > 50:
		pool = despedidasNeutras
	default:
		pool = despedidasNegativas
	}
	return channel.Adapt(pool[c.rng.Intn(len(pool))], c.canal, c.rng)
}

func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if cue != "" && strings.Contains(text, strings.ToLower(cue)) {
			return true
		}
	}
	return false
}

func clampCounter(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
