package persona

import (
	"math/rand"
	"strings"
	"testing"

	"autobot/internal/domain"
)

type fixedScorer float64

func (f fixedScorer) ScoreTurn(string, domain.Personality, int) float64 {
	return float64(f)
}

func testScenario() domain.Scenario {
	return domain.Scenario{
		ID:          "ESC-TEST",
		Titulo:      "Pedido sin entregar",
		Descripcion: "mi pedido no ha llegado después de una semana",
	}
}

func newTestClient(p domain.Personality, seed int64) *Client {
	return NewClient(p, domain.ChannelChat, testScenario(), 10, rand.New(rand.NewSource(seed)))
}

func TestProfileTableCoversEveryPersonality(t *testing.T) {
	for _, p := range domain.Personalities() {
		profile := ProfileFor(p)
		if profile.Tipo != p {
			t.Fatalf("profile for %s has wrong tipo %q", p, profile.Tipo)
		}
		if len(profile.Aperturas) == 0 || len(profile.RespuestasAltas) == 0 || len(profile.RespuestasBajas) == 0 {
			t.Fatalf("profile for %s missing templates", p)
		}
		if profile.ReaccionAEmpatia == "" || profile.ReaccionASolucionRapida == "" ||
			profile.ReaccionADerivacion == "" || profile.ReaccionADemora == "" {
			t.Fatalf("profile for %s missing canned reactions", p)
		}
		if profile.PacienciaInicial <= 0 || profile.PacienciaInicial > 1 {
			t.Fatalf("profile for %s has paciencia inicial %.2f outside (0,1]", p, profile.PacienciaInicial)
		}
	}
}

func TestOpeningMessageInterpolatesProblem(t *testing.T) {
	c := newTestClient(domain.PersonalityNeutral, 3)
	msg := c.OpeningMessage()
	if !strings.Contains(msg, "mi pedido no ha llegado") {
		t.Fatalf("opening message does not mention the problem: %q", msg)
	}
}

func TestOpeningMessageDeterministicWithSeed(t *testing.T) {
	a := newTestClient(domain.PersonalityEnojado, 11).OpeningMessage()
	b := newTestClient(domain.PersonalityEnojado, 11).OpeningMessage()
	if a != b {
		t.Fatalf("seeded opening not deterministic: %q vs %q", a, b)
	}
}

func TestHighScoresRaiseSatisfactionMonotonically(t *testing.T) {
	c := newTestClient(domain.PersonalityNeutral, 5)
	prev := c.Satisfaccion()
	for i := 0; i < 2; i++ {
		_, done, _ := c.Reply("Lamento la demora, voy a resolverlo ahora.", fixedScorer(90))
		if done {
			t.Fatalf("conversation ended prematurely at turn %d", c.Turnos())
		}
		if c.Satisfaccion() <= prev {
			t.Fatalf("satisfaction not increasing: %d -> %d", prev, c.Satisfaccion())
		}
		prev = c.Satisfaccion()
	}
}

func TestSatisfiedClientClosesPositively(t *testing.T) {
	c := newTestClient(domain.PersonalityNeutral, 5)
	var reply string
	var done bool
	for i := 0; i < 10 && !done; i++ {
		reply, done, _ = c.Reply("Entiendo, ya mismo lo soluciono.", fixedScorer(90))
	}
	if !done {
		t.Fatal("client never terminated despite high scores")
	}
	if c.Satisfaccion() <= 80 {
		t.Fatalf("final satisfaction %d, want > 80", c.Satisfaccion())
	}
	if !inPool(reply, despedidasPositivas) {
		t.Fatalf("closing %q not drawn from the positive tier", reply)
	}
}

func TestLowScoresExhaustPatienceBeforeTurnLimit(t *testing.T) {
	c := newTestClient(domain.PersonalityNeutral, 9)
	var reply string
	var done bool
	for i := 0; i < 10 && !done; i++ {
		reply, done, _ = c.Reply("No sé.", fixedScorer(40))
	}
	if !done {
		t.Fatal("client never terminated despite low scores")
	}
	if c.Turnos() >= 10 {
		t.Fatalf("terminated at turn %d, want before the 10-turn limit", c.Turnos())
	}
	if c.Paciencia() > 0 {
		t.Fatalf("patience %d, want exhausted", c.Paciencia())
	}
	if !inPool(reply, despedidasNegativas) {
		t.Fatalf("closing %q not drawn from the negative tier", reply)
	}
}

func TestAffectCountersStayInRange(t *testing.T) {
	c := newTestClient(domain.PersonalityEnojado, 2)
	for i := 0; i < 6; i++ {
		if _, done, _ := c.Reply("mmm", fixedScorer(10)); done {
			break
		}
	}
	if c.Satisfaccion() < 0 || c.Satisfaccion() > 100 {
		t.Fatalf("satisfaction %d out of range", c.Satisfaccion())
	}
	if c.Paciencia() < 0 || c.Paciencia() > 100 {
		t.Fatalf("patience %d out of range", c.Paciencia())
	}
}

func TestHandoffCueTriggersCannedReaction(t *testing.T) {
	c := newTestClient(domain.PersonalityEnojado, 4)
	reply, done, _ := c.Reply("Voy a transferir su caso a un supervisor.", fixedScorer(60))
	if done {
		t.Fatal("conversation ended on first turn")
	}
	if reply != ProfileFor(domain.PersonalityEnojado).ReaccionADerivacion {
		t.Fatalf("reply %q, want the derivation reaction", reply)
	}
}

func TestDelayCueTriggersCannedReaction(t *testing.T) {
	c := newTestClient(domain.PersonalityImpaciente, 4)
	reply, done, _ := c.Reply("Tendrá que esperar, hay demora en el sistema.", fixedScorer(60))
	if done {
		t.Fatal("conversation ended on first turn")
	}
	if reply != ProfileFor(domain.PersonalityImpaciente).ReaccionADemora {
		t.Fatalf("reply %q, want the delay reaction", reply)
	}
}

func inPool(msg string, pool []string) bool {
	for _, p := range pool {
		if msg == p {
			return true
		}
	}
	return false
}
