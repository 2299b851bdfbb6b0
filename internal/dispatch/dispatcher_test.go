package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"autobot/internal/eval"
	"autobot/internal/llm"
	"autobot/internal/session"
	"autobot/internal/store"
)

const goodReply = "Lamento mucho su situación, entiendo su frustración, voy a resolver esto de inmediato."

func newTestDispatcher(t *testing.T, seed int64) *Dispatcher {
	t.Helper()
	return New(Deps{
		Sessions: session.NewManager(store.NewMemory(), 0, 0),
		Logger:   slog.New(slog.DiscardHandler),
		RNG:      rand.New(rand.NewSource(seed)),
		MaxTurns: 10,
	})
}

func TestCommandsRejectedWhileWaiting(t *testing.T) {
	d := newTestDispatcher(t, 1)
	ctx := context.Background()

	for _, input := range []string{"hola cliente", "/score_now", "/finalizar"} {
		if _, err := d.Process(ctx, input); !errors.Is(err, ErrInvalidCommand) {
			t.Fatalf("input %q in ESPERANDO: want ErrInvalidCommand, got %v", input, err)
		}
	}
	if d.State() != Esperando {
		t.Fatalf("state = %s, want ESPERANDO", d.State())
	}
}

func TestStartTestIsCaseInsensitive(t *testing.T) {
	d := newTestDispatcher(t, 2)

	out, err := d.Process(context.Background(), "comenzar test")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.Contains(out, "TEST INICIADO") || !strings.Contains(out, "CLIENTE") {
		t.Fatalf("briefing incomplete:\n%s", out)
	}
	if d.State() != EnPrueba {
		t.Fatalf("state = %s, want EN_PRUEBA", d.State())
	}
	if d.SesionID() == "" {
		t.Fatal("no session id assigned")
	}
}

func TestStartTestWhileRunningRejected(t *testing.T) {
	d := newTestDispatcher(t, 3)
	ctx := context.Background()

	if _, err := d.Process(ctx, "COMENZAR TEST"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := d.Process(ctx, "COMENZAR TEST"); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("second start must fail, got %v", err)
	}
}

func TestScoreNowIsNonMutating(t *testing.T) {
	d := newTestDispatcher(t, 4)
	ctx := context.Background()
	d.Process(ctx, "COMENZAR TEST")

	out, err := d.Process(ctx, "/score_now")
	if err != nil {
		t.Fatalf("score_now: %v", err)
	}
	if !strings.Contains(out, "PUNTAJE ACTUAL") || !strings.Contains(out, "Turnos completados: 0") {
		t.Fatalf("unexpected score output:\n%s", out)
	}

	// still zero after peeking
	out, _ = d.Process(ctx, "/score_now")
	if !strings.Contains(out, "Turnos completados: 0") {
		t.Fatalf("score_now mutated state:\n%s", out)
	}
}

func TestAgentTurnProducesClientReply(t *testing.T) {
	d := newTestDispatcher(t, 5)
	ctx := context.Background()
	d.Process(ctx, "COMENZAR TEST")

	out, err := d.Process(ctx, goodReply)
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if !strings.Contains(out, "CLIENTE:") {
		t.Fatalf("no client reply:\n%s", out)
	}

	sess, err := d.deps.Sessions.Get(d.SesionID())
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	// opening + agent turn + client reply
	if len(sess.Historial) != 3 {
		t.Fatalf("historial len = %d, want 3", len(sess.Historial))
	}
	if sess.Historial[1].Rol != "agente" || sess.Historial[1].Turno != 1 {
		t.Fatalf("agent message misfiled: %+v", sess.Historial[1])
	}
	if sess.Historial[2].Rol != "cliente" || sess.Historial[2].Turno != 2 {
		t.Fatalf("client reply misfiled: %+v", sess.Historial[2])
	}
}

func TestHistoryTurnsStrictlyIncrease(t *testing.T) {
	d := newTestDispatcher(t, 9)
	ctx := context.Background()
	d.Process(ctx, "COMENZAR TEST")
	for range 3 {
		if _, err := d.Process(ctx, "¿Podría darme más detalles del problema?"); err != nil {
			t.Fatalf("turn: %v", err)
		}
	}

	sess, err := d.deps.Sessions.Get(d.SesionID())
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(sess.Historial) != 7 {
		t.Fatalf("historial len = %d, want 7", len(sess.Historial))
	}
	if sess.Historial[0].Turno != 0 {
		t.Fatalf("opening turno = %d, want 0", sess.Historial[0].Turno)
	}
	for i := 1; i < len(sess.Historial); i++ {
		if sess.Historial[i].Turno <= sess.Historial[i-1].Turno {
			t.Fatalf("turno %d at index %d not greater than previous %d",
				sess.Historial[i].Turno, i, sess.Historial[i-1].Turno)
		}
	}
}

func TestManualFinalize(t *testing.T) {
	d := newTestDispatcher(t, 6)
	ctx := context.Background()
	d.Process(ctx, "COMENZAR TEST")
	d.Process(ctx, goodReply)

	out, err := d.Process(ctx, "/finalizar")
	if err != nil {
		t.Fatalf("finalizar: %v", err)
	}
	if !strings.Contains(out, "INFORME DE EVALUACIÓN") {
		t.Fatalf("no narrative report:\n%s", out)
	}
	if d.State() != Finalizado {
		t.Fatalf("state = %s, want FINALIZADO", d.State())
	}

	result, ok := d.Result(d.SesionID())
	if !ok {
		t.Fatal("finished run not recorded")
	}
	if result.Heuristic.Metricas.NumeroTurnos != 1 {
		t.Fatalf("turnos = %d, want 1", result.Heuristic.Metricas.NumeroTurnos)
	}

	if _, err := d.Process(ctx, "cualquier texto"); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("free text after finalize must fail, got %v", err)
	}
}

func TestRestartAfterFinalize(t *testing.T) {
	d := newTestDispatcher(t, 7)
	ctx := context.Background()
	d.Process(ctx, "COMENZAR TEST")
	first := d.SesionID()
	d.Process(ctx, "/finalizar")

	if _, err := d.Process(ctx, "COMENZAR TEST"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if d.State() != EnPrueba {
		t.Fatalf("state = %s, want EN_PRUEBA", d.State())
	}
	if d.SesionID() == first {
		t.Fatal("restart must mint a fresh session id")
	}
}

func TestHighScoringRunAutoFinalizesPositive(t *testing.T) {
	d := newTestDispatcher(t, 8)
	ctx := context.Background()
	d.Process(ctx, "COMENZAR TEST")

	var out string
	var err error
	for range 10 {
		out, err = d.Process(ctx, goodReply)
		if err != nil {
			t.Fatalf("turn: %v", err)
		}
		if d.State() == Finalizado {
			break
		}
	}

	if d.State() != Finalizado {
		t.Fatal("high-scoring run must auto-finalize")
	}
	if !strings.Contains(out, "El cliente ha finalizado la conversación") {
		t.Fatalf("missing auto-finalize notice:\n%s", out)
	}

	result, _ := d.Result(d.SesionID())
	// satisfaction climbs 50 -> 65 -> 80 -> 95; closes positively on turn 3
	if result.Heuristic.EstadoCliente.Satisfaccion <= 80 {
		t.Fatalf("satisfaccion = %d, want > 80", result.Heuristic.EstadoCliente.Satisfaccion)
	}
	if result.Heuristic.Metricas.NumeroTurnos != 3 {
		t.Fatalf("turnos = %d, want 3", result.Heuristic.Metricas.NumeroTurnos)
	}
}

func TestDismissiveRunDrainsPatience(t *testing.T) {
	d := newTestDispatcher(t, 9)
	ctx := context.Background()
	d.Process(ctx, "COMENZAR TEST")

	for range 10 {
		if _, err := d.Process(ctx, "No sé."); err != nil {
			t.Fatalf("turn: %v", err)
		}
		if d.State() == Finalizado {
			break
		}
	}

	if d.State() != Finalizado {
		t.Fatal("dismissive run must exhaust patience before the turn cap")
	}

	result, _ := d.Result(d.SesionID())
	if result.Heuristic.Metricas.PuntajeGeneral >= 50 {
		t.Fatalf("puntaje_general = %.2f, want < 50", result.Heuristic.Metricas.PuntajeGeneral)
	}
	if result.Heuristic.EstadoCliente.Paciencia != 0 {
		t.Fatalf("paciencia = %d, want 0 (clamped)", result.Heuristic.EstadoCliente.Paciencia)
	}
}

type cannedProvider struct{}

func (cannedProvider) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	return "PUNTAJE: 4\nJUSTIFICACION: Trato correcto y resolutivo.\nEVIDENCIAS:\n" +
		`- Turno 1: "voy a resolver esto" (impacto=positivo)`, nil
}

func TestFinalizeIncludesDelegatedEvaluation(t *testing.T) {
	d := New(Deps{
		Sessions: session.NewManager(store.NewMemory(), 0, 0),
		Analyzer: eval.NewConversationAnalyzer(cannedProvider{}, time.Second),
		Logger:   slog.New(slog.DiscardHandler),
		RNG:      rand.New(rand.NewSource(10)),
		MaxTurns: 10,
	})
	ctx := context.Background()
	d.Process(ctx, "COMENZAR TEST")
	d.Process(ctx, goodReply)

	out, err := d.Process(ctx, "/finalizar")
	if err != nil {
		t.Fatalf("finalizar: %v", err)
	}
	if !strings.Contains(out, "EVALUACIÓN DELEGADA") {
		t.Fatalf("delegated section missing:\n%s", out)
	}

	result, _ := d.Result(d.SesionID())
	if result.Delegated == nil {
		t.Fatal("delegated report not recorded")
	}
	if result.Delegated.PuntajeGlobal != 80 {
		t.Fatalf("puntaje_global = %v, want 80", result.Delegated.PuntajeGlobal)
	}
}
