// Package dispatch exposes the session lifecycle to external callers: it
// parses command text, drives the client simulator and both evaluators,
// and turns the results into user-facing responses.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"autobot/internal/archive"
	"autobot/internal/domain"
	"autobot/internal/eval"
	"autobot/internal/events"
	"autobot/internal/persona"
	"autobot/internal/session"
)

// ErrInvalidCommand reports command text that is unrecognized or illegal
// in the current state. It is user-facing, never fatal.
var ErrInvalidCommand = errors.New("invalid command")

// State is the whole-session lifecycle, forward-only per run.
type State string

const (
	Esperando  State = "ESPERANDO"
	EnPrueba   State = "EN_PRUEBA"
	Finalizado State = "FINALIZADO"
)

// RunResult bundles everything a finished run produced.
type RunResult struct {
	SesionID  string
	Narrative string
	Heuristic eval.HeuristicReport
	Delegated *domain.EvaluationReport
}

type Deps struct {
	Sessions *session.Manager
	Analyzer *eval.ConversationAnalyzer // nil disables the delegated evaluation
	Archive  *archive.Store             // nil disables Postgres archiving
	Notifier *events.Notifier           // nil-safe
	Logger   *slog.Logger
	RNG      *rand.Rand
	MaxTurns int
}

// Dispatcher runs one training session at a time. Safe for concurrent
// callers; commands are serialized.
type Dispatcher struct {
	deps Deps

	mu       sync.Mutex
	state    State
	sesionID string
	client   *persona.Client
	scorer   *eval.TurnEvaluator
	finished map[string]RunResult
}

func New(deps Deps) *Dispatcher {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.RNG == nil {
		deps.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.MaxTurns <= 0 {
		deps.MaxTurns = 10
	}
	return &Dispatcher{
		deps:     deps,
		state:    Esperando,
		finished: make(map[string]RunResult),
	}
}

// Process handles one line of input. Free text is an agent turn when a
// test is running; everything else must be a known command.
func (d *Dispatcher) Process(ctx context.Context, input string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	trimmed := strings.TrimSpace(input)
	switch {
	case strings.EqualFold(trimmed, "comenzar test"):
		return d.startTest()
	case trimmed == "/score_now":
		return d.scoreNow()
	case trimmed == "/finalizar":
		return d.finalize(ctx)
	}

	if d.state == EnPrueba {
		return d.agentTurn(ctx, trimmed)
	}
	if d.state == Esperando {
		return "", fmt.Errorf("%w: para iniciar la evaluación, escriba COMENZAR TEST", ErrInvalidCommand)
	}
	return "", fmt.Errorf("%w: comando no reconocido; comandos disponibles: COMENZAR TEST, /score_now, /finalizar", ErrInvalidCommand)
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// SesionID returns the active (or last) session id.
func (d *Dispatcher) SesionID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sesionID
}

// Result returns the finished run for a session id.
func (d *Dispatcher) Result(sesionID string) (RunResult, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.finished[sesionID]
	return r, ok
}

func (d *Dispatcher) startTest() (string, error) {
	if d.state == EnPrueba {
		return "", fmt.Errorf("%w: ya hay una prueba activa; use /finalizar antes de comenzar otra", ErrInvalidCommand)
	}

	personalidades := domain.Personalities()
	canales := domain.Channels()
	escenarios := domain.Scenarios()

	personalidad := personalidades[d.deps.RNG.Intn(len(personalidades))]
	canal := canales[d.deps.RNG.Intn(len(canales))]
	escenario := escenarios[d.deps.RNG.Intn(len(escenarios))]

	sesionID := uuid.NewString()
	sess := &domain.Session{
		SesionID: sesionID,
		Configuracion: domain.SimulationConfig{
			Personalidad:    personalidad,
			Canal:           canal,
			Escenario:       escenario,
			TimestampInicio: time.Now().UTC(),
			DuracionMaxima:  d.deps.MaxTurns,
			NivelDificultad: 0.7,
		},
		Estado: domain.StateIniciando,
	}
	if err := d.deps.Sessions.InitContext(sess); err != nil {
		return "", fmt.Errorf("start test: %w", err)
	}

	d.client = persona.NewClient(personalidad, canal, escenario, d.deps.MaxTurns, d.deps.RNG)
	d.scorer = eval.NewTurnEvaluator()
	d.sesionID = sesionID
	d.state = EnPrueba

	opening := d.client.OpeningMessage()
	if _, err := d.deps.Sessions.AppendMessage(sesionID, domain.Message{
		Turno:     0,
		Rol:       domain.RoleCliente,
		Contenido: opening,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("start test: %w", err)
	}

	d.deps.Notifier.Publish(events.Event{
		Tipo:         "iniciada",
		SesionID:     sesionID,
		Personalidad: string(personalidad),
		Canal:        string(canal),
	})
	d.deps.Logger.Info("test started",
		"sesion_id", sesionID, "personalidad", personalidad, "canal", canal, "escenario", escenario.ID)

	return fmt.Sprintf(
		"TEST INICIADO\n\n"+
			"Personalidad: %s\n"+
			"Canal: %s\n"+
			"Escenario: %s\n\n"+
			"Responda al cliente como agente de servicio. Su desempeño será evaluado en: "+
			"Empatía, Claridad y Resolución.\n"+
			"Comandos: /score_now (puntaje actual), /finalizar (cerrar y ver informe)\n\n"+
			"CLIENTE (vía %s):\n%s",
		personalidad, canal, escenario.Titulo, canal, opening), nil
}

func (d *Dispatcher) scoreNow() (string, error) {
	if d.state != EnPrueba {
		return "", fmt.Errorf("%w: no hay una prueba activa", ErrInvalidCommand)
	}

	snap := d.scorer.Snapshot()
	return fmt.Sprintf(
		"PUNTAJE ACTUAL\n\n"+
			"Puntaje General: %.1f/100\n"+
			"Empatía:         %.1f/100\n"+
			"Claridad:        %.1f/100\n"+
			"Resolución:      %.1f/100\n\n"+
			"Turnos completados: %d\n\n"+
			"La prueba continúa. Escriba su siguiente respuesta o use /finalizar.",
		snap.PuntajeGeneral, snap.Empatia, snap.Claridad, snap.Resolucion, snap.Turnos), nil
}

func (d *Dispatcher) agentTurn(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: mensaje vacío", ErrInvalidCommand)
	}

	sess, err := d.deps.Sessions.Get(d.sesionID)
	if err != nil {
		return "", fmt.Errorf("agent turn: %w", err)
	}
	sess, err = d.deps.Sessions.AppendMessage(d.sesionID, domain.Message{
		Turno:     sess.LastTurn() + 1,
		Rol:       domain.RoleAgente,
		Contenido: text,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("agent turn: %w", err)
	}

	reply, done, score := d.client.Reply(text, d.scorer)
	if _, err := d.deps.Sessions.AppendMessage(d.sesionID, domain.Message{
		Turno:     sess.LastTurn() + 1,
		Rol:       domain.RoleCliente,
		Contenido: reply,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("agent turn: %w", err)
	}

	turno := d.client.Turnos()
	if turno == 1 {
		if _, err := d.deps.Sessions.UpdateState(d.sesionID, domain.StateEnProgreso); err != nil {
			return "", fmt.Errorf("agent turn: %w", err)
		}
	}
	if !done && d.client.Satisfaccion() > 80 {
		if _, err := d.deps.Sessions.UpdateState(d.sesionID, domain.StateResolviendo); err != nil {
			return "", fmt.Errorf("agent turn: %w", err)
		}
	}

	d.deps.Notifier.Publish(events.Event{
		Tipo:     "turno",
		SesionID: d.sesionID,
		Turno:    turno,
	})
	d.deps.Logger.Debug("turn scored", "sesion_id", d.sesionID, "turno", turno, "puntaje", score)

	if done {
		report, err := d.finalize(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("CLIENTE:\n%s\n\nEl cliente ha finalizado la conversación.\n\n%s", reply, report), nil
	}

	return fmt.Sprintf("CLIENTE:\n%s", reply), nil
}

func (d *Dispatcher) finalize(ctx context.Context) (string, error) {
	if d.state != EnPrueba {
		return "", fmt.Errorf("%w: no hay una prueba activa para finalizar", ErrInvalidCommand)
	}

	sess, err := d.deps.Sessions.UpdateState(d.sesionID, domain.StateFinalizado)
	if err != nil {
		return "", fmt.Errorf("finalize: %w", err)
	}
	d.state = Finalizado

	perfil := d.client.Perfil()
	info := eval.RunInfo{
		Canal:              sess.Configuracion.Canal,
		Personalidad:       sess.Configuracion.Personalidad,
		Problema:           sess.Configuracion.Escenario.Descripcion,
		Satisfaccion:       d.client.Satisfaccion(),
		Paciencia:          d.client.Paciencia(),
		SatisfaccionMinima: int(perfil.SatisfaccionMinima * 100),
	}
	now := time.Now().UTC()
	narrative := d.scorer.NarrativeReport(info, now)
	result := RunResult{
		SesionID:  d.sesionID,
		Narrative: narrative,
		Heuristic: d.scorer.JSONReport(info, sess.Historial, now),
	}

	if d.deps.Analyzer != nil {
		delegated, err := d.deps.Analyzer.Evaluate(ctx, sess)
		if err != nil {
			d.deps.Logger.Warn("delegated evaluation failed", "sesion_id", d.sesionID, "error", err)
		} else {
			result.Delegated = delegated
			narrative += "\n" + formatDelegated(delegated)
			result.Narrative = narrative
		}
	}

	if d.deps.Archive != nil && result.Delegated != nil {
		if _, err := d.deps.Archive.SaveReport(ctx, result.Delegated, sess.Historial); err != nil {
			d.deps.Logger.Error("archive failed", "sesion_id", d.sesionID, "error", err)
		}
	}

	d.finished[d.sesionID] = result
	d.deps.Notifier.Publish(events.Event{
		Tipo:          "finalizada",
		SesionID:      d.sesionID,
		PuntajeGlobal: result.Heuristic.Metricas.PuntajeGeneral,
	})
	d.deps.Logger.Info("test finished",
		"sesion_id", d.sesionID, "puntaje", result.Heuristic.Metricas.PuntajeGeneral)

	return narrative + "\nPara iniciar una nueva evaluación, escriba: COMENZAR TEST\n", nil
}

func formatDelegated(r *domain.EvaluationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "EVALUACIÓN DELEGADA (sesión %s)\n\n", r.SesionID)
	fmt.Fprintf(&b, "Puntaje global: %.1f/100\n\n", r.PuntajeGlobal)

	b.WriteString("Fortalezas\n")
	if len(r.Fortalezas) == 0 {
		b.WriteString("- Sin fortalezas\n")
	}
	for _, f := range r.Fortalezas {
		b.WriteString("- " + f + "\n")
	}

	b.WriteString("\nOportunidades\n")
	if len(r.OportunidadesMejora) == 0 {
		b.WriteString("- Sin oportunidades\n")
	}
	for _, o := range r.OportunidadesMejora {
		b.WriteString("- " + o + "\n")
	}

	fmt.Fprintf(&b, "\nResumen\n%s\n", r.ResumenEjecutivo)
	return b.String()
}
