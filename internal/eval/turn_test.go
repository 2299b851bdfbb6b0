package eval

import (
	"math"
	"strings"
	"testing"
	"time"

	"autobot/internal/domain"
)

func assertNear(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("got %.4f, want %.4f (±%.4f)", got, want, eps)
	}
}

func TestScoreTurnEmpathicReplyToAngryClient(t *testing.T) {
	e := NewTurnEvaluator()
	msg := "Lamento mucho su situación, entiendo su frustración, voy a resolver esto de inmediato."
	got := e.ScoreTurn(msg, domain.PersonalityEnojado, 1)

	// empatia 90 (base 50 + entiendo + lamento + bonus 20),
	// claridad 80 (base 70 + longitud), resolucion 83 (base 60 + resolver + compromiso)
	assertNear(t, got, 84.55, 1e-9)
}

func TestScoreTurnDismissiveReply(t *testing.T) {
	e := NewTurnEvaluator()
	got := e.ScoreTurn("No sé.", domain.PersonalityNeutral, 1)

	// empatia 50, claridad 50 (corto), resolucion 45 (sin señal de solución)
	assertNear(t, got, 48.25, 1e-9)
	if got > 50 {
		t.Fatalf("dismissive reply must land in the penalty band, got %.2f", got)
	}
}

func TestScoreTurnEarlyQuestionBonus(t *testing.T) {
	e := NewTurnEvaluator()
	early := e.ScoreTurn("¿Me puede indicar su número de cliente para ubicar el caso y poder revisarlo bien?", domain.PersonalityNeutral, 1)

	e2 := NewTurnEvaluator()
	late := e2.ScoreTurn("¿Me puede indicar su número de cliente para ubicar el caso y poder revisarlo bien?", domain.PersonalityNeutral, 5)

	if early <= late {
		t.Fatalf("clarifying question on turn 1 should outscore turn 5: %.2f vs %.2f", early, late)
	}
}

func TestScoreTurnJargonPenalty(t *testing.T) {
	e := NewTurnEvaluator()
	e.ScoreTurn("Vamos a implementar, ejecutar y proceder a gestionar su solicitud formal.", domain.PersonalityNeutral, 1)
	snap := e.Snapshot()

	// base 70 + longitud 10 - jerga 10
	assertNear(t, snap.Claridad, 70, 1e-9)
}

func TestScoreTurnKeywordCountedOnce(t *testing.T) {
	e := NewTurnEvaluator()
	e.ScoreTurn("entiendo entiendo entiendo entiendo entiendo entiendo", domain.PersonalityNeutral, 1)
	snap := e.Snapshot()

	// one distinct keyword: 50 + 10
	assertNear(t, snap.Empatia, 60, 1e-9)
}

func TestSnapshotZeroHistory(t *testing.T) {
	snap := NewTurnEvaluator().Snapshot()
	if snap.PuntajeGeneral != 0 || snap.Empatia != 0 || snap.Claridad != 0 || snap.Resolucion != 0 || snap.Turnos != 0 {
		t.Fatalf("empty evaluator must report all-zero snapshot, got %+v", snap)
	}
}

func TestSnapshotRunningMeans(t *testing.T) {
	e := NewTurnEvaluator()
	s1 := e.ScoreTurn("Lamento mucho su situación, entiendo su frustración, voy a resolver esto de inmediato.", domain.PersonalityEnojado, 1)
	s2 := e.ScoreTurn("No sé.", domain.PersonalityEnojado, 2)

	snap := e.Snapshot()
	if snap.Turnos != 2 {
		t.Fatalf("turnos = %d, want 2", snap.Turnos)
	}
	assertNear(t, snap.PuntajeGeneral, (s1+s2)/2, 1e-9)

	scores := e.TurnScores()
	if len(scores) != 2 || scores[0] != s1 || scores[1] != s2 {
		t.Fatalf("TurnScores() = %v, want [%v %v]", scores, s1, s2)
	}
}

func TestClassifyTiers(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "EXCELENTE"},
		{90, "EXCELENTE"},
		{80, "MUY BUENO"},
		{60, "BUENO"},
		{45, "REGULAR"},
		{44.9, "NECESITA MEJORA"},
		{0, "NECESITA MEJORA"},
	}
	for _, c := range cases {
		if got := Classify(c.score); got != c.want {
			t.Fatalf("Classify(%.1f) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestRecommendationsGating(t *testing.T) {
	e := NewTurnEvaluator()
	e.ScoreTurn("No sé.", domain.PersonalityNeutral, 1)

	recs := e.Recommendations(RunInfo{Satisfaccion: 30})
	if len(recs) != 4 {
		t.Fatalf("want one recommendation per weak criterion plus low satisfaction, got %d: %v", len(recs), recs)
	}

	good := NewTurnEvaluator()
	good.ScoreTurn("Lamento mucho su situación, entiendo su frustración, primero voy a resolver esto y le enviaré la confirmación.", domain.PersonalityEnojado, 1)
	recs = good.Recommendations(RunInfo{Satisfaccion: 95})
	if len(recs) != 2 || !strings.Contains(recs[0], "Mantener") {
		t.Fatalf("clean run should get the keep-it-up pair, got %v", recs)
	}
}

func TestJSONReportShape(t *testing.T) {
	e := NewTurnEvaluator()
	e.ScoreTurn("Entiendo el problema, voy a resolver esto con el primer paso hoy mismo.", domain.PersonalityNeutral, 1)

	historial := []domain.Message{
		{Turno: 0, Rol: domain.RoleCliente, Contenido: "hola"},
		{Turno: 1, Rol: domain.RoleAgente, Contenido: "respuesta"},
	}
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	rep := e.JSONReport(RunInfo{
		Canal:        domain.ChannelChat,
		Personalidad: domain.PersonalityNeutral,
		Problema:     "pedido demorado",
		Satisfaccion: 65,
		Paciencia:    -5,
	}, historial, now)

	if rep.FechaEvaluacion != "2026-03-14T10:00:00Z" {
		t.Fatalf("fecha_evaluacion = %q", rep.FechaEvaluacion)
	}
	if rep.EstadoCliente.Paciencia != 0 {
		t.Fatalf("negative patience must clamp to 0, got %d", rep.EstadoCliente.Paciencia)
	}
	if len(rep.Metricas.Criterios) != 3 {
		t.Fatalf("want 3 criterion summaries, got %d", len(rep.Metricas.Criterios))
	}
	if len(rep.Historial) != 2 || rep.Historial[1].Rol != domain.RoleAgente {
		t.Fatalf("transcript not carried into report: %+v", rep.Historial)
	}
	if len(rep.PuntajesPorTurno) != 1 {
		t.Fatalf("want 1 per-turn score, got %d", len(rep.PuntajesPorTurno))
	}
}

func TestNarrativeReportSections(t *testing.T) {
	e := NewTurnEvaluator()
	e.ScoreTurn("Entiendo el problema, voy a resolver esto con el primer paso hoy mismo.", domain.PersonalityNeutral, 1)

	out := e.NarrativeReport(RunInfo{
		Canal:        domain.ChannelEmail,
		Personalidad: domain.PersonalityNeutral,
		Problema:     "cobro duplicado",
		Satisfaccion: 70,
		Paciencia:    80,
	}, time.Now())

	for _, section := range []string{
		"PUNTAJES GENERALES", "DESGLOSE POR CRITERIO", "ANÁLISIS DETALLADO",
		"ESTADO FINAL DEL CLIENTE", "RECOMENDACIONES", "EMAIL", "cobro duplicado",
	} {
		if !strings.Contains(out, section) {
			t.Fatalf("narrative report missing %q:\n%s", section, out)
		}
	}
}
