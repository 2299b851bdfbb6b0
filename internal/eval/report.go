package eval

import (
	"fmt"
	"math"
	"strings"
	"time"

	"autobot/internal/domain"
	"autobot/internal/rubric"
)

// RunInfo carries the simulation parameters and final client state a
// report needs alongside the accumulated scores.
type RunInfo struct {
	Canal              domain.Channel
	Personalidad       domain.Personality
	Problema           string
	Satisfaccion       int
	Paciencia          int
	SatisfaccionMinima int
}

// HeuristicReport is the persisted JSON form of a heuristic evaluation.
type HeuristicReport struct {
	FechaEvaluacion     string            `json:"fecha_evaluacion"`
	ConfiguracionPrueba RunConfigSummary  `json:"configuracion_prueba"`
	Metricas            ReportMetrics     `json:"metricas"`
	EstadoCliente       ClientFinalState  `json:"estado_cliente"`
	Historial           []TranscriptEntry `json:"historial"`
	PuntajesPorTurno    []float64         `json:"puntajes_por_turno"`
}

type RunConfigSummary struct {
	Canal        domain.Channel     `json:"canal"`
	Personalidad domain.Personality `json:"personalidad"`
	Problema     string             `json:"problema"`
}

type ReportMetrics struct {
	PuntajeGeneral float64                     `json:"puntaje_general"`
	NumeroTurnos   int                         `json:"numero_turnos"`
	Criterios      map[string]CriterionSummary `json:"criterios"`
}

type CriterionSummary struct {
	Puntaje     float64 `json:"puntaje"`
	Peso        float64 `json:"peso"`
	Descripcion string  `json:"descripcion"`
}

type ClientFinalState struct {
	Satisfaccion int `json:"satisfaccion"`
	Paciencia    int `json:"paciencia"`
}

type TranscriptEntry struct {
	Turno   int    `json:"turno"`
	Rol     string `json:"rol"`
	Mensaje string `json:"mensaje"`
}

// JSONReport builds the persisted report from the accumulated scores,
// the run parameters and the transcript.
func (e *TurnEvaluator) JSONReport(info RunInfo, historial []domain.Message, now time.Time) HeuristicReport {
	snap := e.Snapshot()

	criterios := make(map[string]CriterionSummary, len(e.weights.Criterios))
	for _, c := range e.weights.Criterios {
		criterios[c.Nombre] = CriterionSummary{
			Puntaje:     round2(criterionMean(snap, c.Nombre)),
			Peso:        c.Peso,
			Descripcion: c.Descripcion,
		}
	}

	entries := make([]TranscriptEntry, 0, len(historial))
	for _, m := range historial {
		entries = append(entries, TranscriptEntry{Turno: m.Turno, Rol: m.Rol, Mensaje: m.Contenido})
	}

	return HeuristicReport{
		FechaEvaluacion: now.Format(time.RFC3339),
		ConfiguracionPrueba: RunConfigSummary{
			Canal:        info.Canal,
			Personalidad: info.Personalidad,
			Problema:     info.Problema,
		},
		Metricas: ReportMetrics{
			PuntajeGeneral: round2(snap.PuntajeGeneral),
			NumeroTurnos:   snap.Turnos,
			Criterios:      criterios,
		},
		EstadoCliente: ClientFinalState{
			Satisfaccion: info.Satisfaccion,
			Paciencia:    max(0, info.Paciencia),
		},
		Historial:        entries,
		PuntajesPorTurno: e.TurnScores(),
	}
}

// NarrativeReport renders the human-readable evaluation shown at the end
// of a training run.
func (e *TurnEvaluator) NarrativeReport(info RunInfo, now time.Time) string {
	snap := e.Snapshot()

	var b strings.Builder
	b.WriteString("INFORME DE EVALUACIÓN - AGENTE\n")
	b.WriteString(divider)
	fmt.Fprintf(&b, "Fecha: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Canal: %s\n", strings.ToUpper(string(info.Canal)))
	fmt.Fprintf(&b, "Personalidad del cliente: %s\n", strings.ToUpper(string(info.Personalidad)))
	fmt.Fprintf(&b, "Problema simulado: %s\n", info.Problema)
	fmt.Fprintf(&b, "Número de turnos: %d\n\n", snap.Turnos)

	b.WriteString("PUNTAJES GENERALES\n")
	b.WriteString(divider)
	fmt.Fprintf(&b, "Puntaje General: %.1f/100\n", snap.PuntajeGeneral)
	fmt.Fprintf(&b, "Clasificación: %s\n\n", Classify(snap.PuntajeGeneral))

	b.WriteString("DESGLOSE POR CRITERIO\n")
	b.WriteString(divider)
	fmt.Fprintf(&b, "├─ Empatía:      %.1f/100 (Peso: 35%%)\n", snap.Empatia)
	fmt.Fprintf(&b, "├─ Claridad:     %.1f/100 (Peso: 30%%)\n", snap.Claridad)
	fmt.Fprintf(&b, "└─ Resolución:   %.1f/100 (Peso: 35%%)\n\n", snap.Resolucion)

	b.WriteString("ANÁLISIS DETALLADO\n")
	b.WriteString(divider)
	b.WriteString(analysisText(rubric.Empatia, snap.Empatia))
	b.WriteString(analysisText(rubric.Claridad, snap.Claridad))
	b.WriteString(analysisText(rubric.Resolucion, snap.Resolucion))

	b.WriteString("ESTADO FINAL DEL CLIENTE\n")
	b.WriteString(divider)
	fmt.Fprintf(&b, "Satisfacción: %d/100\n", info.Satisfaccion)
	fmt.Fprintf(&b, "Paciencia restante: %d/100\n\n", max(0, info.Paciencia))

	b.WriteString("RECOMENDACIONES\n")
	b.WriteString(divider)
	for _, r := range e.Recommendations(info) {
		b.WriteString("• " + r + "\n")
	}
	return b.String()
}

const divider = "────────────────────────────────────────────────────────\n"

// Classify maps an overall score to the five-tier label.
func Classify(score float64) string {
	switch {
	case score >= 90:
		return "EXCELENTE"
	case score >= 75:
		return "MUY BUENO"
	case score >= 60:
		return "BUENO"
	case score >= 45:
		return "REGULAR"
	default:
		return "NECESITA MEJORA"
	}
}

// Recommendations lists the improvement actions the run warrants. Every
// criterion below 70 contributes one, low final satisfaction another, and
// a clean run gets the keep-it-up pair instead.
func (e *TurnEvaluator) Recommendations(info RunInfo) []string {
	snap := e.Snapshot()
	var recs []string
	if snap.Empatia < 70 {
		recs = append(recs, "Practicar técnicas de escucha activa y validación emocional")
	}
	if snap.Claridad < 70 {
		recs = append(recs, "Estructurar mejor las respuestas y usar lenguaje más simple")
	}
	if snap.Resolucion < 70 {
		recs = append(recs, "Ser más proactivo en ofrecer soluciones concretas")
	}
	if info.Satisfaccion < 50 {
		recs = append(recs, "Revisar el enfoque general de atención al cliente")
	}
	if info.SatisfaccionMinima > 0 && info.Satisfaccion < info.SatisfaccionMinima {
		recs = append(recs, fmt.Sprintf(
			"El cliente %s esperaba una satisfacción de al menos %d/100; ajustar el trato a ese perfil",
			info.Personalidad, info.SatisfaccionMinima))
	}
	if len(recs) == 0 {
		recs = append(recs,
			"Mantener el excelente nivel de servicio",
			"Continuar desarrollando las habilidades actuales")
	}
	return recs
}

func analysisText(criterion string, score float64) string {
	type tier struct{ alto, medio, bajo string }
	texts := map[string]tier{
		rubric.Empatia: {
			alto: "✓ Empatía: El agente demostró excelente capacidad para comprender " +
				"y responder a las emociones del cliente.\n\n",
			medio: "⚠ Empatía: El agente mostró empatía básica pero puede mejorar en " +
				"el reconocimiento y validación de las emociones del cliente.\n\n",
			bajo: "✗ Empatía: El agente necesita trabajar en demostrar comprensión " +
				"hacia las emociones del cliente. Respuestas muy técnicas o frías.\n\n",
		},
		rubric.Claridad: {
			alto: "✓ Claridad: Comunicación clara y efectiva. Mensajes bien " +
				"estructurados y fáciles de entender.\n\n",
			medio: "⚠ Claridad: Comunicación aceptable pero mejorable. Algunas " +
				"respuestas podrían ser más claras o mejor estructuradas.\n\n",
			bajo: "✗ Claridad: La comunicación fue confusa o poco clara. Se recomienda " +
				"usar lenguaje más simple y estructurar mejor las respuestas.\n\n",
		},
		rubric.Resolucion: {
			alto: "✓ Resolución: Excelente enfoque en resolver el problema. Propuso " +
				"soluciones concretas y acciones específicas.\n\n",
			medio: "⚠ Resolución: Intentó resolver el problema pero podría ser más " +
				"proactivo y específico en las soluciones propuestas.\n\n",
			bajo: "✗ Resolución: Poca orientación a la solución del problema. Se " +
				"recomienda ser más concreto y ofrecer acciones específicas.\n\n",
		},
	}
	t := texts[criterion]
	switch {
	case score >= 75:
		return t.alto
	case score >= 50:
		return t.medio
	default:
		return t.bajo
	}
}

func criterionMean(snap Snapshot, name string) float64 {
	switch name {
	case rubric.Empatia:
		return snap.Empatia
	case rubric.Claridad:
		return snap.Claridad
	case rubric.Resolucion:
		return snap.Resolucion
	}
	return 0
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
