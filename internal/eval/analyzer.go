package eval

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"autobot/internal/domain"
	"autobot/internal/llm"
	"autobot/internal/rubric"
)

// ErrMalformedAssessment reports that a delegated criterion answer could
// not be parsed into the structured format.
var ErrMalformedAssessment = errors.New("malformed assessment")

var (
	scoreRe         = regexp.MustCompile(`PUNTAJE:\s*(\d)\b`)
	justificationRe = regexp.MustCompile(`(?s)JUSTIFICACION:\s*(.+?)(?:\nEVIDENCIAS:|$)`)
	evidenceRe      = regexp.MustCompile(`- Turno (\d+): "(.+?)" \(impacto=(positivo|negativo|neutral)\)`)
)

// ConversationAnalyzer grades a finished conversation by delegating each
// rubric criterion to a language model and assembling the answers into an
// EvaluationReport. Criteria are evaluated concurrently; results keep
// rubric order regardless of completion order.
type ConversationAnalyzer struct {
	provider    llm.Provider
	rubrica     rubric.Rubric
	timeout     time.Duration
	temperature float64
	maxTokens   int
}

func NewConversationAnalyzer(provider llm.Provider, timeout time.Duration) *ConversationAnalyzer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ConversationAnalyzer{
		provider:    provider,
		rubrica:     rubric.ConversationRubric(),
		timeout:     timeout,
		temperature: 0.3,
		maxTokens:   800,
	}
}

// Evaluate runs every rubric criterion against the session transcript.
// Any single malformed or failed criterion answer fails the whole
// evaluation.
func (a *ConversationAnalyzer) Evaluate(ctx context.Context, sess *domain.Session) (*domain.EvaluationReport, error) {
	results := make([]domain.CriterionResult, len(a.rubrica.Criterios))

	g, gctx := errgroup.WithContext(ctx)
	for i, criterion := range a.rubrica.Criterios {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, a.timeout)
			defer cancel()

			prompt := buildCriterionPrompt(sess, criterion)
			answer, err := a.provider.Generate(cctx, prompt, llm.Options{
				Temperature: a.temperature,
				MaxTokens:   a.maxTokens,
			})
			if err != nil {
				return fmt.Errorf("criterion %s: %w", criterion.Nombre, err)
			}

			result, err := parseCriterionAnswer(answer, criterion)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	global := 0.0
	for _, r := range results {
		global += float64(r.Puntaje) * r.Peso * 20
	}

	fortalezas, oportunidades := strengthsAndGaps(results)
	recomendaciones := make([]string, 0, len(oportunidades))
	for _, o := range oportunidades {
		recomendaciones = append(recomendaciones, "Desarrollar plan específico para: "+o)
	}

	return &domain.EvaluationReport{
		SesionID:            sess.SesionID,
		TimestampEvaluacion: time.Now().UTC(),
		PersonalidadCliente: sess.Configuracion.Personalidad,
		Canal:               sess.Configuracion.Canal,
		Escenario:           sess.Configuracion.Escenario,
		Criterios:           results,
		PuntajeGlobal:       global,
		Fortalezas:          fortalezas,
		OportunidadesMejora: oportunidades,
		Recomendaciones:     recomendaciones,
		Metricas: map[string]float64{
			"turnos_totales": float64(len(sess.Historial)),
		},
		ResumenEjecutivo: executiveSummary(global, fortalezas, oportunidades),
	}, nil
}

func buildCriterionPrompt(sess *domain.Session, c rubric.Criterion) string {
	var transcript strings.Builder
	for i, m := range sess.Historial {
		if i > 0 {
			transcript.WriteString("\n")
		}
		fmt.Fprintf(&transcript, "Turno %d (%s): %s", m.Turno, m.Rol, m.Contenido)
	}

	levels := make([]int, 0, len(c.Escala))
	for nivel := range c.Escala {
		levels = append(levels, nivel)
	}
	sort.Ints(levels)
	var escala strings.Builder
	for _, nivel := range levels {
		fmt.Fprintf(&escala, "%d: %s\n", nivel, c.Escala[nivel])
	}

	return fmt.Sprintf(
		"Evalúa el criterio %s para la siguiente conversación.\n\n"+
			"Descripción: %s\n"+
			"Escala:\n%s\n"+
			"Indicadores positivos:\n%s\n\n"+
			"Indicadores negativos:\n%s\n\n"+
			"Conversación completa:\n%s\n\n"+
			"Responde en formato estructurado:\n"+
			"PUNTAJE: <número>\n"+
			"JUSTIFICACION: <texto>\n"+
			"EVIDENCIAS:\n"+
			"- Turno <número>: \"cita literal\" (impacto=<positivo|negativo|neutral>)",
		c.Nombre, c.Descripcion, escala.String(),
		bulletList(c.IndicadoresPositivos), bulletList(c.IndicadoresNegativos),
		transcript.String(),
	)
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func parseCriterionAnswer(answer string, c rubric.Criterion) (domain.CriterionResult, error) {
	scoreMatch := scoreRe.FindStringSubmatch(answer)
	if scoreMatch == nil {
		return domain.CriterionResult{}, fmt.Errorf(
			"%w: criterion %s: no PUNTAJE line", ErrMalformedAssessment, c.Nombre)
	}
	puntaje, err := strconv.Atoi(scoreMatch[1])
	if err != nil || puntaje < 1 || puntaje > 5 {
		return domain.CriterionResult{}, fmt.Errorf(
			"%w: criterion %s: score %s outside 1-5", ErrMalformedAssessment, c.Nombre, scoreMatch[1])
	}

	justMatch := justificationRe.FindStringSubmatch(answer)
	if justMatch == nil {
		return domain.CriterionResult{}, fmt.Errorf(
			"%w: criterion %s: no JUSTIFICACION line", ErrMalformedAssessment, c.Nombre)
	}

	var evidencias []domain.Evidence
	for _, m := range evidenceRe.FindAllStringSubmatch(answer, -1) {
		turno, _ := strconv.Atoi(m[1])
		evidencias = append(evidencias, domain.Evidence{
			Criterio: c.Nombre,
			Turno:    turno,
			Extracto: m[2],
			Impacto:  m[3],
		})
	}

	return domain.CriterionResult{
		Nombre:        c.Nombre,
		Puntaje:       puntaje,
		Peso:          c.Peso,
		Justificacion: strings.TrimSpace(justMatch[1]),
		Evidencias:    evidencias,
	}, nil
}

func strengthsAndGaps(results []domain.CriterionResult) (fortalezas, oportunidades []string) {
	for _, r := range results {
		if r.Puntaje >= 4 {
			fortalezas = append(fortalezas,
				fmt.Sprintf("%s destacado con puntaje %d/5", r.Nombre, r.Puntaje))
		}
		if r.Puntaje <= 3 {
			oportunidades = append(oportunidades,
				fmt.Sprintf("Mejorar %s (puntaje %d/5)", r.Nombre, r.Puntaje))
		}
	}
	return fortalezas, oportunidades
}

func executiveSummary(global float64, fortalezas, oportunidades []string) string {
	encabezado := "Desempeño a mejorar"
	if global >= 70 {
		encabezado = "Desempeño general bueno"
	}
	fort := "sin fortalezas destacadas"
	if len(fortalezas) > 0 {
		fort = strings.Join(fortalezas, ", ")
	}
	opor := "sin oportunidades críticas"
	if len(oportunidades) > 0 {
		opor = strings.Join(oportunidades, ", ")
	}
	return fmt.Sprintf("%s. Puntaje global %.1f/100. Fortalezas: %s. Oportunidades: %s.",
		encabezado, global, fort, opor)
}
