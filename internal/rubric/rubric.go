// Package rubric defines the weighted criteria applied to agent
// performance. Two rubrics exist: the turn rubric used by the heuristic
// scorer (0-100 per criterion) and the conversation rubric used by the
// delegated analyzer (1-5 per criterion, projected to 0-100).
package rubric

import (
	"fmt"
	"math"
)

// WeightTolerance is the allowed drift when checking that weights sum to 1.
const WeightTolerance = 1e-6

type Criterion struct {
	Nombre               string
	Peso                 float64
	Descripcion          string
	Escala               map[int]string
	IndicadoresPositivos []string
	IndicadoresNegativos []string
}

// Rubric is an ordered criterion list. Order is significant: reports list
// criteria in declaration order.
type Rubric struct {
	Criterios []Criterion
}

// Validate checks the weight-sum invariant.
func (r Rubric) Validate() error {
	total := 0.0
	for _, c := range r.Criterios {
		total += c.Peso
	}
	if math.Abs(total-1.0) > WeightTolerance {
		return fmt.Errorf("rubric weights sum to %.6f, want 1.0", total)
	}
	return nil
}

// Criterio returns the named criterion; ok is false when absent.
func (r Rubric) Criterio(nombre string) (Criterion, bool) {
	for _, c := range r.Criterios {
		if c.Nombre == nombre {
			return c, true
		}
	}
	return Criterion{}, false
}

// Turn rubric criterion names.
const (
	Empatia    = "empatia"
	Claridad   = "claridad"
	Resolucion = "resolucion"
)

// TurnRubric weights the heuristic per-turn scorer. The weights mirror the
// conversation rubric so both engines agree on criterion importance.
func TurnRubric() Rubric {
	return Rubric{Criterios: []Criterion{
		{
			Nombre:      Empatia,
			Peso:        0.35,
			Descripcion: "Capacidad de comprender y responder a las emociones del cliente",
		},
		{
			Nombre:      Claridad,
			Peso:        0.30,
			Descripcion: "Comunicación clara y fácil de entender",
		},
		{
			Nombre:      Resolucion,
			Peso:        0.35,
			Descripcion: "Efectividad en resolver el problema del cliente",
		},
	}}
}

// ConversationRubric drives the whole-conversation LLM evaluation.
func ConversationRubric() Rubric {
	return Rubric{Criterios: []Criterion{
		{
			Nombre:      "empatia_y_tono",
			Peso:        0.35,
			Descripcion: "Capacidad de conectar emocionalmente con el cliente",
			Escala: map[int]string{
				1: "Sin empatía. Respuestas frías o robotizadas.",
				2: "Empatía mínima y poco personalizada.",
				3: "Empatía moderada con reconocimiento parcial del impacto.",
				4: "Buena empatía con validación emocional clara.",
				5: "Empatía excepcional y proactiva.",
			},
			IndicadoresPositivos: []string{
				"Usa el nombre del cliente",
				"Reconoce específicamente el problema",
				"Valida emociones",
				"Pide disculpas genuinas",
			},
			IndicadoresNegativos: []string{
				"Ignora el tono emocional",
				"Usa plantillas genéricas",
				"No ofrece disculpas",
				"Adopta un tono defensivo",
			},
		},
		{
			Nombre:      "claridad_y_comunicacion",
			Peso:        0.30,
			Descripcion: "Mensajes comprensibles, bien estructurados y sin ambigüedades",
			Escala: map[int]string{
				1: "Mensajes confusos o con contradicciones.",
				2: "Información desordenada que requiere aclaraciones.",
				3: "Comunicación aceptable con algunas dudas.",
				4: "Mensajes claros y completos.",
				5: "Comunicación impecable con resúmenes y énfasis correctos.",
			},
			IndicadoresPositivos: []string{
				"Uso de listas",
				"Resumen de pasos",
				"Lenguaje simple",
				"Confirmación de entendimiento",
			},
			IndicadoresNegativos: []string{
				"Respuestas ambiguas",
				"Uso excesivo de jerga",
				"Falta de estructura",
				"Bloques extensos sin separación",
			},
		},
		{
			Nombre:      "resolucion_y_proactividad",
			Peso:        0.35,
			Descripcion: "Capacidad de resolver el problema o avanzar hacia la solución",
			Escala: map[int]string{
				1: "No ofrece solución y deriva sin ownership.",
				2: "Propuestas vagas o insuficientes.",
				3: "Solución correcta pero con esfuerzo del cliente.",
				4: "Solución concreta y responsable.",
				5: "Solución excepcional con alternativas y anticipación.",
			},
			IndicadoresPositivos: []string{
				"Ofrece solución temprana",
				"Propone alternativas",
				"Asume responsabilidad",
				"Ofrece compensación",
				"Entrega plazos concretos",
			},
			IndicadoresNegativos: []string{
				"Deriva sin intento",
				"Soluciones vagas",
				"Sin compensación",
				"Sin comprometer plazos",
			},
		},
	}}
}
