package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Personality identifies the behavioral profile of a simulated client.
type Personality string

const (
	PersonalityEnojado    Personality = "enojado"
	PersonalityAnsioso    Personality = "ansioso"
	PersonalityNeutral    Personality = "neutral"
	PersonalityConfundido Personality = "confundido"
	PersonalityImpaciente Personality = "impaciente"
)

// Personalities lists every defined personality in declaration order.
func Personalities() []Personality {
	return []Personality{
		PersonalityEnojado,
		PersonalityAnsioso,
		PersonalityNeutral,
		PersonalityConfundido,
		PersonalityImpaciente,
	}
}

func ParsePersonality(raw string) (Personality, error) {
	for _, p := range Personalities() {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown personality: %q", raw)
}

func (p *Personality) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParsePersonality(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Channel is the communication channel the simulated client uses.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelChat     Channel = "chat"
	ChannelTelefono Channel = "telefono"
)

func Channels() []Channel {
	return []Channel{ChannelWhatsApp, ChannelEmail, ChannelChat, ChannelTelefono}
}

func ParseChannel(raw string) (Channel, error) {
	for _, c := range Channels() {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel: %q", raw)
}

func (c *Channel) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseChannel(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SessionState tracks the forward-only lifecycle of a conversation.
// Transitions: iniciando -> en_progreso -> resolviendo -> finalizado.
type SessionState string

const (
	StateIniciando   SessionState = "iniciando"
	StateEnProgreso  SessionState = "en_progreso"
	StateResolviendo SessionState = "resolviendo"
	StateFinalizado  SessionState = "finalizado"
)

func ParseSessionState(raw string) (SessionState, error) {
	switch SessionState(raw) {
	case StateIniciando, StateEnProgreso, StateResolviendo, StateFinalizado:
		return SessionState(raw), nil
	}
	return "", fmt.Errorf("unknown session state: %q", raw)
}

func (s *SessionState) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseSessionState(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// rank orders session states so transitions can be validated as forward-only.
func (s SessionState) rank() int {
	switch s {
	case StateIniciando:
		return 0
	case StateEnProgreso:
		return 1
	case StateResolviendo:
		return 2
	case StateFinalizado:
		return 3
	}
	return -1
}

// CanTransition reports whether moving from s to next respects the
// forward-only state machine. Staying in place is allowed.
func (s SessionState) CanTransition(next SessionState) bool {
	return next.rank() >= s.rank()
}

// Role of a message author within the conversation.
const (
	RoleCliente = "cliente"
	RoleAgente  = "agente"
)

// Scenario is one scripted support problem, loaded at startup and immutable.
type Scenario struct {
	ID              string   `json:"id"`
	Titulo          string   `json:"titulo"`
	Descripcion     string   `json:"descripcion"`
	Complejidad     string   `json:"complejidad"` // baja, media, alta
	Area            string   `json:"area"`
	PalabrasClave   []string `json:"palabras_clave"`
	PasosEsperados  []string `json:"pasos_esperados"`
	TurnosEstimados int      `json:"turnos_estimados"`
}

// SimulationConfig fixes the parameters of one training run.
type SimulationConfig struct {
	Personalidad    Personality `json:"personalidad"`
	Canal           Channel     `json:"canal"`
	Escenario       Scenario    `json:"escenario"`
	TimestampInicio time.Time   `json:"timestamp_inicio"`
	DuracionMaxima  int         `json:"duracion_maxima"`
	NivelDificultad float64     `json:"nivel_dificultad"`
}

// Message is one turn of the dialogue. Immutable once appended.
type Message struct {
	Turno     int               `json:"turno"`
	Rol       string            `json:"rol"`
	Contenido string            `json:"contenido"`
	Timestamp time.Time         `json:"timestamp"`
	Metadatos map[string]string `json:"metadatos,omitempty"`
}

// Session is the full per-session conversation state. It is owned by the
// session manager: callers mutate it only through append/update operations.
type Session struct {
	SesionID      string           `json:"sesion_id"`
	Configuracion SimulationConfig `json:"configuracion"`
	Estado        SessionState     `json:"estado_actual"`
	Historial     []Message        `json:"historial"`
	DatosClave    map[string]bool  `json:"datos_clave_mencionados"`
	Emociones     []string         `json:"emociones_cliente"`
}

// LastTurn returns the highest turn index in the history, or -1 when empty.
func (s *Session) LastTurn() int {
	if len(s.Historial) == 0 {
		return -1
	}
	return s.Historial[len(s.Historial)-1].Turno
}

// Evidence is a quoted fragment backing a criterion score.
type Evidence struct {
	Criterio string `json:"criterio"`
	Turno    int    `json:"turno"`
	Extracto string `json:"extracto"`
	Impacto  string `json:"impacto"` // positivo, negativo, neutral
}

// CriterionResult is the outcome for a single rubric criterion (1-5 scale).
type CriterionResult struct {
	Nombre        string     `json:"nombre"`
	Puntaje       int        `json:"puntaje"`
	Peso          float64    `json:"peso"`
	Justificacion string     `json:"justificacion"`
	Evidencias    []Evidence `json:"evidencias"`
}

// EvaluationReport is the immutable result of a whole-conversation
// evaluation. The global score lives on a 0-100 scale.
type EvaluationReport struct {
	SesionID            string             `json:"sesion_id"`
	TimestampEvaluacion time.Time          `json:"timestamp_evaluacion"`
	PersonalidadCliente Personality        `json:"personalidad_cliente"`
	Canal               Channel            `json:"canal"`
	Escenario           Scenario           `json:"escenario"`
	Criterios           []CriterionResult  `json:"criterios"`
	PuntajeGlobal       float64            `json:"puntaje_global"`
	Fortalezas          []string           `json:"fortalezas"`
	OportunidadesMejora []string           `json:"oportunidades_mejora"`
	Recomendaciones     []string           `json:"recomendaciones"`
	Metricas            map[string]float64 `json:"metricas"`
	ResumenEjecutivo    string             `json:"resumen_ejecutivo"`
}
