package persona

import "autobot/internal/domain"

// Profile is the full behavioral definition of one client personality.
// Every personality in domain.Personalities has exactly one profile;
// the exhaustiveness is unit-tested.
type Profile struct {
	Tipo                     domain.Personality
	TonoPredominante         string
	Vocabulario              []string
	EmojisPermitidos         []string
	LongitudMensaje          [2]int
	PacienciaInicial         float64 // 0-1, scales the starting patience counter
	VelocidadEscalamiento    float64
	ProbabilidadInterrupcion float64
	PalabrasCalmantes        []string
	PalabrasIrritantes       []string
	ReaccionAEmpatia         string
	ReaccionASolucionRapida  string
	ReaccionADerivacion      string
	ReaccionADemora          string
	SatisfaccionMinima       float64 // 0-1
	InformacionRequerida     []string

	// Aperturas are opening-line templates; %s receives the scenario problem.
	Aperturas []string
	// RespuestasAltas / RespuestasBajas are the canned reply tiers, picked
	// when the agent's turn scores above or at-most 70.
	RespuestasAltas []string
	RespuestasBajas []string
}

var profileTable = map[domain.Personality]Profile{
	domain.PersonalityEnojado: {
		Tipo:             domain.PersonalityEnojado,
		TonoPredominante: "agresivo y demandante, con uso ocasional de mayúsculas",
		Vocabulario: []string{
			"URGENTE", "inaceptable", "ya es la tercera vez", "esto es el colmo",
		},
		EmojisPermitidos:         []string{"😡", "😤", "⏰"},
		LongitudMensaje:          [2]int{15, 40},
		PacienciaInicial:         0.3,
		VelocidadEscalamiento:    0.8,
		ProbabilidadInterrupcion: 0.3,
		PalabrasCalmantes: []string{
			"lamento", "disculpa", "entiendo su frustración",
		},
		PalabrasIrritantes: []string{
			"política de la empresa", "no está en mis manos", "tendrá que esperar",
		},
		ReaccionAEmpatia:        "Eso está bien, pero necesito una solución ahora mismo.",
		ReaccionASolucionRapida: "Ya era hora. Quiero confirmación escrita de eso.",
		ReaccionADerivacion:     "No me deriven más, ya hablé con varias personas.",
		ReaccionADemora:         "¿Otra vez esperar? Esto es inaceptable.",
		SatisfaccionMinima:      0.6,
		InformacionRequerida:    []string{"fecha_compromiso", "responsable", "compensacion"},
		Aperturas: []string{
			"¡Estoy HARTO! %s ¡Quiero una solución YA!",
			"Esto es INACEPTABLE. %s ¿Qué van a hacer al respecto?",
			"¡No puede ser! %s Llevo esperando mucho tiempo.",
		},
		RespuestasAltas: []string{
			"Bueno, eso suena mejor. ¿Y cuándo se resolverá?",
			"Ok, al menos están haciendo algo. ¿Qué sigue?",
			"Me parece bien, pero quiero confirmación escrita.",
		},
		RespuestasBajas: []string{
			"¡Eso no es suficiente! ¡Necesito más que palabras!",
			"¿En serio? ¡No me está ayudando en nada!",
			"Esto es ridículo. ¿Tienen supervisor?",
		},
	},
	domain.PersonalityAnsioso: {
		Tipo:             domain.PersonalityAnsioso,
		TonoPredominante: "preocupado e inseguro, pide confirmaciones constantes",
		Vocabulario: []string{
			"estoy muy nervioso", "¿está seguro?", "¿y si sale mal?",
		},
		EmojisPermitidos:         []string{"😰", "🙏", "😔"},
		LongitudMensaje:          [2]int{20, 45},
		PacienciaInicial:         0.6,
		VelocidadEscalamiento:    0.5,
		ProbabilidadInterrupcion: 0.2,
		PalabrasCalmantes: []string{
			"tranquil", "no se preocupe", "seguro",
		},
		PalabrasIrritantes: []string{
			"no puedo asegurar", "veremos", "quizás",
		},
		ReaccionAEmpatia:        "Gracias... eso me tranquiliza un poco. ¿Pero está seguro?",
		ReaccionASolucionRapida: "¡Qué alivio! ¿Me avisarán apenas esté listo?",
		ReaccionADerivacion:     "¿Y la otra persona va a tener toda mi información?",
		ReaccionADemora:         "¿Cuánto más? Estoy muy nervioso con todo esto...",
		SatisfaccionMinima:      0.7,
		InformacionRequerida:    []string{"plazo_resolucion", "confirmacion_escrita"},
		Aperturas: []string{
			"Hola, estoy muy preocupado... %s ¿Me pueden ayudar pronto?",
			"Disculpe, necesito ayuda urgente. %s Estoy muy nervioso.",
			"Por favor, %s ¿Cuánto tiempo tomará resolverlo?",
		},
		RespuestasAltas: []string{
			"Oh, gracias... eso me tranquiliza un poco. ¿Pero está seguro?",
			"Vale, pero ¿y si algo sale mal? ¿Qué hago?",
			"Entiendo, muchas gracias. ¿Me avisarán cuando esté listo?",
		},
		RespuestasBajas: []string{
			"Ay no... no entiendo. Estoy más preocupado ahora...",
			"¿Y si eso no funciona? ¿Qué hago entonces?",
			"Me está poniendo más nervioso... ¿hay otra opción?",
		},
	},
	domain.PersonalityNeutral: {
		Tipo:             domain.PersonalityNeutral,
		TonoPredominante: "cordial y concreto, sin carga emocional",
		Vocabulario: []string{
			"de acuerdo", "siguiente paso", "información adicional",
		},
		EmojisPermitidos:         []string{"🙂", "👍"},
		LongitudMensaje:          [2]int{10, 30},
		PacienciaInicial:         1.0,
		VelocidadEscalamiento:    0.2,
		ProbabilidadInterrupcion: 0.05,
		PalabrasCalmantes:        []string{"con gusto", "enseguida"},
		PalabrasIrritantes:       []string{"es obvio", "ya lo expliqué"},
		ReaccionAEmpatia:         "Gracias por la comprensión. ¿Cuál es el plan concreto?",
		ReaccionASolucionRapida:  "Perfecto, proceda entonces.",
		ReaccionADerivacion:      "De acuerdo, siempre que quede claro quién se hace cargo.",
		ReaccionADemora:          "Entiendo. ¿Tienen una fecha estimada al menos?",
		SatisfaccionMinima:       0.6,
		InformacionRequerida:     []string{"plazo_resolucion"},
		Aperturas: []string{
			"Hola, %s ¿Pueden ayudarme?",
			"Buenos días, tengo un problema: %s",
			"Necesito asistencia con lo siguiente: %s",
		},
		RespuestasAltas: []string{
			"Entendido. ¿Cuál es el siguiente paso?",
			"De acuerdo. ¿Cuánto tiempo tomará?",
			"Perfecto. ¿Necesitan alguna información adicional?",
		},
		RespuestasBajas: []string{
			"No me queda claro. ¿Puede explicar mejor?",
			"Entiendo, pero eso no resuelve mi problema.",
			"Ok, pero ¿cuál es la solución concreta?",
		},
	},
	domain.PersonalityConfundido: {
		Tipo:             domain.PersonalityConfundido,
		TonoPredominante: "cordial pero inseguro, pide aclaraciones con frecuencia",
		Vocabulario: []string{
			"no termino de entender", "¿podrías explicarme?", "me perdí",
		},
		EmojisPermitidos:         []string{"🤔", "🙂"},
		LongitudMensaje:          [2]int{20, 45},
		PacienciaInicial:         0.8,
		VelocidadEscalamiento:    0.3,
		ProbabilidadInterrupcion: 0.1,
		PalabrasCalmantes: []string{
			"te explico paso a paso", "no te preocupes",
		},
		PalabrasIrritantes: []string{
			"es obvio", "fijate en el manual", "ya lo expliqué",
		},
		ReaccionAEmpatia:        "Gracias, valoro que te tomes el tiempo.",
		ReaccionASolucionRapida: "¡Qué bueno! ¿Me mandan las instrucciones por escrito?",
		ReaccionADerivacion:     "¿Creés que la otra persona tendrá toda la info?",
		ReaccionADemora:         "¿Podemos verlo hoy? Me ayudaría mucho.",
		SatisfaccionMinima:      0.7,
		InformacionRequerida:    []string{"instrucciones", "plazo_resolucion"},
		Aperturas: []string{
			"No entiendo bien... %s ¿Qué debo hacer?",
			"Estoy perdido, %s ¿Me pueden explicar?",
			"Disculpe, no sé cómo... %s",
		},
		RespuestasAltas: []string{
			"Ah ok, creo que voy entendiendo... ¿entonces debo...?",
			"Vale, eso tiene más sentido. ¿Y después?",
			"Gracias por explicar. ¿Podrían enviarme las instrucciones?",
		},
		RespuestasBajas: []string{
			"Sigo sin entender... ¿pueden explicarlo más simple?",
			"Perdón, pero me confundí más. ¿Qué significa eso?",
			"No sé de qué me habla... ¿tienen algún tutorial?",
		},
	},
	domain.PersonalityImpaciente: {
		Tipo:             domain.PersonalityImpaciente,
		TonoPredominante: "apurado y cortante, enfocado en tiempos",
		Vocabulario: []string{
			"rápido", "no tengo tiempo", "solución express",
		},
		EmojisPermitidos:         []string{"⏰", "😤"},
		LongitudMensaje:          [2]int{8, 20},
		PacienciaInicial:         0.4,
		VelocidadEscalamiento:    0.7,
		ProbabilidadInterrupcion: 0.25,
		PalabrasCalmantes:        []string{"ahora mismo", "de inmediato"},
		PalabrasIrritantes: []string{
			"tendrá que esperar", "en unos días", "paciencia",
		},
		ReaccionAEmpatia:        "Ok, ok, pero vamos al punto. ¿Qué van a hacer?",
		ReaccionASolucionRapida: "Perfecto, proceda entonces. Rápido.",
		ReaccionADerivacion:     "¿Derivarme? Eso es más tiempo perdido.",
		ReaccionADemora:         "Muy lento. Necesito algo inmediato.",
		SatisfaccionMinima:      0.6,
		InformacionRequerida:    []string{"fecha_compromiso"},
		Aperturas: []string{
			"%s Necesito esto resuelto rápido.",
			"Voy con prisa. %s ¿Tienen una solución rápida?",
			"%s No tengo mucho tiempo.",
		},
		RespuestasAltas: []string{
			"Bien, pero que sea rápido por favor.",
			"Ok, ¿cuánto tiempo exactamente?",
			"Perfecto, proceda entonces. Rápido.",
		},
		RespuestasBajas: []string{
			"Eso va a tomar mucho tiempo. ¿No hay algo más rápido?",
			"No tengo tiempo para esto. ¿Solución express?",
			"Muy lento. Necesito algo inmediato.",
		},
	},
}

// ProfileFor returns the profile for a personality. The table covers every
// defined personality, so the lookup never misses for parsed values.
func ProfileFor(p domain.Personality) Profile {
	return profileTable[p]
}
