// Package channel decorates outgoing client messages according to the
// communication channel in use. Decoration is cosmetic and never scored.
package channel

import (
	"fmt"
	"math/rand"

	"autobot/internal/domain"
)

// Traits describe the texture of a channel.
type Traits struct {
	LongitudMensaje string `json:"longitud_mensaje"`
	Formalidad      string `json:"formalidad"`
	Velocidad       string `json:"velocidad"`
	Expresividad    string `json:"expresividad"`
}

var traitTable = map[domain.Channel]Traits{
	domain.ChannelWhatsApp: {
		LongitudMensaje: "corto",
		Formalidad:      "informal",
		Velocidad:       "rapida",
		Expresividad:    "alta",
	},
	domain.ChannelEmail: {
		LongitudMensaje: "largo",
		Formalidad:      "formal",
		Velocidad:       "lenta",
		Expresividad:    "baja",
	},
	domain.ChannelChat: {
		LongitudMensaje: "medio",
		Formalidad:      "semi-formal",
		Velocidad:       "rapida",
		Expresividad:    "media",
	},
	domain.ChannelTelefono: {
		LongitudMensaje: "variable",
		Formalidad:      "informal",
		Velocidad:       "rapida",
		Expresividad:    "muy alta",
	},
}

// TraitsFor returns the trait set for a channel.
func TraitsFor(c domain.Channel) Traits {
	return traitTable[c]
}

var whatsappEmojis = []string{"😊", "👍", "🙏", "😔", "😤", "😰", "🤔", "⏰"}

// Adapt rewrites msg in the style of the channel. The rng drives the
// stochastic emoji pick on whatsapp; passing a seeded source makes the
// result deterministic.
func Adapt(msg string, c domain.Channel, rng *rand.Rand) string {
	switch c {
	case domain.ChannelWhatsApp:
		if rng.Float64() > 0.5 {
			return fmt.Sprintf("%s %s", msg, whatsappEmojis[rng.Intn(len(whatsappEmojis))])
		}
		return msg
	case domain.ChannelEmail:
		return fmt.Sprintf("Estimado/a,\n\n%s\n\nSaludos cordiales.", msg)
	case domain.ChannelChat:
		return msg
	case domain.ChannelTelefono:
		return fmt.Sprintf("[Tono de voz apropiado] %s", msg)
	}
	return msg
}
