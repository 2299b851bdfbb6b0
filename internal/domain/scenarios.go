package domain

// Catalog holds the static scenario list. Loaded once, never mutated.
var catalog = []Scenario{
	{
		ID:          "ESC-001",
		Titulo:      "Pedido sin entregar",
		Descripcion: "mi pedido no ha llegado después de una semana",
		Complejidad: "media",
		Area:        "logistica",
		PalabrasClave: []string{
			"pedido", "entrega", "una semana", "tracking",
		},
		PasosEsperados: []string{
			"Pedir disculpas genuinas",
			"Verificar estado del pedido con el código",
			"Ofrecer envío express sin costo adicional",
			"Proveer tracking en tiempo real",
			"Comprometer fecha y hora de entrega",
		},
		TurnosEstimados: 6,
	},
	{
		ID:          "ESC-002",
		Titulo:      "Cobro duplicado",
		Descripcion: "me cobraron dos veces el mismo producto",
		Complejidad: "media",
		Area:        "administracion",
		PalabrasClave: []string{
			"facturación", "duplicado", "reintegro", "transferencia",
		},
		PasosEsperados: []string{
			"Validar las facturas reportadas",
			"Confirmar el error y disculparse",
			"Iniciar devolución inmediata por transferencia",
			"Enviar comprobante en un plazo de 48 horas hábiles",
			"Ofrecer bono o descuento compensatorio",
		},
		TurnosEstimados: 6,
	},
	{
		ID:          "ESC-003",
		Titulo:      "Producto defectuoso",
		Descripcion: "el producto llegó defectuoso y quiero un reembolso",
		Complejidad: "alta",
		Area:        "calidad",
		PalabrasClave: []string{
			"defectuoso", "reembolso", "reemplazo", "garantía",
		},
		PasosEsperados: []string{
			"Reconocer la gravedad del problema",
			"Ofrecer retiro del producto sin costo",
			"Gestionar reemplazo o reembolso a elección",
			"Emitir comprobante de garantía",
			"Ofrecer compensación económica",
		},
		TurnosEstimados: 8,
	},
	{
		ID:          "ESC-004",
		Titulo:      "Cuenta bloqueada",
		Descripcion: "no puedo acceder a mi cuenta, olvidé mi contraseña",
		Complejidad: "baja",
		Area:        "soporte",
		PalabrasClave: []string{
			"cuenta", "contraseña", "acceso", "recuperación",
		},
		PasosEsperados: []string{
			"Verificar identidad del titular",
			"Explicar el proceso de recuperación paso a paso",
			"Enviar enlace de restablecimiento",
			"Confirmar acceso restablecido",
		},
		TurnosEstimados: 4,
	},
	{
		ID:          "ESC-005",
		Titulo:      "Servicio cancelado sin aviso",
		Descripcion: "el servicio se canceló sin previo aviso",
		Complejidad: "alta",
		Area:        "ventas",
		PalabrasClave: []string{
			"cancelación", "aviso", "reactivación", "contrato",
		},
		PasosEsperados: []string{
			"Disculparse por la falta de aviso",
			"Investigar la causa de la cancelación",
			"Reactivar el servicio de inmediato",
			"Ofrecer compensación por el tiempo sin servicio",
			"Asignar responsable con contacto directo",
		},
		TurnosEstimados: 8,
	},
	{
		ID:          "ESC-006",
		Titulo:      "Cambio de dirección urgente",
		Descripcion: "necesito cambiar mi dirección de envío urgentemente",
		Complejidad: "baja",
		Area:        "logistica",
		PalabrasClave: []string{
			"dirección", "envío", "urgente", "modificación",
		},
		PasosEsperados: []string{
			"Verificar que el envío no haya salido del depósito",
			"Registrar la nueva dirección",
			"Confirmar el cambio por escrito",
			"Informar la nueva fecha estimada",
		},
		TurnosEstimados: 4,
	},
	{
		ID:          "ESC-007",
		Titulo:      "Producto distinto a la descripción",
		Descripcion: "el producto no es lo que esperaba según la descripción",
		Complejidad: "media",
		Area:        "ventas",
		PalabrasClave: []string{
			"descripción", "expectativa", "devolución", "cambio",
		},
		PasosEsperados: []string{
			"Escuchar el reclamo sin discutir la percepción",
			"Ofrecer cambio o devolución sin cargo",
			"Explicar las opciones disponibles",
			"Confirmar la gestión elegida",
		},
		TurnosEstimados: 5,
	},
	{
		ID:          "ESC-008",
		Titulo:      "Baja de suscripción",
		Descripcion: "quiero cancelar mi suscripción pero no encuentro cómo",
		Complejidad: "baja",
		Area:        "soporte",
		PalabrasClave: []string{
			"suscripción", "cancelar", "baja", "facturación",
		},
		PasosEsperados: []string{
			"Explicar el proceso de baja paso a paso",
			"Confirmar que no habrá nuevos cobros",
			"Ofrecer alternativas antes de la baja",
			"Enviar confirmación escrita",
		},
		TurnosEstimados: 4,
	},
}

// Scenarios returns the full catalog in declaration order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(catalog))
	copy(out, catalog)
	return out
}

// ScenarioByID looks a scenario up by id; ok is false when absent.
func ScenarioByID(id string) (Scenario, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}
