package rubric

import "testing"

func TestTurnRubricWeightsSumToOne(t *testing.T) {
	if err := TurnRubric().Validate(); err != nil {
		t.Fatalf("turn rubric invalid: %v", err)
	}
}

func TestConversationRubricWeightsSumToOne(t *testing.T) {
	if err := ConversationRubric().Validate(); err != nil {
		t.Fatalf("conversation rubric invalid: %v", err)
	}
}

func TestConversationRubricCriteriaComplete(t *testing.T) {
	r := ConversationRubric()
	for _, c := range r.Criterios {
		if len(c.Escala) != 5 {
			t.Fatalf("criterion %s has %d scale levels, want 5", c.Nombre, len(c.Escala))
		}
		for nivel := 1; nivel <= 5; nivel++ {
			if c.Escala[nivel] == "" {
				t.Fatalf("criterion %s missing scale level %d", c.Nombre, nivel)
			}
		}
		if len(c.IndicadoresPositivos) == 0 || len(c.IndicadoresNegativos) == 0 {
			t.Fatalf("criterion %s missing indicators", c.Nombre)
		}
	}
}

func TestValidateRejectsBadWeights(t *testing.T) {
	r := Rubric{Criterios: []Criterion{
		{Nombre: "a", Peso: 0.5},
		{Nombre: "b", Peso: 0.4},
	}}
	if err := r.Validate(); err == nil {
		t.Fatal("expected weight-sum error, got nil")
	}
}

func TestCriterioLookup(t *testing.T) {
	r := TurnRubric()
	c, ok := r.Criterio(Claridad)
	if !ok {
		t.Fatal("claridad not found in turn rubric")
	}
	if c.Peso != 0.30 {
		t.Fatalf("claridad weight = %.2f, want 0.30", c.Peso)
	}
	if _, ok := r.Criterio("inexistente"); ok {
		t.Fatal("unexpected hit for unknown criterion")
	}
}
