package emotion

import "testing"

func TestDetectEnojo(t *testing.T) {
	got := Detect("¡Estoy HARTO! Esto es INACEPTABLE.")
	if got != "enojo" {
		t.Fatalf("emotion=%s, want enojo", got)
	}
}

func TestDetectAnsiedad(t *testing.T) {
	got := Detect("Estoy muy preocupado, necesito ayuda pronto por favor")
	if got != "ansiedad" {
		t.Fatalf("emotion=%s, want ansiedad", got)
	}
}

func TestDetectConfusion(t *testing.T) {
	got := Detect("Perdón, no entiendo qué significa eso")
	if got != "confusion" {
		t.Fatalf("emotion=%s, want confusion", got)
	}
}

func TestDetectNeutralOnPlainText(t *testing.T) {
	if got := Detect("De acuerdo, continúe"); got != Neutral {
		t.Fatalf("emotion=%s, want neutral", got)
	}
	if got := Detect(""); got != Neutral {
		t.Fatalf("empty text emotion=%s, want neutral", got)
	}
}
