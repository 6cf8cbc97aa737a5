package utils

import (
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	got := FormatMoney(1234.5, "pt-BR")
	if !strings.Contains(got, "R$") || !strings.Contains(got, "1.234,50") {
		t.Fatalf("unexpected pt-BR format %q", got)
	}
	if got := FormatMoney(10, "not a locale"); !strings.Contains(got, "R$") {
		t.Fatalf("expected BRL fallback, got %q", got)
	}
}
