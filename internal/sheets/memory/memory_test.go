package memory

import (
	"context"
	"testing"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

func TestAppend(t *testing.T) {
	s := New()
	ctx := context.Background()

	f := core.Financa{
		Tipo:     core.TipoSaida,
		Valor:    core.Money{Centavos: 5000},
		Parcelas: 1,
	}

	ref, err := s.Append(ctx, f)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q", ref)
	}

	ref, err = s.Append(ctx, f)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:2" {
		t.Fatalf("ref = %q", ref)
	}

	if got := len(s.Items()); got != 2 {
		t.Fatalf("items = %d", got)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.Append(context.Background(), core.Financa{Tipo: "x"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if got := len(s.Items()); got != 0 {
		t.Fatalf("invalid entry must not be stored, items = %d", got)
	}
}
