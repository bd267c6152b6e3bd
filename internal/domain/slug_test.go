package domain_test

import (
	"testing"

	"github.com/Leganyst/rental-console/internal/domain"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Mesa Redonda", "mesa-redonda"},
		{"Cadeira Plástica Ação", "cadeira-plastica-acao"},
		{"  Toalha   de  Mesa  ", "toalha-de-mesa"},
		{"Pula-Pula\tGrande", "pula-pula-grande"},
		{"ÁRVORE DE NATAL", "arvore-de-natal"},
		{"Louça Fina", "louca-fina"},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := domain.Slug(tt.name); got != tt.want {
			t.Fatalf("Slug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
