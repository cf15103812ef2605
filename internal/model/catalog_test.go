package model

import (
	"testing"
)

func TestNewGroupingKey_Stability(t *testing.T) {
	tests := []struct {
		name string
		a    [4]string
		b    [4]string
		same bool
	}{
		{
			name: "casing and whitespace are canonicalized",
			a:    [4]string{"PROGRESSIF", "QUATTRO", "1.60", "MISTRAL"},
			b:    [4]string{" progressif ", "quattro", "1.60", " Mistral "},
			same: true,
		},
		{
			name: "inner whitespace runs collapse",
			a:    [4]string{"UNIFOCAL", "ECO  HD", "1.50", "QUATTRO  UV"},
			b:    [4]string{"UNIFOCAL", "ECO HD", "1.50", "QUATTRO UV"},
			same: true,
		},
		{
			name: "comma decimal separator normalizes",
			a:    [4]string{"PROGRESSIF", "QUATTRO", "1,60", "MISTRAL"},
			b:    [4]string{"PROGRESSIF", "QUATTRO", "1.60", "MISTRAL"},
			same: true,
		},
		{
			name: "distinct designs never collide",
			a:    [4]string{"PROGRESSIF", "QUATTRO", "1.60", "MISTRAL"},
			b:    [4]string{"PROGRESSIF", "QUATTRO HD", "1.60", "MISTRAL"},
			same: false,
		},
		{
			name: "distinct coatings never collide",
			a:    [4]string{"PROGRESSIF", "QUATTRO", "1.60", "MISTRAL"},
			b:    [4]string{"PROGRESSIF", "QUATTRO", "1.60", "B-PROTECT"},
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := NewGroupingKey(tt.a[0], tt.a[1], tt.a[2], tt.a[3])
			kb := NewGroupingKey(tt.b[0], tt.b[1], tt.b[2], tt.b[3])
			if (ka == kb) != tt.same {
				t.Errorf("NewGroupingKey: got %q vs %q, want same=%v", ka, kb, tt.same)
			}
		})
	}
}

func TestIndexMatches(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.5", "1.50", true},
		{"1,50", "1.50", true},
		{"1.6", "1.5", false},
		{"1.60", "1.6", true},
		{"1.67", "1.67", true},
		{"", "1.50", false},
	}

	for _, tt := range tests {
		if got := IndexMatches(tt.a, tt.b); got != tt.want {
			t.Errorf("IndexMatches(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCatalogItem_Validate(t *testing.T) {
	item := CatalogItem{ID: 1, Name: "ECO 1.50 MISTRAL", PurchasePrice: 25}
	if err := item.Validate(); err != nil {
		t.Errorf("valid item rejected: %v", err)
	}

	item.PurchasePrice = -1
	if err := item.Validate(); err == nil {
		t.Error("negative purchase price accepted")
	}

	item = CatalogItem{ID: 2, PurchasePrice: 10}
	if err := item.Validate(); err == nil {
		t.Error("unnamed item accepted")
	}
}

func TestCatalogBrand(t *testing.T) {
	if got := CatalogBrand(BrandOrus); got != BrandCodir {
		t.Errorf("CatalogBrand(ORUS) = %q, want CODIR", got)
	}
	if got := CatalogBrand(BrandHoya); got != BrandHoya {
		t.Errorf("CatalogBrand(HOYA) = %q, want HOYA", got)
	}
}
