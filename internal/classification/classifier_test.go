package classification

import (
	"testing"

	"github.com/podium-optique/podium/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_IsPhotochromic(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name string
		item model.CatalogItem
		want bool
	}{
		{
			name: "transitions in commercial name",
			item: model.CatalogItem{Name: "PROG HD 1.60 TRANSITIONS GEN 8"},
			want: true,
		},
		{
			name: "lowercase source formatting",
			item: model.CatalogItem{Name: "eco 1.50 transitions"},
			want: true,
		},
		{
			name: "hoya sensity in design field",
			item: model.CatalogItem{Name: "HOYALUX ID", Design: "SENSITY DARK"},
			want: true,
		},
		{
			name: "codir solactive in coating field",
			item: model.CatalogItem{Name: "ECO 1.50", Coating: "MISTRAL SOLACTIVE"},
			want: true,
		},
		{
			name: "clear lens",
			item: model.CatalogItem{Name: "PROG MAX 1.67 CLEAN", Coating: "QUATTRO UV"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsPhotochromic(tt.item))
		})
	}
}

func TestClassifier_CoatingFamilies(t *testing.T) {
	c := NewDefaultClassifier()

	assert.True(t, c.HasHMC("HMC BLUE"))
	assert.True(t, c.HasHMC("QUATTRO UV CLEAN"))
	assert.True(t, c.HasHMC("SRC-ONE"))
	assert.False(t, c.HasHMC("DURCI"))

	assert.True(t, c.HasBlueProtect("HMC BLUE"))
	assert.True(t, c.HasBlueProtect("B-PROTECT CLEAN"))
	assert.True(t, c.HasBlueProtect("HVLL BCUV"))
	assert.False(t, c.HasBlueProtect("MISTRAL"))
}

func TestClassifier_IsMyopiaControl(t *testing.T) {
	c := NewDefaultClassifier()

	assert.True(t, c.IsMyopiaControl("MIYOSMART 1.58"))
	assert.False(t, c.IsMyopiaControl("PROG HD 1.60 QUATTRO"))
}

func TestClassifier_IsStock(t *testing.T) {
	c := NewDefaultClassifier()

	assert.True(t, c.IsStock(model.CatalogItem{Flow: model.FlowStock}))
	assert.False(t, c.IsStock(model.CatalogItem{Flow: model.FlowFabrication, Name: "UNI STOCK 1.50"}))
	assert.True(t, c.IsStock(model.CatalogItem{Name: "UNI STOCK 1.50"}))
	assert.False(t, c.IsStock(model.CatalogItem{Name: "UNI FAB 1.50"}))
}

func TestClassifier_UpdateMarkers(t *testing.T) {
	c := NewClassifier(Markers{})

	item := model.CatalogItem{Name: "ECO TRANSITIONS"}
	assert.False(t, c.IsPhotochromic(item), "empty marker table must match nothing")

	c.UpdateMarkers(Markers{Photochromic: []string{"TRANSITION"}})
	assert.True(t, c.IsPhotochromic(item))
}
