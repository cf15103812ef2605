package storage

import (
	"context"
	"testing"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
	"github.com/podium-optique/podium/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLenses() []model.CatalogItem {
	return []model.CatalogItem{
		{
			Code:          "H100",
			Name:          "LIFESTYLE 4",
			Brand:         "HOYA",
			Type:          model.GeometryProgressive,
			Index:         "1,60",
			Design:        "LIFESTYLE",
			Coating:       "HVLL",
			Flow:          model.FlowFabrication,
			PurchasePrice: 80,
			NetworkPrices: map[model.Network]float64{
				model.NetworkKalixia:    190,
				model.NetworkSanteclair: 185,
			},
		},
		{
			Code:                 "C300",
			Name:                 "EVOLIS ECO",
			Brand:                "codir",
			Type:                 model.GeometryUnifocal,
			Index:                "1.50",
			Design:               "EVOLIS",
			Coating:              "MISTRAL",
			Flow:                 model.FlowStock,
			PurchasePrice:        20,
			PurchasePriceBonifie: 15,
		},
	}
}

func TestReplaceCatalogAndFetch(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceCatalog(ctx, testLenses()))

	items, err := store.FetchCatalog(ctx, service.CatalogFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Brands and indices are normalized on write.
	assert.Equal(t, "HOYA", items[0].Brand)
	assert.Equal(t, "1.60", items[0].Index)
	assert.Equal(t, "CODIR", items[1].Brand)

	assert.Equal(t, 190.0, items[0].NegotiatedPrice(model.NetworkKalixia))
	assert.Equal(t, 185.0, items[0].NegotiatedPrice(model.NetworkSanteclair))
	assert.Equal(t, 0.0, items[1].NegotiatedPrice(model.NetworkKalixia))

	// A replace drops rows absent from the new snapshot.
	require.NoError(t, store.ReplaceCatalog(ctx, testLenses()[:1]))
	count, err := store.GetCatalogCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFetchCatalogFilters(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceCatalog(ctx, testLenses()))

	items, err := store.FetchCatalog(ctx, service.CatalogFilter{Brand: "codir"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "C300", items[0].Code)

	items, err = store.FetchCatalog(ctx, service.CatalogFilter{Type: model.GeometryProgressive})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "H100", items[0].Code)

	items, err = store.FetchCatalog(ctx, service.CatalogFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSaveCatalogItemsUpsertsByCode(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceCatalog(ctx, testLenses()))

	update := []model.CatalogItem{
		{
			Code:          "C300",
			Name:          "EVOLIS ECO",
			Brand:         "CODIR",
			Type:          model.GeometryUnifocal,
			Index:         "1.50",
			Design:        "EVOLIS",
			Coating:       "MISTRAL",
			PurchasePrice: 22,
		},
	}
	require.NoError(t, store.SaveCatalogItems(ctx, update))

	count, err := store.GetCatalogCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	items, err := store.FetchCatalog(ctx, service.CatalogFilter{Brand: "CODIR"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 22.0, items[0].PurchasePrice)
}

func TestGetCatalogItem(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceCatalog(ctx, testLenses()))

	items, err := store.FetchCatalog(ctx, service.CatalogFilter{Brand: "HOYA"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item, err := store.GetCatalogItem(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "H100", item.Code)
	assert.Equal(t, 190.0, item.NegotiatedPrice(model.NetworkKalixia))

	_, err = store.GetCatalogItem(ctx, 99999)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetCatalogItem(ctx, 0)
	assert.Error(t, err)
}

func TestGetBrands(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceCatalog(ctx, testLenses()))

	brands, err := store.GetBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CODIR", "HOYA"}, brands)
}

func TestCatalogWriteValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	err := store.ReplaceCatalog(ctx, nil)
	assert.Error(t, err)

	err = store.ReplaceCatalog(ctx, []model.CatalogItem{})
	assert.Error(t, err)

	err = store.ReplaceCatalog(ctx, []model.CatalogItem{{Name: "NO CODE", Brand: "HOYA"}})
	assert.ErrorIs(t, err, ErrInvalidLens)

	err = store.ReplaceCatalog(ctx, []model.CatalogItem{{Code: "X", Brand: "HOYA"}})
	assert.ErrorIs(t, err, ErrInvalidLens)

	err = store.ReplaceCatalog(ctx, []model.CatalogItem{{
		Code: "X", Name: "X", Brand: "HOYA",
		NetworkPrices: map[model.Network]float64{"NOT_A_NETWORK": 100},
	}})
	assert.ErrorIs(t, err, ErrInvalidNetwork)

	err = store.ReplaceCatalog(ctx, []model.CatalogItem{
		{Code: "X", Name: "X", Brand: "HOYA"},
		{Code: "x", Name: "X BIS", Brand: "HOYA"},
	})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}
