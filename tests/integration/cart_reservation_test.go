package integration

import (
	"context"
	"testing"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/consignmentgenie/backend/internal/domain/identity"
	"github.com/consignmentgenie/backend/internal/domain/inventory"
	"github.com/consignmentgenie/backend/internal/domain/storefront"
	"github.com/consignmentgenie/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cartTestSetup provides a shop with one available item and cart/item repos
type cartTestSetup struct {
	DB       *TestDB
	CartRepo *persistence.GormCartRepository
	ItemRepo *persistence.GormItemRepository
	Shop     *identity.Organization
	Item     *inventory.Item
}

func newCartTestSetup(t *testing.T) *cartTestSetup {
	t.Helper()

	testDB := NewTestDB(t)
	ctx := context.Background()

	orgRepo := persistence.NewGormOrganizationRepository(testDB.DB)
	providerRepo := persistence.NewGormProviderRepository(testDB.DB)
	itemRepo := persistence.NewGormItemRepository(testDB.DB)
	cartRepo := persistence.NewGormCartRepository(testDB.DB)

	shop, err := identity.NewOrganization("Cart Shop", "cart-shop", "cart@example.test")
	require.NoError(t, err)
	require.NoError(t, orgRepo.Save(ctx, shop))

	provider, err := consignment.NewProvider(shop.ID, "PRV-001", "Cart Provider", decimal.NewFromInt(60))
	require.NoError(t, err)
	require.NoError(t, providerRepo.Save(ctx, provider))

	item, err := inventory.NewItem(shop.ID, provider.ID, "SKU-CART", "Vintage Lamp", decimal.NewFromInt(42))
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, item))

	return &cartTestSetup{
		DB:       testDB,
		CartRepo: cartRepo,
		ItemRepo: itemRepo,
		Shop:     shop,
		Item:     item,
	}
}

func TestCartReservation_UniqueIndexBlocksSecondCart(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := newCartTestSetup(t)
	ctx := context.Background()

	cartA, err := storefront.NewAnonymousCart(setup.Shop.ID, "session-a")
	require.NoError(t, err)
	added, err := cartA.AddItem(setup.Item.ID, setup.Item.Name, setup.Item.Price)
	require.NoError(t, err)
	require.True(t, added)
	require.NoError(t, setup.CartRepo.Save(ctx, cartA))

	// A second cart trying to hold the same item hits the reservation index
	cartB, err := storefront.NewAnonymousCart(setup.Shop.ID, "session-b")
	require.NoError(t, err)
	added, err = cartB.AddItem(setup.Item.ID, setup.Item.Name, setup.Item.Price)
	require.NoError(t, err)
	require.True(t, added)

	err = setup.CartRepo.Save(ctx, cartB)
	assert.ErrorIs(t, err, storefront.ErrItemReserved)
}

func TestCartReservation_ReleasedWhenCartDeleted(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := newCartTestSetup(t)
	ctx := context.Background()

	cartA, err := storefront.NewAnonymousCart(setup.Shop.ID, "session-a")
	require.NoError(t, err)
	_, err = cartA.AddItem(setup.Item.ID, setup.Item.Name, setup.Item.Price)
	require.NoError(t, err)
	require.NoError(t, setup.CartRepo.Save(ctx, cartA))

	require.NoError(t, setup.CartRepo.Delete(ctx, setup.Shop.ID, cartA.ID))

	// Cart rows cascade to their lines, freeing the reservation
	cartB, err := storefront.NewAnonymousCart(setup.Shop.ID, "session-b")
	require.NoError(t, err)
	_, err = cartB.AddItem(setup.Item.ID, setup.Item.Name, setup.Item.Price)
	require.NoError(t, err)
	require.NoError(t, setup.CartRepo.Save(ctx, cartB))
}

func TestCartReservation_FindCartHoldingItem(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := newCartTestSetup(t)
	ctx := context.Background()

	cart, err := storefront.NewAnonymousCart(setup.Shop.ID, "session-a")
	require.NoError(t, err)
	_, err = cart.AddItem(setup.Item.ID, setup.Item.Name, setup.Item.Price)
	require.NoError(t, err)
	require.NoError(t, setup.CartRepo.Save(ctx, cart))

	holder, err := setup.CartRepo.FindCartHoldingItem(ctx, setup.Shop.ID, setup.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, holder.ID)
}
