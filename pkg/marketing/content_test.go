package marketing

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

// two categories with one subcategory and one service each
func contentTestSnapshot(t *testing.T) (*Snapshot, *fakeCatalogStore) {
	t.Helper()

	cleaning := types.Category{ID: primitive.NewObjectID(), Slug: "cleaning", Name: "Cleaning", Order: 1}
	plumbing := types.Category{ID: primitive.NewObjectID(), Slug: "plumbing", Name: "Plumbing", Order: 2}

	cleaningSub := types.SubCategory{ID: primitive.NewObjectID(), Name: "Home Cleaning", ParentID: cleaning.ID.Hex()}
	plumbingSub := types.SubCategory{ID: primitive.NewObjectID(), Name: "Leaks", ParentID: plumbing.ID.Hex()}

	deepCleaning := types.CatalogItem{
		ID: primitive.NewObjectID(), Slug: "deep-cleaning", Name: "Deep Cleaning",
		IsActive: true, Rating: 4.8, ReviewCount: 100, SubCategoryID: cleaningSub.ID.Hex(),
	}
	tapRepair := types.CatalogItem{
		ID: primitive.NewObjectID(), Slug: "tap-repair", Name: "Tap Repair",
		IsActive: true, Rating: 4.5, ReviewCount: 60, SubCategoryID: plumbingSub.ID.Hex(),
	}

	catalog := &fakeCatalogStore{
		services:      []types.CatalogItem{deepCleaning, tapRepair},
		categories:    []types.Category{cleaning, plumbing},
		subCategories: []types.SubCategory{cleaningSub, plumbingSub},
	}
	snapshot, err := BuildSnapshot(catalog, "https://wecanfix.example")
	if err != nil {
		t.Fatalf("failed to build snapshot: %v", err)
	}
	return snapshot, catalog
}

func TestBuildUserContentCategoryFallbackChain(t *testing.T) {
	snapshot, catalog := contentTestSnapshot(t)
	plumbingCategoryID := catalog.categories[1].ID.Hex()
	cleaningServiceID := catalog.services[0].ID.Hex()

	cart := &types.Cart{
		Items: []types.CartItem{{ServiceID: cleaningServiceID, Quantity: 1}},
	}

	t.Run("explicit override wins over cart-derived category", func(t *testing.T) {
		content := BuildUserContent(snapshot, cart, plumbingCategoryID, "https://wecanfix.example")
		if !strings.Contains(content.CategoryServices, "Tap Repair") {
			t.Errorf("expected override category services, got %q", content.CategoryServices)
		}
		if strings.Contains(content.CategoryServices, "Deep Cleaning") {
			t.Errorf("cart-derived category must not leak into override block")
		}
	})

	t.Run("cart-derived category without override", func(t *testing.T) {
		content := BuildUserContent(snapshot, cart, "", "https://wecanfix.example")
		if !strings.Contains(content.CategoryServices, "Deep Cleaning") {
			t.Errorf("expected cart-derived category services, got %q", content.CategoryServices)
		}
	})

	t.Run("empty block when neither applies", func(t *testing.T) {
		content := BuildUserContent(snapshot, nil, "", "https://wecanfix.example")
		if content.CategoryServices != "" {
			t.Errorf("expected empty category services, got %q", content.CategoryServices)
		}
	})
}

func TestBuildUserContentCartBlocks(t *testing.T) {
	snapshot, catalog := contentTestSnapshot(t)
	cleaningServiceID := catalog.services[0].ID.Hex()

	t.Run("cart lines with quantities", func(t *testing.T) {
		cart := &types.Cart{
			Items: []types.CartItem{
				{ServiceID: cleaningServiceID, Quantity: 2},
				{ServiceID: "unknown-id", Quantity: 1},
			},
		}
		content := BuildUserContent(snapshot, cart, "", "https://wecanfix.example")

		if !strings.Contains(content.CartItems, "Deep Cleaning (×2)") {
			t.Errorf("expected quantity line, got %q", content.CartItems)
		}
		if !strings.Contains(content.CartItems, "Item (×1)") {
			t.Errorf("expected fallback label for unresolvable id, got %q", content.CartItems)
		}
		if content.CartItemName != "Deep Cleaning" {
			t.Errorf("cart item name must be the first resolved name without quantity, got %q", content.CartItemName)
		}
	})

	t.Run("empty cart defaults", func(t *testing.T) {
		content := BuildUserContent(snapshot, nil, "", "https://wecanfix.example")
		if content.CartItems != "" {
			t.Errorf("expected empty cart block, got %q", content.CartItems)
		}
		if content.CartItemName != DEFAULT_CART_ITEM_NAME {
			t.Errorf("expected default cart item name, got %q", content.CartItemName)
		}
		if content.CartLink != "https://wecanfix.example/cart" {
			t.Errorf("unexpected cart link: %q", content.CartLink)
		}
	})
}
