package marketing

import (
	"fmt"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

const (
	// fallback label for a cart item whose service id cannot be resolved
	UNRESOLVED_ITEM_LABEL = "Item"
	// fallback for {{cart_item_name}} when the cart block is empty
	DEFAULT_CART_ITEM_NAME = "Your items"
)

// UserContent holds the per-user rendered content blocks.
type UserContent struct {
	CategoryServices string
	CartItems        string
	CartItemName     string
	CartLink         string
}

// BuildUserContent assembles the cart-dependent personalization. The category
// services block prefers an explicit campaign override, then the category
// derived from the first cart item, and stays empty when neither applies.
func BuildUserContent(snap *Snapshot, cart *types.Cart, categoryOverride string, websiteURL string) UserContent {
	content := UserContent{
		CartItemName: DEFAULT_CART_ITEM_NAME,
		CartLink:     websiteURL + "/cart",
	}

	categoryID := categoryOverride
	if categoryID == "" && cart != nil && len(cart.Items) > 0 {
		if derived, ok := snap.CategoryIDForService(cart.Items[0].ServiceID); ok {
			categoryID = derived
		}
	}
	if categoryID != "" {
		content.CategoryServices = RenderLinkList(serviceLinks(snap.CategoryServices(categoryID), websiteURL))
	}

	if cart == nil || len(cart.Items) == 0 {
		return content
	}

	lines := make([]string, 0, len(cart.Items))
	for i, item := range cart.Items {
		name := UNRESOLVED_ITEM_LABEL
		if service, ok := snap.ServiceByID(item.ServiceID); ok {
			name = service.Name
		}
		if i == 0 {
			content.CartItemName = name
		}
		lines = append(lines, fmt.Sprintf("%s (×%d)", name, item.Quantity))
	}
	content.CartItems = RenderLineList(lines)
	return content
}
