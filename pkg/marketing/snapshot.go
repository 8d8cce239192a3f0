package marketing

import (
	"sort"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

const (
	POPULAR_SERVICES_LIMIT   = 5
	POPULAR_CATEGORIES_LIMIT = 5
)

// SharedBlocks are the content fragments that are identical for every user in
// a run. They are computed exactly once per snapshot.
type SharedBlocks struct {
	PopularServices   string
	PopularCategories string
	AllServices       string
	AllCategories     string
}

// Snapshot is the in-memory copy of the active catalog for one automation
// run. It is read-only shared state and safe for concurrent use.
type Snapshot struct {
	serviceByID        map[string]types.CatalogItem
	subCategoryByID    map[string]types.SubCategory
	servicesByCategory map[string][]types.CatalogItem

	Blocks SharedBlocks
}

func BuildSnapshot(catalog CatalogStore, websiteURL string) (*Snapshot, error) {
	services, err := catalog.GetActiveServices()
	if err != nil {
		return nil, err
	}
	categories, err := catalog.GetCategories()
	if err != nil {
		return nil, err
	}
	subCategories, err := catalog.GetSubCategories()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		serviceByID:        make(map[string]types.CatalogItem, len(services)),
		subCategoryByID:    make(map[string]types.SubCategory, len(subCategories)),
		servicesByCategory: map[string][]types.CatalogItem{},
	}

	for _, service := range services {
		snap.serviceByID[service.ID.Hex()] = service
	}
	for _, subCategory := range subCategories {
		snap.subCategoryByID[subCategory.ID.Hex()] = subCategory
	}

	// group active services under their subcategory's parent category
	for _, service := range services {
		subCategory, ok := snap.subCategoryByID[service.SubCategoryID]
		if !ok {
			continue
		}
		snap.servicesByCategory[subCategory.ParentID] = append(snap.servicesByCategory[subCategory.ParentID], service)
	}
	for categoryID := range snap.servicesByCategory {
		grouped := snap.servicesByCategory[categoryID]
		sort.Slice(grouped, func(i, j int) bool { return grouped[i].Name < grouped[j].Name })
	}

	snap.Blocks = buildSharedBlocks(services, categories, websiteURL)
	return snap, nil
}

func buildSharedBlocks(services []types.CatalogItem, categories []types.Category, websiteURL string) SharedBlocks {
	popular := make([]types.CatalogItem, len(services))
	copy(popular, services)
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Rating != popular[j].Rating {
			return popular[i].Rating > popular[j].Rating
		}
		return popular[i].ReviewCount > popular[j].ReviewCount
	})
	if len(popular) > POPULAR_SERVICES_LIMIT {
		popular = popular[:POPULAR_SERVICES_LIMIT]
	}

	popularCategories := categories
	if len(popularCategories) > POPULAR_CATEGORIES_LIMIT {
		popularCategories = popularCategories[:POPULAR_CATEGORIES_LIMIT]
	}

	allServices := make([]types.CatalogItem, len(services))
	copy(allServices, services)
	sort.Slice(allServices, func(i, j int) bool { return allServices[i].Name < allServices[j].Name })

	return SharedBlocks{
		PopularServices:   RenderLinkList(serviceLinks(popular, websiteURL)),
		PopularCategories: RenderLinkList(categoryLinks(popularCategories, websiteURL)),
		AllServices:       RenderLinkList(serviceLinks(allServices, websiteURL)),
		AllCategories:     RenderLinkList(categoryLinks(categories, websiteURL)),
	}
}

func (snap *Snapshot) ServiceByID(serviceID string) (types.CatalogItem, bool) {
	service, ok := snap.serviceByID[serviceID]
	return service, ok
}

// CategoryServices returns the active services under all subcategories of the
// given category, ordered by name.
func (snap *Snapshot) CategoryServices(categoryID string) []types.CatalogItem {
	return snap.servicesByCategory[categoryID]
}

// CategoryIDForService resolves a service to its parent category via the
// subcategory hierarchy.
func (snap *Snapshot) CategoryIDForService(serviceID string) (string, bool) {
	service, ok := snap.serviceByID[serviceID]
	if !ok {
		return "", false
	}
	subCategory, ok := snap.subCategoryByID[service.SubCategoryID]
	if !ok {
		return "", false
	}
	return subCategory.ParentID, true
}

func serviceLinks(services []types.CatalogItem, websiteURL string) []ContentLink {
	links := make([]ContentLink, 0, len(services))
	for _, service := range services {
		links = append(links, ContentLink{
			Label: service.Name,
			URL:   websiteURL + "/service/" + service.Slug,
		})
	}
	return links
}

func categoryLinks(categories []types.Category, websiteURL string) []ContentLink {
	links := make([]ContentLink, 0, len(categories))
	for _, category := range categories {
		links = append(links, ContentLink{
			Label: category.Name,
			URL:   websiteURL + "/category/" + category.Slug,
		})
	}
	return links
}
