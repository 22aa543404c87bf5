package domain

// Category represents a content-catalog category or subcategory.
// Assets always belong to exactly one category.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	AssetCount   int    `json:"asset_count"`
	PremiumCount int    `json:"premium_count"`
}
