// Package models provides the data structures used throughout the application.
package models

// DefaultCategoryColor is used when a provisioned category has no color of
// its own.
const DefaultCategoryColor = "#6B7280"

// UncategorizedName labels expenses and feedback without a category.
const UncategorizedName = "no category"

// Category is a spending category. Global categories have no owner and are
// visible to every user.
type Category struct {
	ID          int64    `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Color       string   `json:"color" yaml:"color"`
	OwnerUserID *int64   `json:"owner_user_id,omitempty" yaml:"owner_user_id,omitempty"`
	IsGlobal    bool     `json:"is_global" yaml:"is_global"`
}

// OwnedBy reports whether the category belongs to userID.
func (c Category) OwnedBy(userID int64) bool {
	return c.OwnerUserID != nil && *c.OwnerUserID == userID
}

// DefaultCategory is one entry of the well-known category table used for
// auto-provisioning.
type DefaultCategory struct {
	Name     string   `yaml:"name"`
	Color    string   `yaml:"color"`
	Keywords []string `yaml:"keywords"`
}

// DefaultCategoryTable is the ordered default category table as stored in
// YAML.
type DefaultCategoryTable struct {
	Version    int               `yaml:"version"`
	Categories []DefaultCategory `yaml:"categories"`
}

// Lookup returns the default entry with the given name.
func (t DefaultCategoryTable) Lookup(name string) (DefaultCategory, bool) {
	for _, c := range t.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return DefaultCategory{}, false
}

// CategoryName returns the category's name, or UncategorizedName for nil.
func CategoryName(c *Category) string {
	if c == nil || c.Name == "" {
		return UncategorizedName
	}
	return c.Name
}
