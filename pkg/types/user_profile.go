package types

import "github.com/lumeworks/lume-backend/pkg/enums"

// BusinessAddress is the postal address embedded in a buyer profile.
type BusinessAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// BusinessInfo captures the organization details attached to a user.
type BusinessInfo struct {
	CompanyName  string              `json:"company_name,omitempty"`
	BusinessType *enums.BusinessType `json:"business_type,omitempty"`
	Industry     string              `json:"industry,omitempty"`
	BusinessSize *enums.BusinessSize `json:"business_size,omitempty"`
	TaxID        string              `json:"tax_id,omitempty"`
	Address      *BusinessAddress    `json:"address,omitempty"`
}

// PriceRange bounds the preferred spend per line.
type PriceRange struct {
	MinCents *int64 `json:"min_cents,omitempty"`
	MaxCents *int64 `json:"max_cents,omitempty"`
}

// NotificationSettings stores per-channel opt-ins.
type NotificationSettings struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// Preferences captures buyer personalization used by the recommendation feed.
type Preferences struct {
	Categories           []string              `json:"categories,omitempty"`
	PriceRange           *PriceRange           `json:"price_range,omitempty"`
	PreferredBrands      []string              `json:"preferred_brands,omitempty"`
	NotificationSettings *NotificationSettings `json:"notification_settings,omitempty"`
}

// Specifications holds free-form physical product attributes.
type Specifications struct {
	Weight     string `json:"weight,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
	Material   string `json:"material,omitempty"`
	Color      string `json:"color,omitempty"`
}
