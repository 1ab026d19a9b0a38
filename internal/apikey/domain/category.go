package domain

import "strings"

// Category is the closed set of labels an API key can carry.
type Category string

const (
	CategoryPayment       Category = "Payment"
	CategorySocialMedia   Category = "Social Media"
	CategoryCloudServices Category = "Cloud Services"
	CategoryAnalytics     Category = "Analytics"
	CategoryEmail         Category = "Email"
	CategorySMS           Category = "SMS"
	CategoryDatabase      Category = "Database"
	CategoryOther         Category = "Other"

	// CategoryAll is the list filter sentinel meaning "no category filter". It is never stored.
	CategoryAll Category = "all"
)

// Categories returns every storable category in display order.
func Categories() []Category {
	return []Category{
		CategoryPayment,
		CategorySocialMedia,
		CategoryCloudServices,
		CategoryAnalytics,
		CategoryEmail,
		CategorySMS,
		CategoryDatabase,
		CategoryOther,
	}
}

// CategoryValues returns the categories as a slice of any, for use with validation.In.
func CategoryValues() []any {
	categories := Categories()
	values := make([]any, len(categories))
	for i, category := range categories {
		values[i] = string(category)
	}
	return values
}

// IsValid reports whether c is a storable category.
func (c Category) IsValid() bool {
	for _, category := range Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// IsAll reports whether c means "no filter" in a listing.
func (c Category) IsAll() bool {
	return c == "" || strings.EqualFold(string(c), string(CategoryAll))
}
