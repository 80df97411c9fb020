package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC.
// Anything unrecognized falls back to DESC, newest first.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a requested sort column against a whitelist.
// Sort columns are interpolated into ORDER BY clauses, so anything not on
// the list is replaced with defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields are the columns every table carries.
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields lists the sortable user columns.
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// ProviderSortFields lists the sortable consignor columns.
var ProviderSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"code":            true,
	"name":            true,
	"email":           true,
	"status":          true,
	"commission_rate": true,
}

// ItemSortFields lists the sortable inventory columns.
var ItemSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"sku":         true,
	"name":        true,
	"category":    true,
	"status":      true,
	"price":       true,
	"provider_id": true,
	"listed_at":   true,
	"sold_at":     true,
}

// TransactionSortFields lists the sortable sale columns.
var TransactionSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"sale_date":       true,
	"sale_price":      true,
	"provider_amount": true,
	"shop_amount":     true,
	"status":          true,
	"channel":         true,
	"payment_method":  true,
	"sync_status":     true,
}

// PayoutSortFields lists the sortable payout batch columns.
var PayoutSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"provider_id":  true,
	"total_amount": true,
	"status":       true,
	"paid_at":      true,
	"sync_status":  true,
}

// StatementSortFields lists the sortable statement columns.
var StatementSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"provider_id": true,
	"year":        true,
	"month":       true,
}

// OrderSortFields lists the sortable storefront order columns.
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total_amount": true,
	"paid_at":      true,
}
