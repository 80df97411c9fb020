package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty defaults to DESC", "", "DESC"},
		{"ASC passes through", "ASC", "ASC"},
		{"lowercase asc is normalized", "asc", "ASC"},
		{"DESC passes through", "DESC", "DESC"},
		{"garbage defaults to DESC", "sideways", "DESC"},
		{"injection attempt defaults to DESC", "ASC; DROP TABLE items;--", "DESC"},
		{"whitespace only defaults to DESC", "   ", "DESC"},
		{"surrounding whitespace is trimmed", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowed := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"sku":        true,
	}

	tests := []struct {
		name         string
		input        string
		defaultField string
		want         string
	}{
		{"empty falls back to default", "", "created_at", "created_at"},
		{"whitelisted column passes", "sku", "created_at", "sku"},
		{"unknown column falls back", "commission_rate", "created_at", "created_at"},
		{"injection attempt falls back", "sku; DROP TABLE items;--", "created_at", "created_at"},
		{"matching is case sensitive", "SKU", "created_at", "created_at"},
		{"whitespace only falls back", "   ", "created_at", "created_at"},
		{"surrounding whitespace is trimmed", "  sku  ", "created_at", "sku"},
		{"embedded space falls back", "sku items", "created_at", "created_at"},
		{"quote falls back", "sku'--", "created_at", "created_at"},
		{"empty default with unknown column", "commission_rate", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.input, allowed, tt.defaultField))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"UserSortFields":        UserSortFields,
		"ProviderSortFields":    ProviderSortFields,
		"ItemSortFields":        ItemSortFields,
		"TransactionSortFields": TransactionSortFields,
		"PayoutSortFields":      PayoutSortFields,
		"StatementSortFields":   StatementSortFields,
		"OrderSortFields":       OrderSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			// Every list covers the shared columns plus at least one of its own.
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, whitelist[field], "%s is missing %q", name, field)
			}
			assert.Greater(t, len(whitelist), 3)
		})
	}

	t.Run("domain columns stay scoped to their list", func(t *testing.T) {
		assert.True(t, ProviderSortFields["commission_rate"])
		assert.False(t, ItemSortFields["commission_rate"])
		assert.True(t, ItemSortFields["sold_at"])
		assert.False(t, OrderSortFields["sold_at"])
	})
}

func TestSortValidationRejectsInjection(t *testing.T) {
	payloads := []string{
		"id; DROP TABLE providers;--",
		"id' OR '1'='1",
		"id UNION SELECT * FROM users",
		"id, (SELECT secret FROM settings)",
		"CASE WHEN 1=1 THEN id ELSE sku END",
		"id/**/;DROP TABLE items",
		"id\n; DROP TABLE items",
		"' OR ''='",
	}

	for _, payload := range payloads {
		assert.Equal(t, "created_at", ValidateSortField(payload, ItemSortFields, "created_at"))
		assert.Equal(t, "DESC", ValidateSortOrder(payload))
	}
}
