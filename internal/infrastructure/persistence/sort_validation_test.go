package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE sales;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"table field is allowed", "invoice_number", "invoice_number"},
		{"common field is allowed", "updated_at", "updated_at"},
		{"unknown field returns default", "password_hash", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE sales;--", "created_at"},
		{"case sensitive", "INVOICE_NUMBER", "created_at"},
		{"whitespace around valid field", "  sale_date ", "sale_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, SaleSortFields, "created_at"))
		})
	}
}

func TestWithCommon(t *testing.T) {
	fields := withCommon("sku")
	assert.True(t, fields["sku"])
	assert.True(t, fields["id"])
	assert.False(t, fields["name"])
	assert.False(t, CommonSortFields["sku"], "base set must not be mutated")
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%a4 paper%", likePattern("  A4 Paper "))
}
