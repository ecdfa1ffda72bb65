package sqlstore

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type builtQuery struct {
	sql  string
	vars []any
}

// dryRun returns a store whose queries are built but never sent, and the
// last SELECT it built.
func dryRun(t *testing.T) (*store, *builtQuery) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "shop:secret@tcp(127.0.0.1:3306)/storefront?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	last := &builtQuery{}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		last.sql = tx.Statement.SQL.String()
		last.vars = append([]any(nil), tx.Statement.Vars...)
	}))
	return &store{db: db}, last
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"lamp", "lamp"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\tmp`, `c:\\tmp`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeLike(tt.in))
		})
	}
}

func TestProductRepo_ListQuery(t *testing.T) {
	tests := []struct {
		name         string
		filter       domain.ProductFilter
		expectedSQL  []string
		expectedVars []any
	}{
		{
			name:        "default order",
			filter:      domain.ProductFilter{},
			expectedSQL: []string{"ORDER BY created_at DESC,id DESC"},
		},
		{
			name:         "search and category",
			filter:       domain.ProductFilter{Search: "Half_Off", Category: domain.CategoryBooks, Sort: domain.SortPriceLow},
			expectedSQL:  []string{"LOWER(name) LIKE ? OR LOWER(description) LIKE ?", "category = ?", "ORDER BY price ASC,id ASC"},
			expectedVars: []any{`%half\_off%`, `%half\_off%`, domain.CategoryBooks},
		},
		{
			name:        "name descending",
			filter:      domain.ProductFilter{Sort: domain.SortNameDesc},
			expectedSQL: []string{"ORDER BY name DESC,id DESC"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, last := dryRun(t)
			_, err := s.Products().List(context.Background(), tt.filter)
			require.NoError(t, err)

			for _, frag := range tt.expectedSQL {
				assert.Contains(t, last.sql, frag)
			}
			if tt.expectedVars != nil {
				assert.Equal(t, tt.expectedVars, last.vars)
			}
		})
	}
}

func TestProductRepo_FindForUpdateLocksRow(t *testing.T) {
	s, last := dryRun(t)
	_, err := s.Products().FindForUpdate(context.Background(), 7)
	require.NoError(t, err)
	assert.Contains(t, last.sql, "FOR UPDATE")

	_, err = s.Products().FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.NotContains(t, last.sql, "FOR UPDATE")
}
