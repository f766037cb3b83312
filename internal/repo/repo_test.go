package repo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return &GormRepo{DB: db}
}

func createProduct(t *testing.T, r *GormRepo, name string, stock int) models.Product {
	t.Helper()

	p := models.Product{
		Name:        name,
		Description: name,
		Price:       decimal.NewFromInt(100),
		Stock:       stock,
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}
