package services_test

import (
	"context"
	"testing"

	"tdc_backend/internal/config"
	"tdc_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceService_SeedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ref := config.ReferenceConfig{
		Categories: []config.CategorySeed{
			{Name: "BDS", RegularAmount: 5000, TatkalAmount: 10000},
			{Name: "MDS", RegularAmount: 7500, TatkalAmount: 15000},
		},
		Nationalities: []string{"Indian", "Other"},
	}

	require.NoError(t, env.svc.ReferenceService.Seed(ctx, env.db, ref))
	ref.Categories[0].TatkalAmount = 12000
	require.NoError(t, env.svc.ReferenceService.Seed(ctx, env.db, ref))

	categories, err := env.svc.ReferenceService.ListCategories(ctx, env.db)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "BDS", categories[0].Name)
	assert.Equal(t, int64(12000), categories[0].TatkalAmount)

	nationalities, err := env.svc.ReferenceService.ListNationalities(ctx, env.db)
	require.NoError(t, err)
	assert.Len(t, nationalities, 2)

	assert.NoError(t, env.svc.ReferenceService.CheckCategorySlots(ctx, env.db))

	require.NoError(t, env.db.Create(&models.RegistrationCategory{Name: "Orthodontist"}).Error)
	assert.Error(t, env.svc.ReferenceService.CheckCategorySlots(ctx, env.db))
}
