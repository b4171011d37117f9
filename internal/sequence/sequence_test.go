package sequence_test

import (
	"context"
	"fmt"
	"testing"

	"tdc_backend/internal/models"
	"tdc_backend/internal/sequence"
	"tdc_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "GSC-001", sequence.Format("GSC", 1))
	assert.Equal(t, "NOC-042", sequence.Format("NOC", 42))
	assert.Equal(t, "GSC-999", sequence.Format("GSC", 999))
	assert.Equal(t, "GSC-1000", sequence.Format("GSC", 1000))
}

func TestParse(t *testing.T) {
	n, err := sequence.Parse("GSC-007")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = sequence.Parse("TDC-1234")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), n)

	for _, bad := range []string{"", "GSC", "GSC-", "GSC-abc", "GSC-1a", "GSC-+1x"} {
		_, err := sequence.Parse(bad)
		assert.ErrorIs(t, err, sequence.ErrMalformedNumber, bad)
	}
}

func TestNext(t *testing.T) {
	next, err := sequence.Next("GSC", "")
	require.NoError(t, err)
	assert.Equal(t, "GSC-001", next)

	next, err = sequence.Next("GSC", "GSC-009")
	require.NoError(t, err)
	assert.Equal(t, "GSC-010", next)

	next, err = sequence.Next("GSC", "GSC-999")
	require.NoError(t, err)
	assert.Equal(t, "GSC-1000", next)

	_, err = sequence.Next("GSC", "GSC-NaN")
	assert.ErrorIs(t, err, sequence.ErrMalformedNumber)
}

func noRecords(*gorm.DB) (string, error) { return "", nil }

func TestGenerator_StrictlyIncreasing(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := sequence.NewGenerator()
	ctx := context.Background()

	var prev int64
	for i := 1; i <= 12; i++ {
		number, err := gen.Next(ctx, db, "gsc", "GSC", noRecords)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("GSC-%03d", i), number)

		n, err := sequence.Parse(number)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestGenerator_GrowsPastThreeDigits(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Create(&models.ApplicationCounter{Kind: "noc", LastValue: 998}).Error)

	gen := sequence.NewGenerator()
	first, err := gen.Next(context.Background(), db, "noc", "NOC", noRecords)
	require.NoError(t, err)
	second, err := gen.Next(context.Background(), db, "noc", "NOC", noRecords)
	require.NoError(t, err)

	assert.Equal(t, "NOC-999", first)
	assert.Equal(t, "NOC-1000", second)
}

func TestGenerator_SeedsFromLatestRecord(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := sequence.NewGenerator()

	calls := 0
	latest := func(*gorm.DB) (string, error) {
		calls++
		return "GSC-041", nil
	}

	number, err := gen.Next(context.Background(), db, "gsc", "GSC", latest)
	require.NoError(t, err)
	assert.Equal(t, "GSC-042", number)

	number, err = gen.Next(context.Background(), db, "gsc", "GSC", latest)
	require.NoError(t, err)
	assert.Equal(t, "GSC-043", number)
	assert.Equal(t, 1, calls, "seed is read only once")
}

func TestGenerator_MalformedLatestFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := sequence.NewGenerator()

	_, err := gen.Next(context.Background(), db, "gsc", "GSC", func(*gorm.DB) (string, error) {
		return "GSC-abc", nil
	})
	assert.ErrorIs(t, err, sequence.ErrMalformedNumber)

	var count int64
	require.NoError(t, db.Model(&models.ApplicationCounter{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerator_KindsAreIndependent(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := sequence.NewGenerator()
	ctx := context.Background()

	g1, err := gen.Next(ctx, db, "gsc", "GSC", noRecords)
	require.NoError(t, err)
	n1, err := gen.Next(ctx, db, "noc", "NOC", noRecords)
	require.NoError(t, err)
	g2, err := gen.Next(ctx, db, "gsc", "GSC", noRecords)
	require.NoError(t, err)

	assert.Equal(t, "GSC-001", g1)
	assert.Equal(t, "NOC-001", n1)
	assert.Equal(t, "GSC-002", g2)
}

func TestGenerator_RolledBackTransactionReleasesNothing(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := sequence.NewGenerator()
	ctx := context.Background()

	_ = db.Transaction(func(tx *gorm.DB) error {
		_, err := gen.Next(ctx, tx, "gsc", "GSC", noRecords)
		require.NoError(t, err)
		return fmt.Errorf("abort")
	})

	number, err := gen.Next(ctx, db, "gsc", "GSC", noRecords)
	require.NoError(t, err)
	assert.Equal(t, "GSC-001", number)
}

func TestGenerator_AdvanceSkipsTakenNumber(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := sequence.NewGenerator()
	ctx := context.Background()

	first, err := gen.Next(ctx, db, "gsc", "GSC", noRecords)
	require.NoError(t, err)
	assert.Equal(t, "GSC-001", first)

	require.NoError(t, gen.Advance(ctx, db, "gsc", "GSC-005"))
	// never moves backwards
	require.NoError(t, gen.Advance(ctx, db, "gsc", "GSC-002"))

	next, err := gen.Next(ctx, db, "gsc", "GSC", noRecords)
	require.NoError(t, err)
	assert.Equal(t, "GSC-006", next)

	assert.ErrorIs(t, gen.Advance(ctx, db, "gsc", "GSC-x"), sequence.ErrMalformedNumber)
}
