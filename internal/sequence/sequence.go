// Package sequence issues human-readable application numbers of the form PREFIX-NNN.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tdc_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMalformedNumber = errors.New("malformed application number")

const width = 3

// Format renders n zero-padded to three digits; wider values print in full.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}

// Parse returns the numeric suffix after the last '-'.
func Parse(number string) (int64, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, number)
	}
	n, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, number)
	}
	return n, nil
}

// Next derives the number following last. An empty last yields PREFIX-001.
func Next(prefix, last string) (string, error) {
	if last == "" {
		return Format(prefix, 1), nil
	}
	n, err := Parse(last)
	if err != nil {
		return "", err
	}
	return Format(prefix, n+1), nil
}

// LatestFunc returns the number of the most recently created record of a kind,
// or "" when none exists.
type LatestFunc func(db *gorm.DB) (string, error)

// Generator assigns numbers through the application_counters table so that
// concurrent transactions never observe the same value.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Next increments the counter for kind inside db (normally a transaction) and
// returns the formatted number. The counter row is seeded from latest the first
// time a kind is used so numbering continues from existing records.
func (g *Generator) Next(ctx context.Context, db *gorm.DB, kind, prefix string, latest LatestFunc) (string, error) {
	db = db.WithContext(ctx)

	if err := g.ensureCounter(db, kind, latest); err != nil {
		return "", err
	}

	res := db.Model(&models.ApplicationCounter{}).
		Where("kind = ?", kind).
		UpdateColumn("last_value", gorm.Expr("last_value + ?", 1))
	if res.Error != nil {
		return "", fmt.Errorf("failed to increment %s counter: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", fmt.Errorf("counter %s vanished during increment", kind)
	}

	var counter models.ApplicationCounter
	if err := db.Where("kind = ?", kind).First(&counter).Error; err != nil {
		return "", fmt.Errorf("failed to read %s counter: %w", kind, err)
	}
	return Format(prefix, counter.LastValue), nil
}

func (g *Generator) ensureCounter(db *gorm.DB, kind string, latest LatestFunc) error {
	var count int64
	if err := db.Model(&models.ApplicationCounter{}).Where("kind = ?", kind).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up %s counter: %w", kind, err)
	}
	if count > 0 {
		return nil
	}

	var seed int64
	if latest != nil {
		last, err := latest(db)
		if err != nil {
			return fmt.Errorf("failed to load latest %s record: %w", kind, err)
		}
		if last != "" {
			if seed, err = Parse(last); err != nil {
				return err
			}
		}
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ApplicationCounter{Kind: kind, LastValue: seed}).Error
}

// Advance moves the counter for kind forward to at least taken's suffix, so
// the next call to Next skips a number already held by a record.
func (g *Generator) Advance(ctx context.Context, db *gorm.DB, kind, taken string) error {
	n, err := Parse(taken)
	if err != nil {
		return err
	}
	err = db.WithContext(ctx).Model(&models.ApplicationCounter{}).
		Where("kind = ? AND last_value < ?", kind, n).
		UpdateColumn("last_value", n).Error
	if err != nil {
		return fmt.Errorf("failed to advance %s counter: %w", kind, err)
	}
	return nil
}
