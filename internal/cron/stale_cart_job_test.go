package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/logger"
)

type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type fakeCartPurger struct {
	cutoff  time.Time
	removed int64
	err     error
}

func (f *fakeCartPurger) DeleteOpenCartsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.removed, f.err
}

func TestStaleCartJobPurgesWithWeekOldCutoff(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	purger := &fakeCartPurger{removed: 3}
	job, err := NewStaleCartJob(StaleCartJobParams{
		Logger: logg,
		DB:     &fakeTxRunner{},
		Carts:  purger,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	fixed := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	job.(*staleCartJob).now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := fixed.Add(-staleCartAgeDays * 24 * time.Hour)
	if !purger.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, purger.cutoff)
	}
}

func TestStaleCartJobPropagatesFailure(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	job, err := NewStaleCartJob(StaleCartJobParams{
		Logger: logg,
		DB:     &fakeTxRunner{},
		Carts:  &fakeCartPurger{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
