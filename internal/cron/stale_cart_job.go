package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/logger"
)

const staleCartAgeDays = 7

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type staleCartPurger interface {
	DeleteOpenCartsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// StaleCartJobParams configure the draft-cart cleanup job.
type StaleCartJobParams struct {
	Logger *logger.Logger
	DB     txRunner
	Carts  staleCartPurger
}

// NewStaleCartJob builds the job that drops open carts nobody touched for a week.
func NewStaleCartJob(params StaleCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart purger required")
	}
	return &staleCartJob{
		logg:  params.Logger,
		db:    params.DB,
		carts: params.Carts,
		now:   time.Now,
	}, nil
}

type staleCartJob struct {
	logg  *logger.Logger
	db    txRunner
	carts staleCartPurger
	now   func() time.Time
}

func (j *staleCartJob) Name() string { return "stale-cart-cleanup" }

func (j *staleCartJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-staleCartAgeDays * 24 * time.Hour)
	var removed int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		count, err := j.carts.DeleteOpenCartsBefore(ctx, tx, cutoff)
		if err != nil {
			return fmt.Errorf("delete stale carts: %w", err)
		}
		removed = count
		return nil
	})
	if err != nil {
		return err
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": removed, "cutoff": cutoff})
	j.logg.Info(logCtx, "stale cart cleanup complete")
	return nil
}
