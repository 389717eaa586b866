package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/sampark/sampark/internal/config"
	"github.com/sirupsen/logrus"
)

// TrackingIDChecker is the slice of the durable grievance boundary the
// allocator needs: whether an identifier is already taken.
type TrackingIDChecker interface {
	ExistsByTrackingID(ctx context.Context, trackingID string) (bool, error)
}

// TrackingIDAllocator generates public grievance identifiers of the form
// <prefix><5 random digits><last 4 digits of epoch ms> and collision-checks
// them against the durable store before handing them out. The retry budget
// is capped; exhausting it surfaces ErrAllocationExhausted instead of
// spinning forever.
type TrackingIDAllocator struct {
	grievances  TrackingIDChecker
	prefix      string
	maxAttempts int
	now         func() time.Time
	logger      *logrus.Logger
}

func NewTrackingIDAllocator(grievances TrackingIDChecker, cfg config.TrackingConfig, logger *logrus.Logger) *TrackingIDAllocator {
	return &TrackingIDAllocator{
		grievances:  grievances,
		prefix:      cfg.Prefix,
		maxAttempts: cfg.MaxAttempts,
		now:         time.Now,
		logger:      logger,
	}
}

// Allocate returns an identifier not currently in use. The check-then-insert
// window is closed by the store's conditional write at creation time; this
// loop only keeps collisions rare, it does not have to make them impossible.
func (a *TrackingIDAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		candidate, err := a.generate()
		if err != nil {
			return "", err
		}

		exists, err := a.grievances.ExistsByTrackingID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check tracking id: %w", err)
		}
		if !exists {
			return candidate, nil
		}

		a.logger.WithField("tracking_id", candidate).Warn("Tracking ID collision, retrying")
	}

	return "", ErrAllocationExhausted
}

func (a *TrackingIDAllocator) generate() (string, error) {
	// 5 random decimal digits in [10000, 99999].
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", fmt.Errorf("failed to generate tracking id: %w", err)
	}
	random := 10000 + n.Int64()

	millis := strconv.FormatInt(a.now().UnixMilli(), 10)
	suffix := millis[len(millis)-4:]

	return a.prefix + strconv.FormatInt(random, 10) + suffix, nil
}
