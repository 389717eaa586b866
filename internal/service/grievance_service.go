package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sampark/sampark/internal/models"
	"github.com/sirupsen/logrus"
)

// GrievanceStore is the durable grievance boundary.
type GrievanceStore interface {
	TrackingIDChecker
	Create(ctx context.Context, grievance *models.Grievance) error
	GetByTrackingID(ctx context.Context, trackingID string) (*models.Grievance, error)
}

type GrievanceService struct {
	grievances GrievanceStore
	allocator  *TrackingIDAllocator
	logger     *logrus.Logger
}

func NewGrievanceService(grievances GrievanceStore, allocator *TrackingIDAllocator, logger *logrus.Logger) *GrievanceService {
	return &GrievanceService{
		grievances: grievances,
		allocator:  allocator,
		logger:     logger,
	}
}

type GrievanceInput struct {
	Title       string
	Description string
	Category    string
	Location    string
}

// Submit allocates a tracking ID and persists the grievance for the
// authenticated account.
func (s *GrievanceService) Submit(ctx context.Context, email string, input GrievanceInput) (*models.Grievance, error) {
	trackingID, err := s.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	grievance := &models.Grievance{
		ID:          uuid.New().String(),
		TrackingID:  trackingID,
		Email:       NormalizeEmail(email),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Status:      models.GrievanceStatusPending,
	}

	if err := s.grievances.Create(ctx, grievance); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tracking_id": trackingID,
		"email":       grievance.Email,
	}).Info("Grievance submitted")

	return grievance, nil
}

// Track returns the grievance carrying the public tracking ID, or (nil, nil)
// when none does.
func (s *GrievanceService) Track(ctx context.Context, trackingID string) (*models.Grievance, error) {
	return s.grievances.GetByTrackingID(ctx, trackingID)
}
