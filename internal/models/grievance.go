package models

import (
	"time"
)

const (
	GrievanceStatusPending    = "PENDING"
	GrievanceStatusInProgress = "IN_PROGRESS"
	GrievanceStatusResolved   = "RESOLVED"
)

type Grievance struct {
	ID          string    `json:"id" dynamodbav:"id"`
	TrackingID  string    `json:"tracking_id" dynamodbav:"tracking_id"`
	Email       string    `json:"email" dynamodbav:"email"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	Category    string    `json:"category" dynamodbav:"category"`
	Location    string    `json:"location,omitempty" dynamodbav:"location,omitempty"`
	Status      string    `json:"status" dynamodbav:"status"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (g *Grievance) GetPK() string {
	return "GRIEVANCE#" + g.TrackingID
}

func (g *Grievance) GetSK() string {
	return "METADATA"
}
