package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sampark/sampark/internal/models"
	"github.com/sirupsen/logrus"
)

type GrievanceRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logrus.Logger
}

func NewGrievanceRepository(client *dynamodb.Client, tableName string, logger *logrus.Logger) *GrievanceRepository {
	return &GrievanceRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func (r *GrievanceRepository) Create(ctx context.Context, grievance *models.Grievance) error {
	now := time.Now()
	grievance.CreatedAt = now
	grievance.UpdatedAt = now
	if grievance.Status == "" {
		grievance.Status = models.GrievanceStatusPending
	}

	item, err := attributevalue.MarshalMap(grievance)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal grievance for DynamoDB")
		return fmt.Errorf("failed to marshal grievance: %w", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: grievance.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: grievance.GetSK()}

	// Conditional write backstops the allocator's check-then-insert window:
	// a tracking ID that raced into use fails here instead of overwriting.
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})

	if err != nil {
		r.logger.WithError(err).Error("Failed to create grievance in DynamoDB")
		return fmt.Errorf("failed to create grievance: %w", err)
	}

	return nil
}

func (r *GrievanceRepository) ExistsByTrackingID(ctx context.Context, trackingID string) (bool, error) {
	grievance := &models.Grievance{TrackingID: trackingID}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: grievance.GetPK()},
			"SK": &types.AttributeValueMemberS{Value: grievance.GetSK()},
		},
		ProjectionExpression: aws.String("PK"),
	})

	if err != nil {
		return false, fmt.Errorf("failed to check tracking id: %w", err)
	}

	return result.Item != nil, nil
}

// GetByTrackingID returns (nil, nil) when no grievance carries the ID.
func (r *GrievanceRepository) GetByTrackingID(ctx context.Context, trackingID string) (*models.Grievance, error) {
	grievance := &models.Grievance{TrackingID: trackingID}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: grievance.GetPK()},
			"SK": &types.AttributeValueMemberS{Value: grievance.GetSK()},
		},
	})

	if err != nil {
		r.logger.WithError(err).Error("Failed to get grievance from DynamoDB")
		return nil, fmt.Errorf("failed to get grievance: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var dbGrievance models.Grievance
	if err := attributevalue.UnmarshalMap(result.Item, &dbGrievance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grievance: %w", err)
	}

	return &dbGrievance, nil
}
