package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sampark/sampark/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrAccountExists is returned when a create hits the uniqueness constraint
// on the normalized email.
var ErrAccountExists = errors.New("account already exists")

type AccountRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logrus.Logger
}

func NewAccountRepository(client *dynamodb.Client, tableName string, logger *logrus.Logger) *AccountRepository {
	return &AccountRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Create persists a confirmed account. The conditional write enforces
// at-most-one account per normalized email even under concurrent promotes.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	now := time.Now()
	account.Email = strings.ToLower(account.Email)
	account.CreatedAt = now
	account.UpdatedAt = now

	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal account for DynamoDB")
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: account.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: account.GetSK()}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})

	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrAccountExists
		}
		r.logger.WithError(err).Error("Failed to create account in DynamoDB")
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindByEmail looks up an account by email, case-insensitively. A missing
// account returns (nil, nil).
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	account := &models.Account{Email: strings.ToLower(email)}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: account.GetPK()},
			"SK": &types.AttributeValueMemberS{Value: account.GetSK()},
		},
	})

	if err != nil {
		r.logger.WithError(err).Error("Failed to get account from DynamoDB")
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var dbAccount models.Account
	if err := attributevalue.UnmarshalMap(result.Item, &dbAccount); err != nil {
		r.logger.WithError(err).Error("Failed to unmarshal account from DynamoDB")
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &dbAccount, nil
}
