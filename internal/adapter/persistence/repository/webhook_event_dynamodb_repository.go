package repository

import (
	"context"
	"time"

	"ktcomp_payments/internal/domain/entities"
	"ktcomp_payments/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultWebhookEventsTableName = "webhook_events"
	webhookEventsRefIndex         = "provider_ref-index"
)

type webhookEventItem struct {
	ID          string `dynamodbav:"id"`
	ProviderRef string `dynamodbav:"provider_ref"`
	Reported    string `dynamodbav:"reported"`
	Outcome     string `dynamodbav:"outcome"`
	RawPayload  string `dynamodbav:"raw_payload,omitempty"`
	ReceivedAt  string `dynamodbav:"received_at"`
}

// WebhookEventDynamoRepository stores the audit trail of verified provider
// deliveries.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: provider_ref-index (PK: provider_ref)

type WebhookEventDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IWebhookEventRepository = (*WebhookEventDynamoRepository)(nil)

func NewWebhookEventDynamoRepository(ddb *dynamodb.Client) *WebhookEventDynamoRepository {
	return &WebhookEventDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("WEBHOOK_EVENTS_TABLE", defaultWebhookEventsTableName),
	}
}

func (r *WebhookEventDynamoRepository) Create(ctx context.Context, e entities.WebhookEvent) (entities.WebhookEvent, error) {
	av, err := attributevalue.MarshalMap(toWebhookEventItem(e))
	if err != nil {
		return entities.WebhookEvent{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return entities.WebhookEvent{}, err
	}
	return e, nil
}

func (r *WebhookEventDynamoRepository) ListByProviderRef(ctx context.Context, ref string) ([]entities.WebhookEvent, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(webhookEventsRefIndex),
		KeyConditionExpression: aws.String("provider_ref = :ref"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ref": &types.AttributeValueMemberS{Value: ref},
		},
	})
	if err != nil {
		return nil, err
	}

	events := make([]entities.WebhookEvent, 0, len(out.Items))
	for _, raw := range out.Items {
		var it webhookEventItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		events = append(events, fromWebhookEventItem(it))
	}
	return events, nil
}

func toWebhookEventItem(e entities.WebhookEvent) webhookEventItem {
	return webhookEventItem{
		ID:          e.ID,
		ProviderRef: e.ProviderRef,
		Reported:    e.Reported,
		Outcome:     string(e.Outcome),
		RawPayload:  string(e.RawPayload),
		ReceivedAt:  e.ReceivedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromWebhookEventItem(it webhookEventItem) entities.WebhookEvent {
	receivedAt, _ := time.Parse(time.RFC3339Nano, it.ReceivedAt)
	return entities.WebhookEvent{
		ID:          it.ID,
		ProviderRef: it.ProviderRef,
		Reported:    it.Reported,
		Outcome:     entities.WebhookEventOutcome(it.Outcome),
		RawPayload:  []byte(it.RawPayload),
		ReceivedAt:  receivedAt,
	}
}
