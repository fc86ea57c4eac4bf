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
	defaultOrdersTableName   = "orders"
	defaultProductsTableName = "products"
)

type orderItemEntry struct {
	ProductID string `dynamodbav:"product_id"`
	Quantity  int64  `dynamodbav:"quantity"`
}

type orderItem struct {
	ID            string           `dynamodbav:"id"`
	Status        string           `dynamodbav:"status"`
	PaymentStatus string           `dynamodbav:"payment_status"`
	Items         []orderItemEntry `dynamodbav:"items"`
	CreatedAt     string           `dynamodbav:"created_at"`
	UpdatedAt     string           `dynamodbav:"updated_at"`
}

// OrderDynamoRepository gives the payment core its view of the checkout
// subsystem's orders and products tables.
//
// Table requirements:
//   - orders: PK id (string)
//   - products: PK id (string), numeric stock attribute
//
// ApplyPaymentOutcome is a single TransactWriteItems call so the order status
// write and the stock decrements land atomically: a resolved payment can
// never leave the order half-updated.

type OrderDynamoRepository struct {
	ddb           *dynamodb.Client
	tableName     string
	productsTable string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client) *OrderDynamoRepository {
	return &OrderDynamoRepository{
		ddb:           ddb,
		tableName:     getenvDefault("ORDERS_TABLE", defaultOrdersTableName),
		productsTable: getenvDefault("PRODUCTS_TABLE", defaultProductsTableName),
	}
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func (r *OrderDynamoRepository) ApplyPaymentOutcome(
	ctx context.Context,
	order entities.Order,
	status entities.OrderStatus,
	paymentStatus entities.OrderPaymentStatus,
	decrementStock bool,
) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	writes := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: aws.String(r.tableName),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: order.ID},
				},
				ConditionExpression: aws.String("attribute_exists(#id)"),
				UpdateExpression:    aws.String("SET #status = :status, #payment_status = :payment_status, #updated_at = :updated_at"),
				ExpressionAttributeNames: map[string]string{
					"#id":             "id",
					"#status":         "status",
					"#payment_status": "payment_status",
					"#updated_at":     "updated_at",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":status":         &types.AttributeValueMemberS{Value: string(status)},
					":payment_status": &types.AttributeValueMemberS{Value: string(paymentStatus)},
					":updated_at":     &types.AttributeValueMemberS{Value: now},
				},
			},
		},
	}

	if decrementStock {
		for _, line := range order.Items {
			writes = append(writes, types.TransactWriteItem{
				Update: &types.Update{
					TableName: aws.String(r.productsTable),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: line.ProductID},
					},
					ConditionExpression: aws.String("attribute_exists(#id) AND #stock >= :qty"),
					UpdateExpression:    aws.String("SET #stock = #stock - :qty"),
					ExpressionAttributeNames: map[string]string{
						"#id":    "id",
						"#stock": "stock",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":qty": &types.AttributeValueMemberN{Value: intToString(line.Quantity)},
					},
				},
			})
		}
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	return err
}

func fromOrderItem(it orderItem) entities.Order {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	items := make([]entities.OrderItem, 0, len(it.Items))
	for _, line := range it.Items {
		items = append(items, entities.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return entities.Order{
		ID:            it.ID,
		Status:        entities.OrderStatus(it.Status),
		PaymentStatus: entities.OrderPaymentStatus(it.PaymentStatus),
		Items:         items,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}
