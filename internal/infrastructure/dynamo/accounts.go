package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-account-verifier/internal/domain"
)

// batchWriteLimit is the DynamoDB per-request cap for BatchWriteItem.
const batchWriteLimit = 25

// AccountRepo stores per-property account data.
// PK: user_id, SK: property.
type AccountRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAccountRepo(client *dynamodb.Client, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName}
}

// List returns every stored property of the user. A user without any
// properties gets an empty, non-nil map.
func (r *AccountRepo) List(ctx context.Context, userID string) (domain.AccountData, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#u = :u"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldUserID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
	})
	data := domain.AccountData{}
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var props []domain.AccountProperty
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &props); err != nil {
			return nil, err
		}
		for _, prop := range props {
			data[prop.Name] = prop
		}
	}
	return data, nil
}

// PutAll writes every property in data for userID, overwriting existing items.
func (r *AccountRepo) PutAll(ctx context.Context, userID string, data domain.AccountData) error {
	requests := make([]types.WriteRequest, 0, len(data))
	for name, prop := range data {
		prop.UserID = userID
		prop.Name = name
		item, err := attributevalue.MarshalMap(prop)
		if err != nil {
			return fmt.Errorf("marshal account property %s: %w", name, err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	for start := 0; start < len(requests); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(requests))
		if err := r.batchWrite(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *AccountRepo) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{r.tableName: requests}
	for len(pending[r.tableName]) > 0 {
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("batch write account data: %w", err)
		}
		pending = out.UnprocessedItems
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

