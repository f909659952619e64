package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-account-verifier/internal/domain"
)

// PreferenceRepo is a per-user key/value store, namespaced by app.
// PK: user_id, SK: pref_key ("<app>/<key>").
type PreferenceRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPreferenceRepo(client *dynamodb.Client, tableName string) *PreferenceRepo {
	return &PreferenceRepo{client: client, tableName: tableName}
}

func preferenceKey(app, key string) string {
	return app + "/" + key
}

// Get returns the stored value or an error wrapping domain.ErrNotFound.
func (r *PreferenceRepo) Get(ctx context.Context, userID, app, key string) (string, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  compositeKey(fieldUserID, userID, fieldPrefKey, preferenceKey(app, key)),
		ProjectionExpression: aws.String("#v"),
		ExpressionAttributeNames: map[string]string{
			"#v": fieldValue,
		},
	})
	if err != nil {
		return "", err
	}
	if out.Item == nil {
		return "", fmt.Errorf("preference %s/%s not found: %w", app, key, domain.ErrNotFound)
	}
	v, ok := out.Item[fieldValue].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("preference %s/%s has no string value: %w", app, key, domain.ErrNotFound)
	}
	return v.Value, nil
}

// Set upserts the value.
func (r *PreferenceRepo) Set(ctx context.Context, userID, app, key, value string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldValue:     value,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey(fieldUserID, userID, fieldPrefKey, preferenceKey(app, key)),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
