package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-account-verifier/internal/domain"
)

// VerificationJobRepo is the pending-verification queue.
// PK: job_id. GSI user_id-index.
type VerificationJobRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationJobRepo(client *dynamodb.Client, tableName string) *VerificationJobRepo {
	return &VerificationJobRepo{client: client, tableName: tableName}
}

// Add enqueues req to become eligible at runAt. An existing item with the
// same job id is replaced.
func (r *VerificationJobRepo) Add(ctx context.Context, req *domain.VerificationRequest, runAt time.Time) error {
	req.RunAt = runAt.Unix()
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("marshal verification job: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Reschedule overwrites a queued job with req, eligible again at runAt. It
// returns domain.ErrNotFound when the job has been removed in the meantime.
func (r *VerificationJobRepo) Reschedule(ctx context.Context, req *domain.VerificationRequest, runAt time.Time) error {
	req.RunAt = runAt.Unix()
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("marshal verification job: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": fieldJobID,
		},
	})
	if conditionFailed(err) {
		return fmt.Errorf("verification job %s: %w", req.JobID, domain.ErrNotFound)
	}
	return err
}

// Remove deletes the job. Removing a job that is already gone is not an error.
func (r *VerificationJobRepo) Remove(ctx context.Context, jobID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldJobID, jobID),
	})
	return err
}

// Due returns every job whose run_at is at or before now.
func (r *VerificationJobRepo) Due(ctx context.Context, now time.Time) ([]domain.VerificationRequest, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#r <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#r": fieldRunAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
	var jobs []domain.VerificationRequest
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var page []domain.VerificationRequest
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		jobs = append(jobs, page...)
	}
	return jobs, nil
}

// ListByUser returns the pending jobs of one user via the user_id-index GSI.
func (r *VerificationJobRepo) ListByUser(ctx context.Context, userID string) ([]domain.VerificationRequest, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexJobsByUser),
		KeyConditionExpression: aws.String("#u = :u"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldUserID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var jobs []domain.VerificationRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
