package dynamo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"value": "calendar,mail"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "value"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"verified":   2,
		"scope":      "federated",
		"updated_at": "2026-01-01T00:00:00Z",
	}
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)
	assert.Equal(t, "scope", ue1.Names["#f0"])
	assert.Equal(t, "updated_at", ue1.Names["#f1"])
	assert.Equal(t, "verified", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"verified": 2})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	n, isNum := av.(*types.AttributeValueMemberN)
	require.True(t, isNum)
	assert.Equal(t, "2", n.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestPreferenceKey(t *testing.T) {
	assert.Equal(t, "dashboard/layout", preferenceKey("dashboard", "layout"))
}

func TestGSI_HashOnly(t *testing.T) {
	g := gsi(indexJobsByUser, fieldUserID, "")
	require.Len(t, g.KeySchema, 1)
	assert.Equal(t, fieldUserID, *g.KeySchema[0].AttributeName)
	assert.Equal(t, types.KeyTypeHash, g.KeySchema[0].KeyType)
	assert.Equal(t, types.ProjectionTypeAll, g.Projection.ProjectionType)
}

func TestGSI_WithSortKey(t *testing.T) {
	g := gsi("by-user-run", fieldUserID, fieldRunAt)
	require.Len(t, g.KeySchema, 2)
	assert.Equal(t, fieldRunAt, *g.KeySchema[1].AttributeName)
	assert.Equal(t, types.KeyTypeRange, g.KeySchema[1].KeyType)
}

func TestConditionFailed(t *testing.T) {
	ccf := &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}

	assert.True(t, conditionFailed(ccf))
	assert.True(t, conditionFailed(fmt.Errorf("operation error DynamoDB: PutItem: %w", ccf)))
	assert.False(t, conditionFailed(errors.New("throttled")))
	assert.False(t, conditionFailed(nil))
}
