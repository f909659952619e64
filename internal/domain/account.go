package domain

// Property scopes control who may see a property.
const (
	ScopePrivate   = "private"
	ScopeLocal     = "local"
	ScopeFederated = "federated"
	ScopePublished = "published"
)

// AccountProperty is one self-asserted profile attribute.
// PK: user_id, SK: property.
type AccountProperty struct {
	UserID   string             `json:"-" dynamodbav:"user_id"`
	Name     PropertyType       `json:"name" dynamodbav:"property"`
	Value    string             `json:"value" dynamodbav:"value"`
	Scope    string             `json:"scope" dynamodbav:"scope"`
	Verified VerificationStatus `json:"verified" dynamodbav:"verified"`
}

// AccountData is the full property set of one user, keyed by property name.
type AccountData map[PropertyType]AccountProperty
