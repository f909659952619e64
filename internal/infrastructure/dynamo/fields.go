package dynamo

// DynamoDB attribute names used in keys and update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID    = "user_id"
	fieldJobID     = "job_id"
	fieldProperty  = "property"
	fieldPrefKey   = "pref_key"
	fieldValue     = "value"
	fieldRunAt     = "run_at"
	fieldUpdatedAt = "updated_at"
)

// Index names.
const (
	indexJobsByUser = "user_id-index"
)
