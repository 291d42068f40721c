package usecase

// Record statuses stored on use-case records.
const (
	RecordStatusActive  = "ACTIVE"
	RecordStatusDeleted = "DELETED"
)

// Record is the listing entry of a deployed use case.
type Record struct {
	UseCaseID              string `json:"UseCaseId" dynamodbav:"UseCaseId"`
	Name                   string `json:"Name" dynamodbav:"Name"`
	UseCaseType            Type   `json:"UseCaseType" dynamodbav:"UseCaseType"`
	Description            string `json:"Description,omitempty" dynamodbav:"Description,omitempty"`
	CreatedBy              string `json:"CreatedBy" dynamodbav:"CreatedBy"`
	CreatedDate            string `json:"CreatedDate" dynamodbav:"CreatedDate"`
	UpdatedDate            string `json:"UpdatedDate,omitempty" dynamodbav:"UpdatedDate,omitempty"`
	StackID                string `json:"StackId" dynamodbav:"StackId"`
	UseCaseConfigRecordKey string `json:"UseCaseConfigRecordKey" dynamodbav:"UseCaseConfigRecordKey"`
	UseCaseConfigTableName string `json:"UseCaseConfigTableName" dynamodbav:"UseCaseConfigTableName"`
	TenantID               string `json:"TenantId,omitempty" dynamodbav:"TenantId,omitempty"`
	Status                 string `json:"Status,omitempty" dynamodbav:"Status,omitempty"`
}

// IsDeleted reports whether the record was soft-deleted.
func (r *Record) IsDeleted() bool {
	return r.Status == RecordStatusDeleted
}
