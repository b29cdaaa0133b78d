// internal/models/activity.go
package models

type ActivityLog struct {
	ID         string                 `json:"id"`
	UserID     *string                `json:"user_id"`
	Action     string                 `json:"action"`
	EntityType *string                `json:"entity_type"`
	EntityID   *string                `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  string                 `json:"created_at"`
}

// Activity actions recorded by the workers.
const (
	ActionCompanyCreated    = "company_created"
	ActionOfferingCreated   = "offering_created"
	ActionOfferingUpdated   = "offering_updated"
	ActionOfferingApproved  = "offering_approved"
	ActionOfferingRejected  = "offering_rejected"
	ActionInterestSubmitted = "interest_submitted"
	ActionInterestAccepted  = "interest_accepted"
	ActionInterestDeclined  = "interest_declined"
	ActionInterestWithdrawn = "interest_withdrawn"
	ActionProfileUpdated    = "profile_updated"
	ActionDocumentUploaded  = "document_uploaded"
	ActionOfferingSaved     = "offering_saved"
)
