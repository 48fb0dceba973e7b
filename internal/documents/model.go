package documents

import "time"

// Document is the local mirror of a Drive file the CRM tracks. Exactly one
// row exists per DriveFileID; observations update in place. CustomerID is set
// when the remote customerId property resolves to a known customer, otherwise
// the raw value is parked in PendingCustomerID until a later sync resolves it.
type Document struct {
	ID                string     `json:"id"`
	DriveFileID       string     `json:"drive_file_id"`
	CustomerID        *string    `json:"customer_id"`
	PendingCustomerID *string    `json:"pending_customer_id"`
	Title             string     `json:"title"`
	Category          *string    `json:"category"`
	Stage             *string    `json:"stage"`
	MimeType          string     `json:"mime_type"`
	DriveModifiedTime *time.Time `json:"drive_modified_time"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Filter narrows a document listing. Zero values mean "no constraint".
type Filter struct {
	Search     string
	Category   string
	Stage      string
	CustomerID string
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
}

// EffectiveTime is the timestamp documents sort and filter by: the remote
// modification time when known, else the local update time.
func (d Document) EffectiveTime() time.Time {
	if d.DriveModifiedTime != nil {
		return *d.DriveModifiedTime
	}
	return d.UpdatedAt
}
