package customers

import "time"

// Status is the customer lifecycle status.
type Status string

const (
	StatusLead     Status = "lead"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusLead, StatusActive, StatusInactive:
		return Status(raw), true
	default:
		return "", false
	}
}

// Customer is a CRM customer backed by a Drive folder and spreadsheet.
// A row exists only if the remote folder and sheet were provisioned first.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email"`
	Phone         *string   `json:"phone"`
	Status        Status    `json:"status"`
	DriveFolderID *string   `json:"drive_folder_id,omitempty"`
	SheetFileID   *string   `json:"sheet_file_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Summary is a Customer decorated with its mirrored document count, used by
// the list endpoint.
type Summary struct {
	Customer
	DocumentCount int64 `json:"documentCount"`
}
