package customers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"crm-backend/internal/drive"
	"crm-backend/internal/shared/telemetry"
)

// ErrMissingRootFolder indicates no Drive root folder is configured.
var ErrMissingRootFolder = errors.New("missing root folder id")

// DriveProvisioner is the slice of the Drive client the service needs to
// provision a customer's folder and spreadsheet.
type DriveProvisioner interface {
	CreateFolder(ctx context.Context, token string, in drive.CreateInput) (drive.File, error)
	CreateSpreadsheet(ctx context.Context, token string, in drive.CreateInput) (drive.File, error)
	WriteSheetValues(ctx context.Context, token, spreadsheetID, rangeA1 string, values [][]any) error
}

// DocumentCounter reports mirrored document counts per customer id.
type DocumentCounter interface {
	CountByCustomer(ctx context.Context) (map[string]int64, error)
}

// Service contains business logic for customers.
type Service struct {
	Repo         Repo
	Drive        DriveProvisioner
	Counts       DocumentCounter
	RootFolderID string
}

// CreateInput is the validated payload for creating a customer.
type CreateInput struct {
	Name   string
	Email  string
	Phone  string
	Status Status
}

// UpdateInput is a partial customer update. Nil fields are left unchanged;
// empty Email/Phone strings clear the stored value.
type UpdateInput struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *Status
}

// Create provisions the customer's Drive folder and spreadsheet, seeds the
// sheet best-effort, then persists the row. Remote folder or sheet creation
// failure aborts with no local write; a failed seed write is only logged.
func (s *Service) Create(ctx context.Context, token string, in CreateInput) (Customer, error) {
	if s.RootFolderID == "" {
		return Customer{}, ErrMissingRootFolder
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	status := in.Status
	if status == "" {
		status = StatusLead
	}

	folder, err := s.Drive.CreateFolder(ctx, token, drive.CreateInput{
		Name:          in.Name,
		ParentID:      s.RootFolderID,
		AppProperties: map[string]string{"customerId": id, "kind": "crm_customer"},
	})
	if err != nil {
		return Customer{}, err
	}

	sheet, err := s.Drive.CreateSpreadsheet(ctx, token, drive.CreateInput{
		Name:          "Cliente.xlsx",
		ParentID:      folder.ID,
		AppProperties: map[string]string{"customerId": id, "kind": "crm_customer_sheet"},
	})
	if err != nil {
		return Customer{}, err
	}

	timestamp := now.Format(time.RFC3339)
	seedErr := s.Drive.WriteSheetValues(ctx, token, sheet.ID, "A1:G2", [][]any{
		{"ID", "Nome", "E-mail", "Telefone", "Status", "Criado em", "Atualizado em"},
		{id, in.Name, in.Email, in.Phone, string(status), timestamp, timestamp},
	})
	if seedErr != nil {
		// Sheets scope may be missing; folder and sheet still exist.
		telemetry.Warn("customer.seed_sheet_failed", map[string]any{
			"customer_id": id,
			"sheet_id":    sheet.ID,
			"error":       seedErr.Error(),
		})
	}

	customer := Customer{
		ID:            id,
		Name:          in.Name,
		Email:         optional(in.Email),
		Phone:         optional(in.Phone),
		Status:        status,
		DriveFolderID: optional(folder.ID),
		SheetFileID:   optional(sheet.ID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, customer); err != nil {
		return Customer{}, err
	}
	return customer, nil
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id string) (Customer, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns customers matching search, each with its document count.
func (s *Service) List(ctx context.Context, search string) ([]Summary, error) {
	rows, err := s.Repo.List(ctx, search)
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	if s.Counts != nil {
		counts, err = s.Counts.CountByCustomer(ctx)
		if err != nil {
			return nil, err
		}
	}

	out := make([]Summary, 0, len(rows))
	for _, c := range rows {
		out = append(out, Summary{Customer: c, DocumentCount: counts[c.ID]})
	}
	return out, nil
}

// Update applies a partial update and returns the stored customer.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Customer, error) {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Customer{}, err
	}

	if in.Name != nil {
		existing.Name = *in.Name
	}
	if in.Email != nil {
		existing.Email = optional(*in.Email)
	}
	if in.Phone != nil {
		existing.Phone = optional(*in.Phone)
	}
	if in.Status != nil {
		existing.Status = *in.Status
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, existing); err != nil {
		return Customer{}, err
	}
	return existing, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
