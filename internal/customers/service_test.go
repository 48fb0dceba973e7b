package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm-backend/internal/drive"
)

type fakeProvisioner struct {
	folders    []drive.CreateInput
	sheets     []drive.CreateInput
	seedRanges []string
	seedValues [][][]any

	failFolder error
	failSheet  error
	failSeed   error
}

func (f *fakeProvisioner) CreateFolder(ctx context.Context, token string, in drive.CreateInput) (drive.File, error) {
	if f.failFolder != nil {
		return drive.File{}, f.failFolder
	}
	f.folders = append(f.folders, in)
	return drive.File{ID: "folder-1", Name: in.Name}, nil
}

func (f *fakeProvisioner) CreateSpreadsheet(ctx context.Context, token string, in drive.CreateInput) (drive.File, error) {
	if f.failSheet != nil {
		return drive.File{}, f.failSheet
	}
	f.sheets = append(f.sheets, in)
	return drive.File{ID: "sheet-1", Name: in.Name}, nil
}

func (f *fakeProvisioner) WriteSheetValues(ctx context.Context, token, spreadsheetID, rangeA1 string, values [][]any) error {
	if f.failSeed != nil {
		return f.failSeed
	}
	f.seedRanges = append(f.seedRanges, rangeA1)
	f.seedValues = append(f.seedValues, values)
	return nil
}

type fakeCounter map[string]int64

func (f fakeCounter) CountByCustomer(ctx context.Context) (map[string]int64, error) {
	return f, nil
}

func TestCreateRequiresRootFolder(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Drive: &fakeProvisioner{}}
	_, err := svc.Create(context.Background(), "tok", CreateInput{Name: "Acme"})
	if !errors.Is(err, ErrMissingRootFolder) {
		t.Fatalf("expected ErrMissingRootFolder, got %v", err)
	}
}

func TestCreateProvisionsFolderAndSheet(t *testing.T) {
	prov := &fakeProvisioner{}
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo, Drive: prov, RootFolderID: "root"}

	customer, err := svc.Create(context.Background(), "tok", CreateInput{
		Name:  "Acme",
		Email: "ops@acme.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if customer.Status != StatusLead {
		t.Fatalf("expected default status lead, got %s", customer.Status)
	}
	if customer.DriveFolderID == nil || *customer.DriveFolderID != "folder-1" {
		t.Fatalf("expected folder id persisted, got %v", customer.DriveFolderID)
	}
	if customer.SheetFileID == nil || *customer.SheetFileID != "sheet-1" {
		t.Fatalf("expected sheet id persisted, got %v", customer.SheetFileID)
	}

	if len(prov.folders) != 1 || prov.folders[0].ParentID != "root" {
		t.Fatalf("expected folder under root, got %+v", prov.folders)
	}
	folderProps := prov.folders[0].AppProperties
	if folderProps["customerId"] != customer.ID || folderProps["kind"] != "crm_customer" {
		t.Fatalf("unexpected folder properties: %v", folderProps)
	}
	if len(prov.sheets) != 1 || prov.sheets[0].Name != "Cliente.xlsx" || prov.sheets[0].ParentID != "folder-1" {
		t.Fatalf("expected sheet inside the customer folder, got %+v", prov.sheets)
	}

	if len(prov.seedRanges) != 1 || prov.seedRanges[0] != "A1:G2" {
		t.Fatalf("expected one A1:G2 seed write, got %v", prov.seedRanges)
	}
	seed := prov.seedValues[0]
	if len(seed) != 2 || len(seed[0]) != 7 {
		t.Fatalf("expected 2x7 seed range, got %v", seed)
	}
	if seed[1][0] != customer.ID || seed[1][1] != "Acme" {
		t.Fatalf("unexpected seed row: %v", seed[1])
	}

	stored, err := repo.GetByID(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("expected persisted customer: %v", err)
	}
	if stored.Email == nil || *stored.Email != "ops@acme.com" {
		t.Fatalf("expected email persisted, got %v", stored.Email)
	}
}

func TestCreateAbortsWhenRemoteCreateFails(t *testing.T) {
	prov := &fakeProvisioner{failSheet: &drive.RemoteError{Op: "create", Status: 403, Err: errors.New("forbidden")}}
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo, Drive: prov, RootFolderID: "root"}

	_, err := svc.Create(context.Background(), "tok", CreateInput{Name: "Acme"})
	if drive.StatusOf(err) != 403 {
		t.Fatalf("expected remote error, got %v", err)
	}
	rows, _ := repo.List(context.Background(), "")
	if len(rows) != 0 {
		t.Fatalf("expected no row after remote failure, got %d", len(rows))
	}
}

func TestCreateToleratesSeedFailure(t *testing.T) {
	prov := &fakeProvisioner{failSeed: errors.New("sheets scope missing")}
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo, Drive: prov, RootFolderID: "root"}

	customer, err := svc.Create(context.Background(), "tok", CreateInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("expected seed failure tolerated, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), customer.ID); err != nil {
		t.Fatalf("expected persisted customer: %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	now := time.Now().UTC()
	email := "old@acme.com"
	phone := "123"
	seedCustomer := Customer{
		ID: "c-1", Name: "Acme", Email: &email, Phone: &phone,
		Status: StatusLead, CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.Create(context.Background(), seedCustomer); err != nil {
		t.Fatalf("seed: %v", err)
	}

	name := "Acme Corp"
	clear := ""
	status := StatusActive
	updated, err := svc.Update(context.Background(), "c-1", UpdateInput{
		Name:   &name,
		Email:  &clear,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Acme Corp" {
		t.Fatalf("expected renamed customer, got %s", updated.Name)
	}
	if updated.Email != nil {
		t.Fatalf("expected email cleared, got %v", *updated.Email)
	}
	if updated.Phone == nil || *updated.Phone != "123" {
		t.Fatalf("expected phone untouched, got %v", updated.Phone)
	}
	if updated.Status != StatusActive {
		t.Fatalf("expected status active, got %s", updated.Status)
	}
}

func TestUpdateUnknownCustomer(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	name := "X"
	_, err := svc.Update(context.Background(), "nope", UpdateInput{Name: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDecoratesDocumentCounts(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Now().UTC()
	for _, c := range []Customer{
		{ID: "c-1", Name: "Acme", Status: StatusLead, CreatedAt: now, UpdatedAt: now},
		{ID: "c-2", Name: "Globex", Status: StatusActive, CreatedAt: now, UpdatedAt: now.Add(time.Second)},
	} {
		if err := repo.Create(context.Background(), c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	svc := &Service{Repo: repo, Counts: fakeCounter{"c-1": 3}}

	summaries, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(summaries))
	}
	// Most recently updated first.
	if summaries[0].ID != "c-2" || summaries[0].DocumentCount != 0 {
		t.Fatalf("unexpected first summary: %+v", summaries[0])
	}
	if summaries[1].ID != "c-1" || summaries[1].DocumentCount != 3 {
		t.Fatalf("unexpected second summary: %+v", summaries[1])
	}
}

func TestMemoryRepoSearch(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Now().UTC()
	email := "billing@globex.com"
	for _, c := range []Customer{
		{ID: "c-1", Name: "Acme", Status: StatusLead, CreatedAt: now, UpdatedAt: now},
		{ID: "c-2", Name: "Globex", Email: &email, Status: StatusLead, CreatedAt: now, UpdatedAt: now},
	} {
		if err := repo.Create(context.Background(), c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rows, err := repo.List(context.Background(), "acme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "c-1" {
		t.Fatalf("expected name match, got %+v", rows)
	}

	rows, err = repo.List(context.Background(), "billing@")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "c-2" {
		t.Fatalf("expected email match, got %+v", rows)
	}
}
