package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE customers").
		WithArgs("Acme", nil, nil, "active", sqlmock.AnyArg(), "c-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), Customer{
		ID: "c-missing", Name: "Acme", Status: StatusActive, UpdatedAt: now,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on zero rows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListAppliesSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("WHERE lower\\(name\\) LIKE \\$1 OR lower\\(coalesce\\(email, ''\\)\\) LIKE \\$1").
		WithArgs("%acme%").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "status", "drive_folder_id", "sheet_file_id", "created_at", "updated_at",
		}).AddRow("c-1", "Acme", nil, nil, "lead", nil, nil, now, now))

	rows, err := repo.List(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "c-1" || rows[0].Status != StatusLead {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
