package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpsertAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("google:1", "g@example.com", "Grace", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "email", "name", "picture", "created_at", "last_login_at"}).
		AddRow("google:1", "g@example.com", "Grace", "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).WithArgs("google:1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	ctx := context.Background()
	if err := repo.Upsert(ctx, User{ID: "google:1", Email: "g@example.com", Name: "Grace"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := repo.GetByID(ctx, "google:1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Grace" {
		t.Fatalf("unexpected name %q", got.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
