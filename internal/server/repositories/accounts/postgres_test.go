package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

var accountCols = []string{
	"id", "username", "email", "password_hash", "role", "status",
	"is_verified", "refresh_token", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func accountRow(refreshToken any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(accountCols).
		AddRow("acc-1", "alice", "alice@example.com", "$2a$10$hash", "user", "active",
			false, refreshToken, now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+accounts`).
		WithArgs("acc-1", "alice", "alice@example.com", "$2a$10$hash", "user", "active", false).
		WillReturnRows(accountRow(nil))

	got, err := repo.Create(context.Background(), &models.Account{
		ID: "acc-1", Username: "alice", Email: "alice@example.com",
		PasswordHash: "$2a$10$hash", Role: "user", Status: "active",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "acc-1" || got.Username != "alice" {
		t.Fatalf("unexpected account: %+v", got)
	}
	if got.RefreshToken != nil {
		t.Fatalf("fresh account must have no refresh token")
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected store-assigned timestamps")
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	_, err := repo.Create(context.Background(), &models.Account{
		ID: "acc-2", Username: "bob", Email: "alice@example.com",
	})
	if !errors.Is(err, common.ErrDuplicateAccount) {
		t.Fatalf("expected common.ErrDuplicateAccount, got %v", err)
	}
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(accountRow("some.refresh.token"))

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if got.RefreshToken == nil || *got.RefreshToken != "some.refresh.token" {
		t.Fatalf("expected refresh token slot to be scanned, got %+v", got.RefreshToken)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_BuildsPatchSetList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*UPDATE accounts SET username = \$1, is_verified = \$2, updated_at = now\(\) WHERE id = \$3 RETURNING`).
		WithArgs("newname", true, "acc-1").
		WillReturnRows(accountRow(nil))

	username := "newname"
	verified := true
	_, err := repo.Update(context.Background(), "acc-1", &models.AccountPatch{
		Username: &username, IsVerified: &verified,
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_EmptyPatch(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.Update(context.Background(), "acc-1", &models.AccountPatch{})
	if !errors.Is(err, common.ErrNoFieldsProvided) {
		t.Fatalf("expected common.ErrNoFieldsProvided, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*UPDATE accounts SET`).
		WillReturnError(sql.ErrNoRows)

	role := "admin"
	_, err := repo.Update(context.Background(), "ghost", &models.AccountPatch{Role: &role})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestSetRefreshToken_SetAndClear(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	token := "new.refresh.token"
	mock.ExpectExec(`UPDATE accounts SET refresh_token = \$2, updated_at = now\(\) WHERE id = \$1`).
		WithArgs("acc-1", token).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetRefreshToken(context.Background(), "acc-1", &token); err != nil {
		t.Fatalf("SetRefreshToken error: %v", err)
	}

	mock.ExpectExec(`UPDATE accounts SET refresh_token = \$2`).
		WithArgs("acc-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetRefreshToken(context.Background(), "acc-1", nil); err != nil {
		t.Fatalf("SetRefreshToken(nil) error: %v", err)
	}
}

func TestSetRefreshToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts SET refresh_token = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetRefreshToken(context.Background(), "ghost", nil)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestList_ScansRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(accountCols).
		AddRow("acc-1", "alice", "alice@example.com", "h1", "user", "active", false, nil, now, now).
		AddRow("acc-2", "bob", "bob@example.com", "h2", "admin", "active", true, "tok", now, now)

	mock.ExpectQuery(`SELECT .* FROM accounts ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(got))
	}
	if got[1].RefreshToken == nil || *got[1].RefreshToken != "tok" {
		t.Fatalf("nullable refresh token scanned incorrectly: %+v", got[1])
	}
}

func TestCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if total != 42 {
		t.Fatalf("expected 42, got %d", total)
	}
}
