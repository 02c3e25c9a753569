package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"heating_controller/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockUsers(t *testing.T) (*UserSQLite, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewUserSQLite(db), mock
}

func TestUserSQLite_Create(t *testing.T) {
	tests := []struct {
		name       string
		expect     func(sqlmock.Sqlmock)
		wantID     int
		wantErrIs  error
		wantErrSub string
	}{
		{
			name: "success",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("alice", "h123").
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			wantID: 42,
		},
		{
			name: "taken username",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("alice", "h123").
					WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"))
			},
			wantErrIs: ErrDuplicate,
		},
		{
			name: "exec error",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("alice", "h123").
					WillReturnError(errors.New("disk full"))
			},
			wantErrSub: "insert user",
		},
		{
			name: "last insert id error",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("alice", "h123").
					WillReturnResult(sqlmock.NewErrorResult(errors.New("no last id")))
			},
			wantErrSub: "last insert id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockUsers(t)
			tt.expect(mock)

			id, err := repo.Create(ctx(t), "alice", "h123")
			switch {
			case tt.wantErrIs != nil:
				if !errors.Is(err, tt.wantErrIs) {
					t.Fatalf("expected %v, got %v", tt.wantErrIs, err)
				}
			case tt.wantErrSub != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrSub) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErrSub, err)
				}
				if errors.Is(err, ErrDuplicate) {
					t.Fatalf("plain failure must not look like a duplicate: %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("Create: %v", err)
				}
				if id != tt.wantID {
					t.Fatalf("want id %d, got %d", tt.wantID, id)
				}
			}
		})
	}
}

func TestUserSQLite_GetByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockUsers(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(7, "alice", "h123"))

		u, err := repo.GetByUsername(ctx(t), "alice")
		if err != nil {
			t.Fatalf("GetByUsername: %v", err)
		}
		want := models.User{ID: 7, Username: "alice", PasswordHash: "h123"}
		if u == nil || *u != want {
			t.Fatalf("want %+v, got %+v", want, u)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockUsers(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.GetByUsername(ctx(t), "ghost")
		if err != nil || u != nil {
			t.Fatalf("want nil, nil; got %+v, %v", u, err)
		}
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockUsers(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
			WithArgs("bob").
			WillReturnError(errors.New("locked"))

		u, err := repo.GetByUsername(ctx(t), "bob")
		if err == nil || !strings.Contains(err.Error(), "select user") || u != nil {
			t.Fatalf("want wrapped error, got %+v, %v", u, err)
		}
	})
}
