package records

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgmis/internal/store"
)

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	db, err := store.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sqlRepo := NewSQL(db.Client, db.Driver)
	require.NoError(t, sqlRepo.Migrate(context.Background()))

	return map[string]Repository{
		"memory": NewMemory(),
		"sqlite": sqlRepo,
	}
}

func TestRepository_Contract(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			svc := NewService(repo, nil)
			require.NoError(t, svc.Seed(ctx))
			require.NoError(t, svc.Seed(ctx), "seeding twice is a no-op")

			students, err := repo.ListStudents(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(SeedStudents(), students); diff != "" {
				t.Fatalf("students (-want +got):\n%s", diff)
			}
			sessions, err := repo.ListSessions(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(SeedSessions(), sessions); diff != "" {
				t.Fatalf("sessions (-want +got):\n%s", diff)
			}

			forSarah, err := repo.ListSessionsForStudent(ctx, "1")
			require.NoError(t, err)
			require.Len(t, forSarah, 3)
			assert.Equal(t, []string{"1", "2", "10"}, []string{forSarah[0].ID, forSarah[1].ID, forSarah[2].ID})

			st, err := repo.GetStudent(ctx, "6")
			require.NoError(t, err)
			assert.Equal(t, StatusGraduated, st.Status)
			st.Status = StatusInactive
			st.Phone = nil
			require.NoError(t, repo.UpdateStudent(ctx, st))
			got, err := repo.GetStudent(ctx, "6")
			require.NoError(t, err)
			assert.Equal(t, st, got)

			c, err := repo.GetSession(ctx, "10")
			require.NoError(t, err)
			c.Status = SessionCompleted
			require.NoError(t, repo.UpdateSession(ctx, c))

			require.NoError(t, repo.DeleteSession(ctx, "10"))
			_, err = repo.GetSession(ctx, "10")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, repo.DeleteStudent(ctx, "missing"), ErrNotFound)
			assert.ErrorIs(t, repo.UpdateStudent(ctx, Student{ID: "missing"}), ErrNotFound)
			assert.ErrorIs(t, repo.UpdateSession(ctx, CounselingSession{ID: "missing"}), ErrNotFound)
			_, err = repo.GetStudent(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQL_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQL(db, "pgx")
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE id = $1")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "career_interest", "date_joined", "phone", "address", "status"}).
			AddRow("1", "Sarah", "Johnson", "sarah.johnson@email.com", "Software Development", "2024-01-15", nil, "123 Main St, City, State", "Active"))
	mock.ExpectExec(regexp.QuoteMeta("SELECT $1, $2, $3, $4, $5, $6, $7, $8, COALESCE(MAX(position), 0) + 1 FROM counseling_sessions")).
		WithArgs("s1", "1", "Dr. Susan Lee", "2024-05-01", "", 30, "Group", "Scheduled").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM counseling_sessions WHERE id = $1")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	st, err := repo.GetStudent(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, st.Phone)
	require.NotNil(t, st.Address)
	assert.Equal(t, StatusActive, st.Status)

	require.NoError(t, repo.CreateSession(ctx, CounselingSession{
		ID: "s1", StudentID: "1", CounselorName: "Dr. Susan Lee", SessionDate: "2024-05-01",
		Duration: 30, Type: TypeGroup, Status: SessionScheduled,
	}))
	assert.ErrorIs(t, repo.DeleteSession(ctx, "gone"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newSeededService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewSeededMemory(), nil)
	n := 0
	svc.newID = func() string {
		n++
		return "new-" + string(rune('0'+n))
	}
	return svc
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	ids := func(ss []Student) []string {
		out := []string{}
		for _, s := range ss {
			out = append(out, s.ID)
		}
		return out
	}

	tests := []struct {
		term, status string
		want         []string
	}{
		{"", "", []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"", StatusAll, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"software", "", []string{"1", "8"}},
		{"SARAH", "", []string{"1"}},
		{"chen", "", []string{"2"}},
		{"@email.com", "Graduated", []string{"6"}},
		{"", "Inactive", []string{}},
		{"nobody", StatusAll, []string{}},
	}
	for _, tt := range tests {
		got, err := svc.Search(ctx, tt.term, tt.status)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ids(got), "term=%q status=%q", tt.term, tt.status)
	}
}

func TestService_CreateStudent(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	_, err := svc.CreateStudent(ctx, Student{FirstName: "Ann", LastName: "Lee", CareerInterest: "Law", DateJoined: "2024-05-01"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateStudent(ctx, Student{FirstName: "Ann", LastName: "Lee", Email: "ann@x.io", CareerInterest: "Law", DateJoined: "May 1"})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "dateJoined", fe.Field)

	st, err := svc.CreateStudent(ctx, Student{FirstName: "Ann", LastName: "Lee", Email: "ann@x.io", CareerInterest: "Law", DateJoined: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "new-1", st.ID)
	assert.Equal(t, StatusActive, st.Status)

	all, err := svc.Students(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 9)
	assert.Equal(t, "new-1", all[8].ID)
}

func TestService_CreateSessionChecksStudent(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	_, err := svc.CreateSession(ctx, CounselingSession{StudentID: "99", CounselorName: "Dr. Susan Lee", SessionDate: "2024-05-01", Duration: 30})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "studentId", fe.Field)

	_, err = svc.CreateSession(ctx, CounselingSession{StudentID: "3", CounselorName: "Dr. Susan Lee", SessionDate: "2024-05-01", Duration: 0})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateSession(ctx, CounselingSession{StudentID: "3", CounselorName: "Dr. Susan Lee", SessionDate: "2024-05-01", Duration: 30, Type: "Seminar"})
	require.ErrorIs(t, err, ErrValidation)

	c, err := svc.CreateSession(ctx, CounselingSession{StudentID: "3", CounselorName: "Dr. Susan Lee", SessionDate: "2024-05-01", Duration: 30})
	require.NoError(t, err)
	assert.Equal(t, TypeIndividual, c.Type)
	assert.Equal(t, SessionScheduled, c.Status)

	mine, err := svc.SessionsForStudent(ctx, "3")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.SessionsForStudent(ctx, "99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteStudentRemovesSessions(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	require.NoError(t, svc.DeleteStudent(ctx, "1"))
	sessions, err := svc.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 7)
	for _, c := range sessions {
		assert.NotEqual(t, "1", c.StudentID)
	}
	assert.ErrorIs(t, svc.DeleteStudent(ctx, "1"), ErrNotFound)
}

func TestService_UpdateRequiresID(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	st := SeedStudents()[0]
	st.ID = ""
	_, err := svc.UpdateStudent(ctx, st)
	require.ErrorIs(t, err, ErrValidation)

	c := SeedSessions()[0]
	c.ID = ""
	_, err = svc.UpdateSession(ctx, c)
	require.ErrorIs(t, err, ErrValidation)

	st.ID = "2"
	st.Email = "sarah.j@email.com"
	updated, err := svc.UpdateStudent(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, "sarah.j@email.com", updated.Email)
}
