package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgmis/internal/records"
)

func TestCountBy_FirstSeenOrder(t *testing.T) {
	type rec struct{ k string }
	got := CountBy([]rec{{"A"}, {"A"}, {"B"}}, func(r rec) string { return r.k })
	assert.Equal(t, []Count{{"A", 2}, {"B", 1}}, got)

	got = CountBy([]rec{{"B"}, {"A"}, {"B"}, {"C"}, {"A"}, {"B"}}, func(r rec) string { return r.k })
	assert.Equal(t, []Count{{"B", 3}, {"A", 2}, {"C", 1}}, got)
}

func TestCountBy_Empty(t *testing.T) {
	got := CountBy[string](nil, func(s string) string { return s })
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, StudentsByStatus(nil))
	assert.Empty(t, SessionsByMonth([]records.CounselingSession{}))
}

func TestCountBy_TotalMatchesInput(t *testing.T) {
	sessions := records.SeedSessions()
	for name, counts := range map[string][]Count{
		"counselor": SessionsByCounselor(sessions),
		"type":      SessionsByType(sessions),
		"status":    SessionsByStatus(sessions),
		"month":     SessionsByMonth(sessions),
	} {
		total := 0
		for _, c := range counts {
			total += c.Value
		}
		assert.Equal(t, len(sessions), total, name)
	}
}

func TestSeedViews(t *testing.T) {
	students := records.SeedStudents()
	sessions := records.SeedSessions()

	tests := []struct {
		name string
		got  []Count
		want []Count
	}{
		{"career interest", StudentsByCareerInterest(students), []Count{
			{"Software Development", 2}, {"Data Science", 1}, {"Healthcare", 1},
			{"Business Administration", 1}, {"Engineering", 1}, {"Education", 1}, {"Marketing", 1},
		}},
		{"student status", StudentsByStatus(students), []Count{{"Active", 7}, {"Graduated", 1}}},
		{"counselor", SessionsByCounselor(sessions), []Count{
			{"Dr. Patricia Williams", 4}, {"Prof. Mark Johnson", 2}, {"Dr. Susan Lee", 1},
			{"Ms. Jennifer Brown", 2}, {"Dr. Robert Martinez", 1},
		}},
		{"session type", SessionsByType(sessions), []Count{{"Individual", 10}}},
		{"session status", SessionsByStatus(sessions), []Count{{"Completed", 9}, {"Scheduled", 1}}},
		{"month", SessionsByMonth(sessions), []Count{{"Mar", 3}, {"Apr", 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSessionsByMonth_Unknown(t *testing.T) {
	got := SessionsByMonth([]records.CounselingSession{
		{SessionDate: "2024-12-01"}, {SessionDate: "soon"}, {SessionDate: ""}, {SessionDate: "2025-12-31"},
	})
	assert.Equal(t, []Count{{"Dec", 2}, {UnknownMonth, 2}}, got)
}

func TestDashboard(t *testing.T) {
	v := Dashboard(records.SeedStudents(), records.SeedSessions())

	assert.Equal(t, Summary{
		TotalStudents:     8,
		ActiveStudents:    7,
		GraduatedStudents: 1,
		InactiveStudents:  0,
		TotalSessions:     10,
		CompletedSessions: 9,
		ActivePercent:     88,
		CompletionRate:    90,
	}, v.Summary)

	require.Len(t, v.RecentSessions, 5)
	var ids, names []string
	for _, r := range v.RecentSessions {
		ids = append(ids, r.ID)
		names = append(names, r.StudentName)
	}
	assert.Equal(t, []string{"10", "9", "8", "7", "6"}, ids)
	assert.Equal(t, []string{"Sarah Johnson", "Robert Garcia", "Lisa Anderson", "Michael Chen", "Maria Rodriguez"}, names)
}

func TestDashboard_FewSessionsAndOrphans(t *testing.T) {
	v := Dashboard(nil, []records.CounselingSession{{ID: "a", StudentID: "ghost"}, {ID: "b", StudentID: "ghost"}})
	require.Len(t, v.RecentSessions, 2)
	assert.Equal(t, "b", v.RecentSessions[0].ID)
	assert.Equal(t, "Unknown Student", v.RecentSessions[0].StudentName)

	assert.Equal(t, 0, v.Summary.CompletionRate)

	empty := Dashboard(nil, nil)
	assert.Equal(t, Summary{}, empty.Summary)
	assert.NotNil(t, empty.RecentSessions)
	assert.Empty(t, empty.CareerInterests)
}

func TestSessions(t *testing.T) {
	st := Sessions(records.SeedSessions())
	assert.Equal(t, 10, st.Total)
	assert.Equal(t, 60+45+60+50+55+60+30+45+60+60, st.TotalMinutes)
	assert.Equal(t, []Count{{"Individual", 10}}, st.ByType)
}

func TestStudentProgress(t *testing.T) {
	students := records.SeedStudents()
	p := StudentProgress(students[0], records.SeedSessions())

	require.Len(t, p.Sessions, 3)
	var ids []string
	for _, c := range p.Sessions {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"10", "2", "1"}, ids, "newest first")
	assert.Equal(t, 2, p.CompletedSessions)
	assert.Equal(t, 105, p.TotalMinutes)
	assert.Equal(t, "2024-04-25", p.LastSessionDate)

	none := StudentProgress(students[5], records.SeedSessions())
	assert.NotNil(t, none.Sessions)
	assert.Empty(t, none.Sessions)
	assert.Equal(t, "", none.LastSessionDate)
}

func TestStudentProgress_SortsNewestFirst(t *testing.T) {
	st := records.Student{ID: "s"}
	p := StudentProgress(st, []records.CounselingSession{
		{ID: "a", StudentID: "s", SessionDate: "2024-02-01"},
		{ID: "b", StudentID: "s", SessionDate: "2024-05-10"},
		{ID: "c", StudentID: "other", SessionDate: "2024-06-01"},
		{ID: "d", StudentID: "s", SessionDate: "2024-03-15"},
		{ID: "e", StudentID: "s", SessionDate: "2024-03-15"},
	})
	var ids []string
	for _, c := range p.Sessions {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"b", "d", "e", "a"}, ids)
	assert.Equal(t, "2024-05-10", p.LastSessionDate)
}

func TestDashboard_Percentages(t *testing.T) {
	students := []records.Student{
		{ID: "1", Status: records.StatusActive},
		{ID: "2", Status: records.StatusInactive},
		{ID: "3", Status: records.StatusGraduated},
	}
	sessions := []records.CounselingSession{
		{ID: "a", StudentID: "1", Status: records.SessionCompleted},
		{ID: "b", StudentID: "1", Status: records.SessionScheduled},
		{ID: "c", StudentID: "2", Status: records.SessionCancelled},
	}
	v := Dashboard(students, sessions)
	assert.Equal(t, 33, v.Summary.ActivePercent)
	assert.Equal(t, 33, v.Summary.CompletionRate)

	v = Dashboard(students[:2], sessions[:2])
	assert.Equal(t, 50, v.Summary.ActivePercent)
	assert.Equal(t, 50, v.Summary.CompletionRate)
}
