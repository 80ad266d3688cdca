package analytics

import (
	"math"
	"slices"
	"strings"

	"cgmis/internal/records"
)

const recentLimit = 5

// RecentSession is a session paired with its student's display name.
type RecentSession struct {
	records.CounselingSession
	StudentName string `json:"studentName"`
}

// Summary holds the headline counters of the dashboard.
type Summary struct {
	TotalStudents     int `json:"totalStudents"`
	ActiveStudents    int `json:"activeStudents"`
	GraduatedStudents int `json:"graduatedStudents"`
	InactiveStudents  int `json:"inactiveStudents"`
	TotalSessions     int `json:"totalSessions"`
	CompletedSessions int `json:"completedSessions"`
	// Whole percentages, 0 when the denominator is 0.
	ActivePercent  int `json:"activePercent"`
	CompletionRate int `json:"completionRate"`
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

// DashboardView is everything the overview screen shows.
type DashboardView struct {
	Summary         Summary         `json:"summary"`
	CareerInterests []Count         `json:"careerInterests"`
	Counselors      []Count         `json:"counselors"`
	Months          []Count         `json:"months"`
	RecentSessions  []RecentSession `json:"recentSessions"`
}

// Dashboard builds the overview. Recent sessions are the last five in input
// order, newest first; a session whose student is missing gets "Unknown Student".
func Dashboard(students []records.Student, sessions []records.CounselingSession) DashboardView {
	v := DashboardView{
		Summary: Summary{
			TotalStudents: len(students),
			TotalSessions: len(sessions),
		},
		CareerInterests: StudentsByCareerInterest(students),
		Counselors:      SessionsByCounselor(sessions),
		Months:          SessionsByMonth(sessions),
		RecentSessions:  []RecentSession{},
	}
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.FullName()
		switch s.Status {
		case records.StatusActive:
			v.Summary.ActiveStudents++
		case records.StatusGraduated:
			v.Summary.GraduatedStudents++
		case records.StatusInactive:
			v.Summary.InactiveStudents++
		}
	}
	for _, c := range sessions {
		if c.Status == records.SessionCompleted {
			v.Summary.CompletedSessions++
		}
	}

	v.Summary.ActivePercent = percent(v.Summary.ActiveStudents, v.Summary.TotalStudents)
	v.Summary.CompletionRate = percent(v.Summary.CompletedSessions, v.Summary.TotalSessions)

	start := len(sessions) - recentLimit
	if start < 0 {
		start = 0
	}
	for i := len(sessions) - 1; i >= start; i-- {
		c := sessions[i]
		name, ok := names[c.StudentID]
		if !ok {
			name = "Unknown Student"
		}
		v.RecentSessions = append(v.RecentSessions, RecentSession{CounselingSession: c, StudentName: name})
	}
	return v
}

// SessionStatistics groups all sessions by counselor, type, status and month.
type SessionStatistics struct {
	Total        int     `json:"total"`
	TotalMinutes int     `json:"totalMinutes"`
	ByCounselor  []Count `json:"byCounselor"`
	ByType       []Count `json:"byType"`
	ByStatus     []Count `json:"byStatus"`
	ByMonth      []Count `json:"byMonth"`
}

func Sessions(sessions []records.CounselingSession) SessionStatistics {
	st := SessionStatistics{
		Total:       len(sessions),
		ByCounselor: SessionsByCounselor(sessions),
		ByType:      SessionsByType(sessions),
		ByStatus:    SessionsByStatus(sessions),
		ByMonth:     SessionsByMonth(sessions),
	}
	for _, c := range sessions {
		st.TotalMinutes += c.Duration
	}
	return st
}

// Progress summarizes one student's counseling history.
type Progress struct {
	Student           records.Student             `json:"student"`
	Sessions          []records.CounselingSession `json:"sessions"`
	CompletedSessions int                         `json:"completedSessions"`
	TotalMinutes      int                         `json:"totalMinutes"`
	LastSessionDate   string                      `json:"lastSessionDate,omitempty"`
}

// StudentProgress picks the student's sessions out of sessions, newest first.
// Minutes count completed sessions only; the last session date is the latest
// of any status.
func StudentProgress(student records.Student, sessions []records.CounselingSession) Progress {
	p := Progress{Student: student, Sessions: []records.CounselingSession{}}
	for _, c := range sessions {
		if c.StudentID != student.ID {
			continue
		}
		p.Sessions = append(p.Sessions, c)
		if c.Status == records.SessionCompleted {
			p.CompletedSessions++
			p.TotalMinutes += c.Duration
		}
		// YYYY-MM-DD compares chronologically as text
		if c.SessionDate > p.LastSessionDate {
			p.LastSessionDate = c.SessionDate
		}
	}
	slices.SortStableFunc(p.Sessions, func(a, b records.CounselingSession) int {
		return strings.Compare(b.SessionDate, a.SessionDate)
	})
	return p
}
