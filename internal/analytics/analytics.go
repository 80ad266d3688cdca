// Package analytics derives chart and dashboard views from record sets.
// Every function is pure and total: any input, including nil, yields a result.
package analytics

import (
	"time"

	"cgmis/internal/records"
)

// Count is one category and how many records fell into it.
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CountBy tallies items by key. Categories appear in the order their key was
// first seen. The result is never nil.
func CountBy[T any](items []T, key func(T) string) []Count {
	out := []Count{}
	index := make(map[string]int)
	for _, it := range items {
		k := key(it)
		if i, ok := index[k]; ok {
			out[i].Value++
			continue
		}
		index[k] = len(out)
		out = append(out, Count{Name: k, Value: 1})
	}
	return out
}

func StudentsByCareerInterest(students []records.Student) []Count {
	return CountBy(students, func(s records.Student) string { return s.CareerInterest })
}

func StudentsByStatus(students []records.Student) []Count {
	return CountBy(students, func(s records.Student) string { return string(s.Status) })
}

func SessionsByCounselor(sessions []records.CounselingSession) []Count {
	return CountBy(sessions, func(c records.CounselingSession) string { return c.CounselorName })
}

func SessionsByType(sessions []records.CounselingSession) []Count {
	return CountBy(sessions, func(c records.CounselingSession) string { return string(c.Type) })
}

func SessionsByStatus(sessions []records.CounselingSession) []Count {
	return CountBy(sessions, func(c records.CounselingSession) string { return string(c.Status) })
}

// UnknownMonth labels sessions whose date does not parse.
const UnknownMonth = "Unknown"

// SessionsByMonth counts sessions per calendar month ("Jan" … "Dec").
func SessionsByMonth(sessions []records.CounselingSession) []Count {
	return CountBy(sessions, func(c records.CounselingSession) string {
		d, err := time.Parse(records.DateLayout, c.SessionDate)
		if err != nil {
			return UnknownMonth
		}
		return d.Format("Jan")
	})
}
