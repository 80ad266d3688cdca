package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cgmis/internal/analytics"
	"cgmis/internal/apiclient"
	"cgmis/internal/records"
)

var errNotSignedIn = errors.New("not signed in; run cgmis login first")

// recordSource is where the record commands read from: the configured
// repository, or the API with the stored session token.
type recordSource interface {
	Students(ctx context.Context, search, status string) ([]records.Student, error)
	Sessions(ctx context.Context, studentID string) ([]records.CounselingSession, error)
	Dashboard(ctx context.Context) (analytics.DashboardView, error)
}

type localSource struct{ svc *records.Service }

func (l localSource) Students(ctx context.Context, search, status string) ([]records.Student, error) {
	return l.svc.Search(ctx, search, status)
}

func (l localSource) Sessions(ctx context.Context, studentID string) ([]records.CounselingSession, error) {
	if studentID == "" {
		return l.svc.Sessions(ctx)
	}
	return l.svc.SessionsForStudent(ctx, studentID)
}

func (l localSource) Dashboard(ctx context.Context) (analytics.DashboardView, error) {
	students, err := l.svc.Students(ctx)
	if err != nil {
		return analytics.DashboardView{}, err
	}
	sessions, err := l.svc.Sessions(ctx)
	if err != nil {
		return analytics.DashboardView{}, err
	}
	return analytics.Dashboard(students, sessions), nil
}

type remoteSource struct{ c *apiclient.Client }

func (r remoteSource) Students(ctx context.Context, search, status string) ([]records.Student, error) {
	return r.c.Students().List(ctx, search, status)
}

func (r remoteSource) Sessions(ctx context.Context, studentID string) ([]records.CounselingSession, error) {
	if studentID == "" {
		return r.c.Sessions().List(ctx)
	}
	return r.c.Sessions().ForStudent(ctx, studentID)
}

func (r remoteSource) Dashboard(ctx context.Context) (analytics.DashboardView, error) {
	return r.c.Analytics().Dashboard(ctx)
}

func (a *app) source(ctx context.Context, remote bool) (recordSource, error) {
	if remote {
		s, err := a.sessions.GetSession(ctx)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, errNotSignedIn
		}
		c := apiclient.New(a.cfg.BaseURL())
		c.Token = s.Token
		return remoteSource{c}, nil
	}

	repo, _, closeRepo, err := records.Open(ctx, a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRepo)
	svc := records.NewService(repo, a.log)
	if err := svc.Seed(ctx); err != nil {
		return nil, err
	}
	return localSource{svc}, nil
}

func (a *app) studentsCmd() *cobra.Command {
	var (
		search, status string
		remote         bool
	)
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List students, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.source(cmd.Context(), remote)
			if err != nil {
				return err
			}
			students, err := src.Students(cmd.Context(), search, status)
			if err != nil {
				return err
			}
			writeStudents(cmd.OutOrStdout(), students)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match name, email or career interest")
	cmd.Flags().StringVar(&status, "status", records.StatusAll, "Active, Inactive, Graduated or All")
	cmd.Flags().BoolVar(&remote, "remote", false, "Read through the API using the stored session")
	return cmd
}

func (a *app) sessionsCmd() *cobra.Command {
	var (
		student string
		remote  bool
	)
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List counseling sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.source(cmd.Context(), remote)
			if err != nil {
				return err
			}
			sessions, err := src.Sessions(cmd.Context(), student)
			if err != nil {
				return err
			}
			writeSessions(cmd.OutOrStdout(), sessions)
			return nil
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "Only sessions of this student id")
	cmd.Flags().BoolVar(&remote, "remote", false, "Read through the API using the stored session")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.source(cmd.Context(), remote)
			if err != nil {
				return err
			}
			v, err := src.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			writeDashboard(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Read through the API using the stored session")
	return cmd
}

func writeStudents(w io.Writer, students []records.Student) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCAREER INTEREST\tSTATUS\tJOINED")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.FullName(), s.Email, s.CareerInterest, s.Status, s.DateJoined)
	}
	_ = tw.Flush()
}

func writeSessions(w io.Writer, sessions []records.CounselingSession) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTUDENT\tCOUNSELOR\tDATE\tMINUTES\tTYPE\tSTATUS")
	for _, c := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", c.ID, c.StudentID, c.CounselorName, c.SessionDate, c.Duration, c.Type, c.Status)
	}
	_ = tw.Flush()
}

func writeCounts(tw *tabwriter.Writer, title string, counts []analytics.Count) {
	fmt.Fprintf(tw, "\n%s\n", title)
	for _, c := range counts {
		fmt.Fprintf(tw, "  %s\t%d\n", c.Name, c.Value)
	}
}

func writeDashboard(w io.Writer, v analytics.DashboardView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	s := v.Summary
	fmt.Fprintf(tw, "Students\t%d\t(active %d, graduated %d, inactive %d)\n",
		s.TotalStudents, s.ActiveStudents, s.GraduatedStudents, s.InactiveStudents)
	fmt.Fprintf(tw, "Sessions\t%d\t(completed %d)\n", s.TotalSessions, s.CompletedSessions)
	writeCounts(tw, "Career interests", v.CareerInterests)
	writeCounts(tw, "Counselors", v.Counselors)
	writeCounts(tw, "Sessions by month", v.Months)
	fmt.Fprintf(tw, "\nRecent sessions\n")
	for _, r := range v.RecentSessions {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", r.SessionDate, r.StudentName, r.CounselorName, r.Status)
	}
	_ = tw.Flush()
}
