package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"cgmis/internal/analytics"
	"cgmis/internal/identity"
	"cgmis/internal/records"
	"cgmis/internal/session"
)

// StudentsAPI groups the /api/students endpoints.
type StudentsAPI struct{ c *Client }

func (c *Client) Students() StudentsAPI { return StudentsAPI{c} }

// List returns students, filtered server-side when search or status are set.
func (a StudentsAPI) List(ctx context.Context, search, status string) ([]records.Student, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if status != "" {
		q.Set("status", status)
	}
	endpoint := "/students"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var out []records.Student
	err := a.c.Get(ctx, endpoint, &out)
	return out, err
}

func (a StudentsAPI) Get(ctx context.Context, id string) (records.Student, error) {
	var out records.Student
	err := a.c.Get(ctx, "/students/"+url.PathEscape(id), &out)
	return out, err
}

func (a StudentsAPI) Create(ctx context.Context, s records.Student) (records.Student, error) {
	var out records.Student
	err := a.c.Post(ctx, "/students", s, &out)
	return out, err
}

func (a StudentsAPI) Update(ctx context.Context, id string, s records.Student) (records.Student, error) {
	var out records.Student
	err := a.c.Put(ctx, "/students/"+url.PathEscape(id), s, &out)
	return out, err
}

func (a StudentsAPI) Delete(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/students/"+url.PathEscape(id), nil)
}

// SessionsAPI groups the /api/sessions endpoints.
type SessionsAPI struct{ c *Client }

func (c *Client) Sessions() SessionsAPI { return SessionsAPI{c} }

func (a SessionsAPI) List(ctx context.Context) ([]records.CounselingSession, error) {
	var out []records.CounselingSession
	err := a.c.Get(ctx, "/sessions", &out)
	return out, err
}

func (a SessionsAPI) ForStudent(ctx context.Context, studentID string) ([]records.CounselingSession, error) {
	var out []records.CounselingSession
	err := a.c.Get(ctx, "/sessions/student/"+url.PathEscape(studentID), &out)
	return out, err
}

func (a SessionsAPI) Create(ctx context.Context, s records.CounselingSession) (records.CounselingSession, error) {
	var out records.CounselingSession
	err := a.c.Post(ctx, "/sessions", s, &out)
	return out, err
}

func (a SessionsAPI) Update(ctx context.Context, id string, s records.CounselingSession) (records.CounselingSession, error) {
	var out records.CounselingSession
	err := a.c.Put(ctx, "/sessions/"+url.PathEscape(id), s, &out)
	return out, err
}

func (a SessionsAPI) Delete(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/sessions/"+url.PathEscape(id), nil)
}

// AnalyticsAPI groups the /api/analytics endpoints.
type AnalyticsAPI struct{ c *Client }

func (c *Client) Analytics() AnalyticsAPI { return AnalyticsAPI{c} }

func (a AnalyticsAPI) Dashboard(ctx context.Context) (analytics.DashboardView, error) {
	var out analytics.DashboardView
	err := a.c.Get(ctx, "/analytics/dashboard", &out)
	return out, err
}

func (a AnalyticsAPI) StudentProgress(ctx context.Context, studentID string) (analytics.Progress, error) {
	var out analytics.Progress
	err := a.c.Get(ctx, "/analytics/student/"+url.PathEscape(studentID), &out)
	return out, err
}

func (a AnalyticsAPI) SessionStatistics(ctx context.Context) (analytics.SessionStatistics, error) {
	var out analytics.SessionStatistics
	err := a.c.Get(ctx, "/analytics/sessions", &out)
	return out, err
}

// Credentials is the sign-in and registration payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthAPI groups the /auth endpoints.
type AuthAPI struct{ c *Client }

func (c *Client) Auth() AuthAPI { return AuthAPI{c} }

func (a AuthAPI) Login(ctx context.Context, email, password string) (session.Session, error) {
	var out session.Session
	err := a.c.Request(ctx, "/auth/login", Options{Method: http.MethodPost, Body: Credentials{Email: email, Password: password}}, &out)
	return out, err
}

func (a AuthAPI) Register(ctx context.Context, email, password, name string) (identity.Identity, error) {
	var out identity.Identity
	err := a.c.Request(ctx, "/auth/register", Options{Method: http.MethodPost, Body: Credentials{Email: email, Password: password, Name: name}}, &out)
	return out, err
}

func (a AuthAPI) Logout(ctx context.Context) error {
	return a.c.Request(ctx, "/auth/logout", Options{Method: http.MethodPost}, nil)
}

func (a AuthAPI) Refresh(ctx context.Context) (session.Session, error) {
	var out session.Session
	err := a.c.Request(ctx, "/auth/refresh", Options{Method: http.MethodPost}, &out)
	return out, err
}

func (a AuthAPI) Me(ctx context.Context) (identity.Identity, error) {
	var out identity.Identity
	err := a.c.Request(ctx, "/auth/me", Options{}, &out)
	return out, err
}

// Statement is a raw database call forwarded to the server.
type Statement struct {
	Query  string `json:"query"`
	Params []any  `json:"params,omitempty"`
}

// DBAPI groups the /db endpoints. The response shape is up to the server.
type DBAPI struct{ c *Client }

func (c *Client) DB() DBAPI { return DBAPI{c} }

func (a DBAPI) Query(ctx context.Context, query string, params []any, out any) error {
	return a.c.Request(ctx, "/db/query", Options{Method: http.MethodPost, Body: Statement{Query: query, Params: params}}, out)
}

func (a DBAPI) Execute(ctx context.Context, query string, params []any, out any) error {
	return a.c.Request(ctx, "/db/execute", Options{Method: http.MethodPost, Body: Statement{Query: query, Params: params}}, out)
}
