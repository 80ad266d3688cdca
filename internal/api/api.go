// Package api serves the cgmis HTTP API used by the request helper.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cgmis/internal/auth"
	"cgmis/internal/httpmiddleware"
	"cgmis/internal/identity"
	"cgmis/internal/records"
	"cgmis/internal/session"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Server wires the HTTP routes to the record service and the authenticator.
type Server struct {
	Records       *records.Service
	Authenticator *session.Authenticator
	Tokens        *auth.Issuer
	Limiter       httpmiddleware.Limiter
	Health        map[string]HealthCheck
	Log           *zap.Logger
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.AccessLog(log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.CORS())
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.Metrics())
	if s.Limiter != nil {
		r.Use(httpmiddleware.RateLimit(s.Limiter, log))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.healthz)

	a := r.Group("/auth")
	a.POST("/login", s.login)
	a.POST("/register", s.register)
	a.POST("/logout", s.logout)
	a.POST("/refresh", auth.RequireSession(s.Tokens), s.refresh)
	a.GET("/me", auth.RequireSession(s.Tokens), s.me)

	d := r.Group("/db", auth.RequireSession(s.Tokens))
	d.POST("/query", s.rawSQL)
	d.POST("/execute", s.rawSQL)

	v := r.Group("/api", auth.RequireSession(s.Tokens))
	v.GET("/students", s.listStudents)
	v.POST("/students", s.createStudent)
	v.GET("/students/:id", s.getStudent)
	v.PUT("/students/:id", s.updateStudent)
	v.DELETE("/students/:id", s.deleteStudent)

	v.GET("/sessions", s.listSessions)
	v.POST("/sessions", s.createSession)
	v.GET("/sessions/student/:id", s.sessionsForStudent)
	v.GET("/sessions/:id", s.getSession)
	v.PUT("/sessions/:id", s.updateSession)
	v.DELETE("/sessions/:id", s.deleteSession)

	v.GET("/analytics/dashboard", s.dashboard)
	v.GET("/analytics/sessions", s.sessionStatistics)
	v.GET("/analytics/student/:id", s.studentProgress)

	return r
}

func (s *Server) healthz(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok"}
	for name, check := range s.Health {
		ok := check(c.Request.Context())
		body[name] = ok
		if !ok {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}
	c.JSON(status, body)
}

// fail maps domain errors to HTTP statuses.
func fail(c *gin.Context, err error) {
	var (
		ve *session.ValidationError
		fe *records.FieldError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Error(), "field": fe.Field})
	case errors.Is(err, records.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, identity.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrUnknownIdentity):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
