package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cgmis/internal/analytics"
	"cgmis/internal/auth"
	"cgmis/internal/records"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := s.Authenticator.Authenticate(req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := s.Authenticator.Register(req.Email, req.Password, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// logout is stateless: tokens simply expire.
func (s *Server) logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *Server) refresh(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	sess, err := s.Authenticator.Renew(claims.Identity())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) me(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	c.JSON(http.StatusOK, claims.Identity())
}

// rawSQL answers the request helper's db group. Records are only reachable
// through the typed routes.
func (s *Server) rawSQL(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "raw database access is not available"})
}

func (s *Server) listStudents(c *gin.Context) {
	students, err := s.Records.Search(c.Request.Context(), c.Query("search"), c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (s *Server) getStudent(c *gin.Context) {
	st, err := s.Records.Student(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) createStudent(c *gin.Context) {
	var req records.Student
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := s.Records.CreateStudent(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (s *Server) updateStudent(c *gin.Context) {
	var req records.Student
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	st, err := s.Records.UpdateStudent(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) deleteStudent(c *gin.Context) {
	if err := s.Records.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listSessions(c *gin.Context) {
	sessions, err := s.Records.Sessions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) sessionsForStudent(c *gin.Context) {
	sessions, err := s.Records.SessionsForStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) getSession(c *gin.Context) {
	cs, err := s.Records.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (s *Server) createSession(c *gin.Context) {
	var req records.CounselingSession
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cs, err := s.Records.CreateSession(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cs)
}

func (s *Server) updateSession(c *gin.Context) {
	var req records.CounselingSession
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	cs, err := s.Records.UpdateSession(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.Records.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	students, err := s.Records.Students(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	sessions, err := s.Records.Sessions(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.Dashboard(students, sessions))
}

func (s *Server) sessionStatistics(c *gin.Context) {
	sessions, err := s.Records.Sessions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.Sessions(sessions))
}

func (s *Server) studentProgress(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := s.Records.Student(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	sessions, err := s.Records.SessionsForStudent(ctx, st.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.StudentProgress(st, sessions))
}
