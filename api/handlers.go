package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"report-templates/errs"
	"report-templates/query"
)

func (s *Server) healthz(c *gin.Context) {
	if err := s.Health(c.Request.Context()); err != nil {
		s.Logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// findTemplates übernimmt nur die tatsächlich übergebenen Query-Parameter als Kriterien;
// ?title= ist ein gesetztes, leeres Kriterium.
func (s *Server) findTemplates(c *gin.Context) {
	b := query.NewBuilder()
	if v, ok := c.GetQuery("title"); ok {
		b = b.WithTitle(v)
	}
	if v, ok := c.GetQuery("publisher"); ok {
		b = b.WithPublisher(v)
	}
	if v, ok := c.GetQuery("license"); ok {
		b = b.WithLicense(v)
	}
	if v, ok := c.GetQuery("creator"); ok {
		b = b.WithCreator(v)
	}

	templates, err := s.Service.Find(c.Request.Context(), b.Build())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (s *Server) getTemplate(c *gin.Context) {
	tpl, err := s.Service.GetByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if tpl == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errs.CodeOf(err)})
}

func statusFor(err error) int {
	switch errs.CodeOf(err) {
	case errs.CodeInvalidArgument:
		return http.StatusBadRequest
	case errs.CodeMalformedTemplate:
		return http.StatusUnprocessableEntity
	case errs.CodeDuplicateTemplate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
