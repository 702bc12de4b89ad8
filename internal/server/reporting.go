package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) DailySummary(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}

	resp, err := s.reportingSvc.DailySummary(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) YTDSummary(c *gin.Context) {
	resp, err := s.reportingSvc.YTDSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
