package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AnalyticsSummary reports post counts per lifecycle status and target counts
// per platform and state.
func (s *Server) AnalyticsSummary(c *gin.Context) {
	postCounts, err := s.Posts.CountPostsByStatus()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	targetCounts, err := s.Posts.CountTargetsByState()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":   postCounts,
		"targets": targetCounts,
	})
}
