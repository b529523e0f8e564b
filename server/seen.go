package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type setSeenStatusRequest struct {
	PostIds []string `json:"postIds" binding:"required"`
	Seen    bool     `json:"seen"`
}

// GetPostsSeenStatus answers, per post id, whether the caller's dashboard has
// already acknowledged the published state. Unknown ids read as unseen.
func (s *Server) GetPostsSeenStatus(c *gin.Context) {
	if s.SeenStatus == nil {
		abortWithError(c, http.StatusServiceUnavailable, ErrorInternal, errors.New("seen status store not configured"))
		return
	}
	sub := currentUser(c)
	if sub == "" {
		abortWithError(c, http.StatusUnauthorized, ErrorAuthFail, errors.New("missing identity"))
		return
	}

	ids := strings.Split(c.Query("ids"), ",")
	postIds := []string{}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			postIds = append(postIds, id)
		}
	}
	if len(postIds) == 0 {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, errors.New("ids query parameter is required"))
		return
	}

	status, err := s.SeenStatus.GetPostsSeenStatus(postIds, sub)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}

	seen := gin.H{}
	for i, id := range postIds {
		seen[id] = status[i]
	}
	c.JSON(http.StatusOK, gin.H{"seen": seen})
}

// SetPostsSeenStatus marks posts seen, or clears them back to unseen.
func (s *Server) SetPostsSeenStatus(c *gin.Context) {
	if s.SeenStatus == nil {
		abortWithError(c, http.StatusServiceUnavailable, ErrorInternal, errors.New("seen status store not configured"))
		return
	}
	sub := currentUser(c)
	if sub == "" {
		abortWithError(c, http.StatusUnauthorized, ErrorAuthFail, errors.New("missing identity"))
		return
	}

	var req setSeenStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	if err := s.SeenStatus.SetPostsSeenStatus(req.PostIds, sub, req.Seen); err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.Status(http.StatusNoContent)
}
