package server

import (
	"net/http"

	"github.com/Ishwaqsyed03/Brand-manager/file_store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// UploadMedia accepts one multipart file, validates its content type against
// the supported media kinds and stores it. The response carries the url to put
// on a post's media list.
func (s *Server) UploadMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, errors.Wrap(err, "missing file"))
		return
	}

	kind, err := file_store.DetectMediaKind(fileHeader.Header.Get("Content-Type"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, ErrorInvalidRequest, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	defer file.Close()

	key, err := s.Files.Store(file, fileHeader.Filename)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":      key,
		"url":      s.Files.GetUrlFromKey(key),
		"kind":     kind,
		"filename": fileHeader.Filename,
	})
}
