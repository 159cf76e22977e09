package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// imageField is the multipart field carrying a profile image.
const imageField = "image"

// formImage opens the optional profile image of a multipart request. The
// returned closer is always safe to call.
func formImage(c *gin.Context) (*service.Upload, func(), error) {
	noop := func() {}

	header, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("read image: %w", err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open image: %w", err)
	}

	upload := &service.Upload{
		File:        file,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	return upload, func() { _ = file.Close() }, nil
}
