package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/contribtrack/contribution-tracker/internal/core/ports"
)

func toCreateInput(req createContributionRequest, ownerID string, shot *ports.UploadInput) ports.CreateContributionInput {
	return ports.CreateContributionInput{
		OwnerID:     ownerID,
		Title:       req.Title,
		Category:    req.Category,
		Link:        req.Link,
		Description: req.Description,
		Date:        req.Date,
		Screenshot:  shot,
	}
}

func toUpdateInput(req updateContributionRequest, id, ownerID string, shot *ports.UploadInput) ports.UpdateContributionInput {
	return ports.UpdateContributionInput{
		ID:          id,
		OwnerID:     ownerID,
		Title:       req.Title,
		Category:    req.Category,
		Link:        req.Link,
		Description: req.Description,
		Date:        req.Date,
		Screenshot:  shot,
	}
}

// formPatch builds an update request from form values; only keys present in
// the form are set.
func formPatch(form url.Values) updateContributionRequest {
	field := func(key string) *string {
		vs, ok := form[key]
		if !ok || len(vs) == 0 {
			return nil
		}
		v := vs[0]
		return &v
	}
	return updateContributionRequest{
		Title:       field("title"),
		Category:    field("category"),
		Link:        field("link"),
		Description: field("description"),
		Date:        field("date"),
	}
}

// screenshotUpload opens the optional attachment. The returned closer is
// non-nil whenever the upload is.
func screenshotUpload(c echo.Context) (*ports.UploadInput, func(), error) {
	fh, err := c.FormFile(screenshotField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*ports.UploadInput, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	in := &ports.UploadInput{Filename: fh.Filename, Size: fh.Size, Content: f}
	return in, func() { _ = f.Close() }, nil
}
