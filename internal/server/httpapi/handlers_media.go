package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/server/media"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
)

// Parts above this size are spooled to disk while parsing.
const multipartMemory = 32 << 20

type postResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Text            string    `json:"text"`
	MediaURL        string    `json:"media_url"`
	CreatedByUserID int64     `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:              p.ID,
		Title:           p.Title,
		Text:            p.Text,
		MediaURL:        p.MediaURL,
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       p.CreatedAt,
	}
}

// handleUpload accepts multipart fields "title", "description" (optional)
// and "file".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.deps.MaxUploadSize > 0 {
		if r.ContentLength > s.deps.MaxUploadSize {
			s.writeError(w, r, fmt.Errorf("%w: upload exceeds %d bytes", common.ErrorValidation, s.deps.MaxUploadSize))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadSize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, fmt.Errorf("%w: upload exceeds %d bytes", common.ErrorValidation, tooLarge.Limit))
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: file is required", common.ErrorValidation))
		return
	}
	defer file.Close()

	var title string
	if values := r.MultipartForm.Value["title"]; len(values) > 0 {
		title = values[0]
	}

	var description *string
	if values, ok := r.MultipartForm.Value["description"]; ok && len(values) > 0 {
		description = &values[0]
	}

	post, err := s.deps.Uploader.Upload(r.Context(), media.UploadRequest{
		Username:    r.PathValue("username"),
		Title:       title,
		Description: description,
		Filename:    header.Filename,
		Body:        file,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// handleFetch streams the post's file, or the default asset in its place.
// Seekable bodies go through http.ServeContent so clients can use Range.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: post id must be an integer", common.ErrorValidation))
		return
	}

	format, err := media.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	asset, err := s.deps.Fetcher.Fetch(r.Context(), r.PathValue("username"), postID, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer asset.Body.Close()

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", asset.Filename))
	// The post's file and the default asset share this URL; send no validators.
	w.Header().Set("Cache-Control", "no-cache")

	if rs, ok := asset.Body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, asset.Filename, time.Time{}, rs)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, asset.Body); err != nil {
		s.logger.Warn(r.Context(), "stream interrupted", "key", asset.Key, "error", err)
	}
}
