package httpapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/logging"
	"github.com/dmitrijs2005/postmedia/internal/server/auth"
	"github.com/dmitrijs2005/postmedia/internal/server/media"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
	"github.com/dmitrijs2005/postmedia/internal/server/services"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeUploader struct {
	got    media.UploadRequest
	body   []byte
	caller int64
	hasID  bool
	post   *models.Post
	err    error

	// authErr is the rejected-credential reason seen by the service.
	authErr error
}

func (f *fakeUploader) Upload(ctx context.Context, req media.UploadRequest) (*models.Post, error) {
	f.got = req
	f.caller, f.hasID = auth.UserIDFromContext(ctx)
	f.authErr = auth.AuthErrorFromContext(ctx)
	if req.Body != nil {
		f.body, _ = io.ReadAll(req.Body)
	}
	return f.post, f.err
}

type fakeFetcher struct {
	asset *media.Asset
	err   error

	username string
	postID   int64
	format   media.Format
}

func (f *fakeFetcher) Fetch(ctx context.Context, username string, postID int64, format media.Format) (*media.Asset, error) {
	f.username, f.postID, f.format = username, postID, format
	return f.asset, f.err
}

type fakeAccounts struct {
	user    *models.User
	token   *services.AccessToken
	err     error
	gotUser string
	gotPass string
}

func (f *fakeAccounts) Register(ctx context.Context, username, password string) (*models.User, error) {
	f.gotUser, f.gotPass = username, password
	return f.user, f.err
}

func (f *fakeAccounts) Login(ctx context.Context, username, password string) (*services.AccessToken, error) {
	f.gotUser, f.gotPass = username, password
	return f.token, f.err
}

type fakeHealth struct{ healthy bool }

func (f fakeHealth) Healthy() bool { return f.healthy }

func newTestServer(t *testing.T, d Deps) (*Server, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	d.Logger = logging.New(logging.Config{Format: logging.FormatText, Writer: logs, Level: "debug"})
	d.SecretKey = testSecret
	return NewServer("127.0.0.1:0", time.Second, d), logs
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	return common.BearerPrefix + tok
}

// multipartBody builds an upload form. A nil description omits the field.
func multipartBody(t *testing.T, title string, description *string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("title", title))
	if description != nil {
		require.NoError(t, mw.WriteField("description", *description))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func newUploadRequest(t *testing.T, username, token string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/"+username+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, token)
	}
	return req
}
