// Package client is a Go client for the postmedia HTTP API: account
// registration and login, post upload and media download.
//
// Failed calls return *APIError, which matches the sentinels in
// internal/common (and ErrUnavailable for 5xx) under errors.Is. Network
// failures wrap ErrUnavailable.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/netx"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Post struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Text            string    `json:"text"`
	MediaURL        string    `json:"media_url"`
	CreatedByUserID int64     `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Media describes a downloaded file.
type Media struct {
	ContentType string
	Filename    string
	Size        int64
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New returns a client for the server at baseURL. A nil httpClient means
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// SetToken sets the access token sent with every following request.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Register(ctx context.Context, username, password string) (*User, error) {
	var user User
	if err := c.postJSON(ctx, "/auth/register", credentials{username, password}, http.StatusCreated, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for an access token and keeps it for later
// calls.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	var tok Token
	if err := c.postJSON(ctx, "/auth/login", credentials{username, password}, http.StatusOK, &tok); err != nil {
		return nil, err
	}
	c.token = tok.AccessToken
	return &tok, nil
}

// Upload creates a post for username with body attached as filename. A nil
// description leaves the post text empty. The body is streamed.
func (c *Client) Upload(ctx context.Context, username, title string, description *string, filename string, body io.Reader) (*Post, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, title, description, filename, body))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/"+url.PathEscape(username)+"/upload", pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var post Post
	if err := c.do(req, http.StatusCreated, &post); err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}
	return &post, nil
}

func writeUploadForm(mw *multipart.Writer, title string, description *string, filename string, body io.Reader) error {
	if err := mw.WriteField("title", title); err != nil {
		return err
	}
	if description != nil {
		if err := mw.WriteField("description", *description); err != nil {
			return err
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, body); err != nil {
		return err
	}
	return mw.Close()
}

// Fetch downloads the media of post postID owned by username into w. The
// server answers with its default asset when the post has no such file.
func (c *Client) Fetch(ctx context.Context, username string, postID int64, format string, w io.Writer) (*Media, error) {
	path := "/" + url.PathEscape(username) + "/video/" + strconv.FormatInt(postID, 10) +
		"?format=" + url.QueryEscape(format)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer netx.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: netx.ErrorMessage(resp)}
	}

	m := &Media{ContentType: resp.Header.Get("Content-Type")}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		m.Filename = params["filename"]
	}

	n, err := io.Copy(w, resp.Body)
	m.Size = n
	if err != nil {
		return m, fmt.Errorf("download: %w", err)
	}
	return m, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, want int, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, want, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer netx.DrainAndClose(resp.Body)

	if resp.StatusCode != want {
		return &APIError{StatusCode: resp.StatusCode, Message: netx.ErrorMessage(resp)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
