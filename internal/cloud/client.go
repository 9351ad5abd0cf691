// Package cloud talks to the hosted auth and save store. Every remote call
// returns either a parsed body or a classified error the dispatcher can
// surface as a toast.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrRateLimited = errors.New("too many requests")
	ErrServer      = errors.New("server error")
	ErrNetwork     = errors.New("network error")
)

// APIError carries a 4xx response with the backend's parsed message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Session is the authenticated state after login or refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
}

func (s Session) LoggedIn() bool { return s.AccessToken != "" && s.UserID != "" }

// SaveRecord is one row of the cloud save table.
type SaveRecord struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	UserID    string `json:"user_id"`
	BoardData string `json:"board_data"`
	SaveID    int    `json:"save_id"`
	Nonce     string `json:"nonce"`
}

type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Login exchanges email and password for a session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &tok)
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		UserID:       tok.User.ID,
		Email:        email,
	}
	if sess.UserID == "" {
		id, err := c.userID(ctx, sess.AccessToken)
		if err != nil {
			return Session{}, err
		}
		sess.UserID = id
	}
	return sess, nil
}

// Refresh mints a new session from a stored refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	body := map[string]string{"grant_type": "refresh_token", "refresh_token": refreshToken}
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body, &tok)
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		UserID:       tok.User.ID,
		Email:        tok.User.Email,
	}
	if sess.UserID == "" {
		id, err := c.userID(ctx, sess.AccessToken)
		if err != nil {
			return Session{}, err
		}
		sess.UserID = id
	}
	return sess, nil
}

func (c *Client) userID(ctx context.Context, accessToken string) (string, error) {
	var user struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, nil)
}

// RequestPasswordReset asks the backend to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/v1/recover", "", body, nil)
}

// UpdatePassword sets a new password for the authenticated user.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	body := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPut, "/auth/v1/user", accessToken, body, nil)
}

// Logout invalidates the session server side.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// ListSaves fetches every save row of the user, oldest first.
func (c *Client) ListSaves(ctx context.Context, sess Session) ([]SaveRecord, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	path := "/rest/v1/user_data?user_id=eq." + url.QueryEscape(sess.UserID) + "&select=*"
	var records []SaveRecord
	if err := c.do(ctx, http.MethodGet, path, sess.AccessToken, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// NextSaveID picks the next per-user ordinal: max existing + 1, else 0.
func NextSaveID(records []SaveRecord) int {
	next := -1
	for _, r := range records {
		if r.SaveID > next {
			next = r.SaveID
		}
	}
	return next + 1
}

// PushSave uploads one encrypted save with a fresh save id.
func (c *Client) PushSave(ctx context.Context, sess Session, boardData, nonce string, saveID int) error {
	if !sess.LoggedIn() {
		return ErrNotLoggedIn
	}
	body := map[string]any{
		"user_id":    sess.UserID,
		"board_data": boardData,
		"save_id":    saveID,
		"nonce":      nonce,
	}
	return c.do(ctx, http.MethodPost, "/rest/v1/user_data", sess.AccessToken, body, nil)
}

// DeleteSave removes one save row by its table id.
func (c *Client) DeleteSave(ctx context.Context, sess Session, rowID int64) error {
	if !sess.LoggedIn() {
		return ErrNotLoggedIn
	}
	path := fmt.Sprintf("/rest/v1/user_data?id=eq.%d", rowID)
	return c.do(ctx, http.MethodDelete, path, sess.AccessToken, nil, nil)
}

// DeleteAllSaves removes every save row of the user. Used when rotating
// the encryption key, which orphans anything encrypted under the old one.
func (c *Client) DeleteAllSaves(ctx context.Context, sess Session) error {
	records, err := c.ListSaves(ctx, sess)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := c.DeleteSave(ctx, sess, r.ID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if method == http.MethodGet && strings.HasPrefix(path, "/rest/") {
		req.Header.Set("Range", "0-9999")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := classify(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// classify maps a response status to the error taxonomy: nil for 2xx,
// ErrRateLimited for 429, APIError with a parsed message for other 4xx,
// ErrServer for 5xx.
func classify(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(raw, &parsed)
	message := parsed.Msg
	if message == "" {
		message = parsed.Message
	}
	if message == "" {
		message = parsed.ErrorDescription
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
