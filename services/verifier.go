package services

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

	"verification-dashboard/models"
)

const defaultTimeout = 30 * time.Second

// Verifier talks to the company verification API.
type Verifier struct {
	baseURL string
	client  *http.Client
}

func NewVerifier(baseURL string, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Verifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL is the API root the client was built with.
func (v *Verifier) BaseURL() string { return v.baseURL }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges operator credentials for a bearer token.
func (v *Verifier) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out tokenResponse
	if err := v.do(req, "login", &out); err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
			return "", &AuthError{Message: reqErr.Message}
		}
		return "", err
	}
	if out.AccessToken == "" {
		return "", &RequestError{StatusCode: http.StatusOK, Message: "empty access token"}
	}
	return out.AccessToken, nil
}

func (v *Verifier) ListCompanies(ctx context.Context, token string) ([]models.Company, error) {
	var out []models.Company
	if err := v.authorized(ctx, "list companies", http.MethodGet, "/companies", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitVerification asks the API to verify a new company. The API may
// return an existing record when the name or website is already known.
func (v *Verifier) SubmitVerification(ctx context.Context, token, name, website string) (models.Company, error) {
	body := map[string]string{"name": name, "website": website}
	var out models.Company
	err := v.authorized(ctx, "submit verification", http.MethodPost, "/verify", token, body, &out)
	return out, err
}

func (v *Verifier) ReviewCompany(ctx context.Context, token, id string, status models.ReviewStatus) (models.Company, error) {
	if status != models.ReviewApproved && status != models.ReviewRejected {
		return models.Company{}, ErrInvalidReviewStatus
	}
	path := "/companies/" + url.PathEscape(id) + "/review?status=" + url.QueryEscape(string(status))
	var out models.Company
	err := v.authorized(ctx, "review company", http.MethodPost, path, token, nil, &out)
	return out, err
}

func (v *Verifier) ReverifyCompany(ctx context.Context, token, id string) (models.Company, error) {
	var out models.Company
	err := v.authorized(ctx, "reverify company", http.MethodPost, "/companies/"+url.PathEscape(id)+"/reverify", token, nil, &out)
	return out, err
}

func (v *Verifier) UpdateCompany(ctx context.Context, token, id string, update models.CompanyUpdate) (models.Company, error) {
	var out models.Company
	err := v.authorized(ctx, "update company", http.MethodPut, "/companies/"+url.PathEscape(id), token, update, &out)
	return out, err
}

// Health checks that the API answers its health endpoint.
func (v *Verifier) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	return v.do(req, "health", nil)
}

func (v *Verifier) authorized(ctx context.Context, op, method, path, token string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return v.do(req, op, out)
}

func (v *Verifier) do(req *http.Request, op string, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage pulls "detail" out of the API's error body when it has one.
func errorMessage(raw []byte, fallback string) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(body.Detail); err == nil {
			return string(b)
		}
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return fallback
}
