// Package userclient предоставляет HTTP-клиент ресурса пользователей.
package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmeshcher/atelier/internal/model"
)

// DefaultBaseURL задаёт адрес ресурса пользователей по умолчанию.
const DefaultBaseURL = "https://api.example.com/users"

// StatusError возвращается, если сервер ответил статусом вне диапазона 2xx.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// DeleteResult описывает ответ сервера на удаление пользователя.
type DeleteResult struct {
	Success bool `json:"success"`
}

// Client инкапсулирует HTTP-взаимодействие с ресурсом пользователей.
// Каждый вызов выполняет ровно один запрос, без повторов и собственного таймаута.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задаёт HTTP-клиент для запросов.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient создаёт клиент ресурса пользователей по указанному базовому адресу.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL возвращает базовый адрес ресурса.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List запрашивает всех пользователей.
func (c *Client) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.do(ctx, http.MethodGet, c.baseURL, nil, nil, &users)
	return users, err
}

// Get запрашивает пользователя по идентификатору.
func (c *Client) Get(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, c.userURL(id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create создаёт пользователя. Идентификатор назначает сервер.
func (c *Client) Create(ctx context.Context, u model.User) (*model.User, error) {
	u.ID = 0
	var created model.User
	if err := c.do(ctx, http.MethodPost, c.baseURL, nil, u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update заменяет пользователя с указанным идентификатором.
func (c *Client) Update(ctx context.Context, id int64, u model.User) (*model.User, error) {
	var updated model.User
	if err := c.do(ctx, http.MethodPut, c.userURL(id), nil, u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete удаляет пользователя.
func (c *Client) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	var res DeleteResult
	if err := c.do(ctx, http.MethodDelete, c.userURL(id), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Search ищет пользователей по имени и, если age не ноль, по возрасту.
func (c *Client) Search(ctx context.Context, name string, age int) ([]model.User, error) {
	params := url.Values{}
	params.Set("name", name)
	if age != 0 {
		params.Set("age", strconv.Itoa(age))
	}

	var users []model.User
	err := c.do(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil, nil, &users)
	return users, err
}

// ListWithAuth запрашивает всех пользователей, передавая token в заголовке Authorization как есть.
func (c *Client) ListWithAuth(ctx context.Context, token string) ([]model.User, error) {
	headers := http.Header{}
	headers.Set("Authorization", token)

	var users []model.User
	err := c.do(ctx, http.MethodGet, c.baseURL, headers, nil, &users)
	return users, err
}

func (c *Client) userURL(id int64) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, target string, headers http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       raw,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
