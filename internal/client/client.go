package client

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

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
)

// UserHeader - заголовок с id действующего пользователя
const UserHeader = "X-User-Id"

const genericMessage = "request failed"

// StoreError - ответ хранилища не 2xx
type StoreError struct {
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store responded %d: %s", e.Status, e.Message)
}

// ServerMessage возвращает текст ошибки сервера; для ответа без тела - пустую строку
func (e *StoreError) ServerMessage() string {
	if e.Message == genericMessage {
		return ""
	}
	return e.Message
}

// IsNotFound сообщает, что хранилище ответило 404
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

type errorBody struct {
	Error string `json:"error"`
}

// Config - параметры подключения к хранилищу
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// base - JSON поверх net/http с заголовком пользователя
type base struct {
	baseURL    string
	httpClient *http.Client
}

func newBase(cfg Config) base {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return base{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (b base) do(ctx context.Context, method, path string, query url.Values, actorID string, in, out any) error {
	if actorID == "" {
		return calendar.ErrUnauthenticated
	}

	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(UserHeader, actorID)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	se := &StoreError{Status: resp.StatusCode, Message: genericMessage}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return se
	}
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
		se.Message = eb.Error
	}
	return se
}

// StaticUser - пользователь, заданный конфигурацией (CLI, бот)
type StaticUser string

func (u StaticUser) CurrentUserID(context.Context) (string, error) {
	if u == "" {
		return "", calendar.ErrUnauthenticated
	}
	return string(u), nil
}
