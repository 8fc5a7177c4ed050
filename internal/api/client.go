package api

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
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"myges/pkg/logging"
)

const (
	// DefaultBaseURL is the MyGES REST API.
	DefaultBaseURL = "https://api.kordis.fr"

	// DefaultTimeout is the default timeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds the body kept in a StatusError.
	maxErrorBody = 512
)

// Client calls the MyGES API on behalf of one user.
type Client struct {
	baseURL    string
	token      Token
	httpClient *http.Client

	profileMu    sync.Mutex
	profile      *Profile
	profileGroup singleflight.Group
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient creates a client authorized by token.
func NewClient(token Token, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// envelope is the wrapper of every API response.
type envelope struct {
	Result json.RawMessage `json:"result"`
}

// Do sends a request and returns the unwrapped result. body, when not nil,
// is sent as JSON. A missing or null result yields nil.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.token.Authorization())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s %s: %w", method, path, err)
	}

	logging.Debug("API", "%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := strings.TrimSpace(string(data))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody] + "..."
		}
		return nil, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: text}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	if bytes.Equal(bytes.TrimSpace(env.Result), []byte("null")) {
		return nil, nil
	}
	return env.Result, nil
}

// get decodes the result of a GET request into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode result of %s %s: %w", method, path, err)
	}
	return nil
}

// Years lists the school years the user is enrolled in.
func (c *Client) Years(ctx context.Context) ([]int, error) {
	var years yearList
	if err := c.get(ctx, "/me/years", &years); err != nil {
		return nil, err
	}
	return years, nil
}

// Profile returns the user profile. It is fetched once per client;
// concurrent callers share the same request.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	c.profileMu.Lock()
	if c.profile != nil {
		p := c.profile
		c.profileMu.Unlock()
		return p, nil
	}
	c.profileMu.Unlock()

	result, err, _ := c.profileGroup.Do("profile", func() (interface{}, error) {
		var p Profile
		if err := c.get(ctx, "/me/profile", &p); err != nil {
			return nil, err
		}
		c.profileMu.Lock()
		c.profile = &p
		c.profileMu.Unlock()
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Profile), nil
}

// Agenda lists the agenda items between start and end.
func (c *Client) Agenda(ctx context.Context, start, end time.Time) ([]AgendaItem, error) {
	q := url.Values{}
	q.Set("start", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("end", strconv.FormatInt(end.UnixMilli(), 10))

	var items []AgendaItem
	if err := c.get(ctx, "/me/agenda?"+q.Encode(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Absences(ctx context.Context, year int) ([]Absence, error) {
	var absences []Absence
	if err := c.get(ctx, fmt.Sprintf("/me/%d/absences", year), &absences); err != nil {
		return nil, err
	}
	return absences, nil
}

func (c *Client) Grades(ctx context.Context, year int) ([]Grade, error) {
	var grades []Grade
	if err := c.get(ctx, fmt.Sprintf("/me/%d/grades", year), &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

func (c *Client) Courses(ctx context.Context, year int) ([]Course, error) {
	var courses []Course
	if err := c.get(ctx, fmt.Sprintf("/me/%d/courses", year), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Projects(ctx context.Context, year int) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, fmt.Sprintf("/me/%d/projects", year), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project fetches one project with its groups and steps. A project the
// portal does not know yields (nil, nil).
func (c *Client) Project(ctx context.Context, id int64) (*Project, error) {
	var p *Project
	if err := c.get(ctx, fmt.Sprintf("/me/projects/%d", id), &p); err != nil {
		return nil, err
	}
	return p, nil
}

func groupPath(rcID, projectID, groupID int64) string {
	return fmt.Sprintf("/me/courses/%d/projects/%d/groups/%d", rcID, projectID, groupID)
}

// JoinProjectGroup adds the user to a project group.
func (c *Client) JoinProjectGroup(ctx context.Context, rcID, projectID, groupID int64) error {
	return c.call(ctx, http.MethodPost, groupPath(rcID, projectID, groupID), nil, nil)
}

// QuitProjectGroup removes the user from a project group.
func (c *Client) QuitProjectGroup(ctx context.Context, rcID, projectID, groupID int64) error {
	return c.call(ctx, http.MethodDelete, groupPath(rcID, projectID, groupID), nil, nil)
}

// ProjectGroupMessages lists the chat of a project group, oldest first.
func (c *Client) ProjectGroupMessages(ctx context.Context, groupID int64) ([]Message, error) {
	var messages []Message
	if err := c.get(ctx, fmt.Sprintf("/me/projectGroups/%d/messages", groupID), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type sendMessageRequest struct {
	ProjectGroupID int64  `json:"projectGroupId"`
	Message        string `json:"message"`
}

// SendProjectGroupMessage posts message to the chat of a project group.
func (c *Client) SendProjectGroupMessage(ctx context.Context, groupID int64, message string) error {
	path := fmt.Sprintf("/me/projectGroups/%d/messages", groupID)
	return c.call(ctx, http.MethodPost, path, sendMessageRequest{ProjectGroupID: groupID, Message: message}, nil)
}

// NextProjectSteps lists the upcoming steps of every project of the user.
func (c *Client) NextProjectSteps(ctx context.Context) ([]NextStep, error) {
	var steps []NextStep
	if err := c.get(ctx, "/me/nextProjectSteps", &steps); err != nil {
		return nil, err
	}
	return steps, nil
}
