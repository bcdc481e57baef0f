package mailchimp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"signup-relay/pkg/models"
)

const (
	// Mailchimp ignores the basic auth username; only the key is checked.
	authUsername = "any"
	contentType  = "application/json;charset=utf-8"
)

// Client defines the interface for interacting with the Mailchimp Marketing API
type Client interface {
	AddMember(ctx context.Context, submission models.SignupSubmission) (*models.MemberResponse, error)
}

type clientImpl struct {
	apiKey     string
	listID     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Mailchimp client for the given data center instance (e.g. "us16")
func NewClient(instance, listID, apiKey string, timeout time.Duration) Client {
	return NewClientWithBaseURL(
		fmt.Sprintf("https://%s.api.mailchimp.com/3.0", instance),
		listID,
		apiKey,
		&http.Client{Timeout: timeout},
	)
}

// NewClientWithBaseURL creates a client against an explicit API root
func NewClientWithBaseURL(baseURL, listID, apiKey string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &clientImpl{
		apiKey:     apiKey,
		listID:     listID,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// AddMember subscribes the submission to the configured list. A non-nil error means
// no response was received; any HTTP status is returned in the MemberResponse.
func (c *clientImpl) AddMember(ctx context.Context, submission models.SignupSubmission) (*models.MemberResponse, error) {
	membersURL := fmt.Sprintf("%s/lists/%s/members/", c.baseURL, c.listID)

	jsonPayload, err := json.Marshal(models.NewMemberRequest(submission))
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, membersURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.SetBasicAuth(authUsername, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error adding list member: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	result := &models.MemberResponse{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			logrus.Debugf("Mailchimp response body is not JSON (status %d): %v", resp.StatusCode, err)
		}
	}
	result.StatusCode = resp.StatusCode

	logrus.Debugf("Mailchimp add member returned status %d, title %q", result.StatusCode, result.Title)
	return result, nil
}
