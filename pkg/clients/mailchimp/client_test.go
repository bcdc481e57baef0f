package mailchimp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup-relay/pkg/models"
)

type capturedRequest struct {
	method string
	path   string
	header http.Header
	body   []byte
}

func newProvider(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.header = r.Header.Clone()
		captured.body = b
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestAddMemberRequest(t *testing.T) {
	srv, captured := newProvider(t, http.StatusOK, `{"id":"abc"}`)
	client := NewClientWithBaseURL(srv.URL+"/3.0", "352a183a71", "secret-us16", srv.Client())

	resp, err := client.AddMember(context.Background(), models.SignupSubmission{
		Email:     "a@b.com",
		FirstName: "A",
		LastName:  "B",
		Message:   "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/3.0/lists/352a183a71/members/", captured.path)
	assert.Equal(t, "application/json;charset=utf-8", captured.header.Get("Content-Type"))

	auth := captured.header.Get("Authorization")
	require.True(t, strings.HasPrefix(auth, "Basic "))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	require.NoError(t, err)
	assert.Equal(t, "any:secret-us16", string(decoded))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.body, &got))
	want := map[string]interface{}{
		"email_address": "a@b.com",
		"status":        "subscribed",
		"merge_fields": map[string]interface{}{
			"FNAME":   "A",
			"LNAME":   "B",
			"MESSAGE": "hi",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestAddMemberKeepsEmptyFields(t *testing.T) {
	srv, captured := newProvider(t, http.StatusOK, `{}`)
	client := NewClientWithBaseURL(srv.URL, "list", "key", srv.Client())

	_, err := client.AddMember(context.Background(), models.SignupSubmission{})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.body, &got))
	want := map[string]interface{}{
		"email_address": "",
		"status":        "subscribed",
		"merge_fields": map[string]interface{}{
			"FNAME":   "",
			"LNAME":   "",
			"MESSAGE": "",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(captured.header.Get("Authorization"), "Basic "))
	require.NoError(t, err)
	assert.Equal(t, "any:key", string(decoded))
}

func TestAddMemberResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected models.MemberResponse
	}{
		{
			name:     "created",
			status:   http.StatusCreated,
			body:     `{"id":"1","email_address":"a@b.com"}`,
			expected: models.MemberResponse{StatusCode: 201},
		},
		{
			name:   "member exists",
			status: http.StatusBadRequest,
			body:   `{"title":"Member Exists","status":400,"detail":"a@b.com is already a list member."}`,
			expected: models.MemberResponse{
				StatusCode: 400,
				Title:      "Member Exists",
				Detail:     "a@b.com is already a list member.",
			},
		},
		{
			name:     "non json body",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			expected: models.MemberResponse{StatusCode: 502},
		},
		{
			name:     "empty body",
			status:   http.StatusInternalServerError,
			expected: models.MemberResponse{StatusCode: 500},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv, _ := newProvider(t, test.status, test.body)
			client := NewClientWithBaseURL(srv.URL, "list", "key", srv.Client())

			resp, err := client.AddMember(context.Background(), models.SignupSubmission{Email: "a@b.com"})
			require.NoError(t, err)
			assert.Equal(t, test.expected, *resp)
		})
	}
}

func TestAddMemberTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClientWithBaseURL(baseURL, "list", "key", &http.Client{Timeout: time.Second})
	resp, err := client.AddMember(context.Background(), models.SignupSubmission{Email: "a@b.com"})
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "error adding list member")
}

func TestAddMemberTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClientWithBaseURL(srv.URL, "list", "key", &http.Client{Timeout: 50 * time.Millisecond})
	_, err := client.AddMember(context.Background(), models.SignupSubmission{})
	assert.Error(t, err)
}

func TestNewClientBaseURL(t *testing.T) {
	c := NewClient("us16", "list", "key", time.Second).(*clientImpl)
	assert.Equal(t, "https://us16.api.mailchimp.com/3.0", c.baseURL)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}
