package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/application/services"
	"github.com/trustline-faucet/faucet/internal/interfaces/rest"
)

// TestClient wraps HTTP calls to a running faucet.
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx answer decoded from the error envelope.
type APIError struct {
	Status int
	Body   rest.ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s (%s)", e.Status, e.Body.Error.Message, e.Body.Error.Code)
}

// get decodes the data field of a success envelope into out.
func (c *TestClient) get(t *testing.T, path string, out any) error {
	t.Helper()

	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		require.NoError(t, json.Unmarshal(body, &apiErr.Body), "error body: %s", body)
		return apiErr
	}

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	require.True(t, env.Success)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return nil
}

// Claim calls GET /{account}/{amount}.
func (c *TestClient) Claim(t *testing.T, account, amount string) (*services.ClaimReceipt, error) {
	var receipt services.ClaimReceipt
	if err := c.get(t, "/"+account+"/"+amount, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *TestClient) Status(t *testing.T) (map[string]application.ActivityView, error) {
	var activity map[string]application.ActivityView
	if err := c.get(t, "/status", &activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (c *TestClient) Queue(t *testing.T) ([]application.QueuedPayout, error) {
	var queue []application.QueuedPayout
	if err := c.get(t, "/queue", &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

func (c *TestClient) QueueLength(t *testing.T) (*services.QueueLength, error) {
	var length services.QueueLength
	if err := c.get(t, "/queue/length", &length); err != nil {
		return nil, err
	}
	return &length, nil
}

// Healthy reports whether /healthz answers 200.
func (c *TestClient) Healthy() bool {
	resp, err := c.httpClient.Get(c.baseURL + "/healthz")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
