package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"streambingo/clients"
)

const helixBaseURL = "https://api.twitch.tv/helix"

// TwitchClient implements the clients.TwitchClient interface against the
// Helix API using app-access (client credentials) authentication.
type TwitchClient struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string

	tokenMutex  sync.Mutex
	appToken    string
	tokenExpiry time.Time
}

type appTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// NewTwitchClient creates a new Twitch Helix client with the provided app credentials
func NewTwitchClient(clientID, clientSecret string) clients.TwitchClient {
	return &TwitchClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// GetAppAccessToken returns a cached app access token, refreshing it via the
// client-credentials flow when missing or close to expiry
func (c *TwitchClient) GetAppAccessToken(ctx context.Context) (string, error) {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()

	if c.appToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.appToken, nil
	}

	data := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		"https://id.twitch.tv/oauth2/token",
		bytes.NewBufferString(data.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch app token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Twitch token error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tokenResp appTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}

	c.appToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.appToken, nil
}

func (c *TwitchClient) newHelixRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token, err := c.GetAppAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get app token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, helixBaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// CreateEventSubSubscription registers a webhook-transport EventSub
// subscription for the broadcaster and returns Twitch's subscription ID
func (c *TwitchClient) CreateEventSubSubscription(
	ctx context.Context,
	broadcasterID, eventType, callbackURL, secret string,
) (string, error) {
	condition := map[string]string{"broadcaster_user_id": broadcasterID}
	// channel.raid subscriptions key on the raid target instead
	if eventType == "channel.raid" {
		condition = map[string]string{"to_broadcaster_user_id": broadcasterID}
	}

	payload := map[string]any{
		"type":      eventType,
		"version":   "1",
		"condition": condition,
		"transport": map[string]string{
			"method":   "webhook",
			"callback": callbackURL,
			"secret":   secret,
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal subscription payload: %w", err)
	}

	req, err := c.newHelixRequest(ctx, "POST", "/eventsub/subscriptions", bytes.NewReader(payloadBytes))
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create subscription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Twitch API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var created struct {
		Data []clients.TwitchSubscription `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode subscription response: %w", err)
	}
	if len(created.Data) == 0 {
		return "", fmt.Errorf("no subscription in response")
	}
	return created.Data[0].ID, nil
}

// ListEventSubSubscriptions lists all EventSub subscriptions owned by this app
func (c *TwitchClient) ListEventSubSubscriptions(ctx context.Context) ([]clients.TwitchSubscription, error) {
	req, err := c.newHelixRequest(ctx, "GET", "/eventsub/subscriptions", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Twitch API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var listed struct {
		Data []clients.TwitchSubscription `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return listed.Data, nil
}

// DeleteEventSubSubscription removes a subscription. A 404 is treated as
// success since the subscription is already gone
func (c *TwitchClient) DeleteEventSubSubscription(ctx context.Context, subscriptionID string) error {
	req, err := c.newHelixRequest(ctx, "DELETE", "/eventsub/subscriptions?id="+url.QueryEscape(subscriptionID), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("failed to delete subscription: status %d, body: %s", resp.StatusCode, string(body))
}

// GetUserInfo resolves a channel login name to its Helix user record
func (c *TwitchClient) GetUserInfo(ctx context.Context, login string) (*clients.TwitchUserInfo, error) {
	req, err := c.newHelixRequest(ctx, "GET", "/users?login="+url.QueryEscape(login), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Twitch API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var users struct {
		Data []clients.TwitchUserInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if len(users.Data) == 0 {
		return nil, fmt.Errorf("no Twitch user found for login %s", login)
	}
	return &users.Data[0], nil
}
