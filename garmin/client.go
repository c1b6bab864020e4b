package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"wahoo2garmin/workout"
)

const defaultBaseURL = "https://connectapi.garmin.com"

const (
	tokenPath   = "/oauth-service/token"
	workoutPath = "/workout-service/workout"
)

type tokenFile struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Error       string `json:"error"`
}

type uploadResp struct {
	WorkoutID json.Number `json:"workoutId"`
	Message   string      `json:"message"`
}

// Client talks to the Garmin Connect workout service.
type Client struct {
	cfg         Config
	client      *http.Client
	baseURL     string
	accessToken string
	log         *zap.SugaredLogger
}

// New creates a Client and resolves an access token immediately so it can be
// reused across uploads. A stored token is preferred; expired or missing
// tokens are re-exchanged from credentials and written back to the store.
func New(cfg Config, client *http.Client, log *zap.SugaredLogger) (*Client, error) {
	if err := cfg.validateAuth(); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &Client{cfg: cfg, client: client, baseURL: baseURL, log: log}

	token, err := c.resolveToken()
	if err != nil {
		return nil, err
	}
	c.accessToken = token
	return c, nil
}

func (c *Client) resolveToken() (string, error) {
	if c.cfg.TokenFile != "" {
		if token, ok := c.loadStoredToken(); ok {
			c.log.Debugw("using stored token", "token_file", c.cfg.TokenFile)
			return token, nil
		}
	}
	if c.cfg.Email == "" || c.cfg.Password == "" {
		return "", fmt.Errorf("no valid token in %s and no credentials to refresh it", c.cfg.TokenFile)
	}

	token, expiresIn, err := c.exchangeCredentials()
	if err != nil {
		return "", err
	}
	if c.cfg.TokenFile != "" {
		if err := c.storeToken(token, expiresIn); err != nil {
			c.log.Warnw("could not persist token", "err", err)
		}
	}
	return token, nil
}

func (c *Client) loadStoredToken() (string, bool) {
	data, err := os.ReadFile(c.cfg.TokenFile)
	if err != nil {
		return "", false
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", false
	}
	if tf.AccessToken == "" || time.Now().Unix() >= tf.ExpiresAt {
		return "", false
	}
	return tf.AccessToken, true
}

func (c *Client) storeToken(token string, expiresIn int64) error {
	tf := tokenFile{
		AccessToken: token,
		ExpiresAt:   time.Now().Unix() + expiresIn,
	}
	data, err := json.Marshal(tf)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.cfg.TokenFile); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(c.cfg.TokenFile, data, 0o600)
}

func (c *Client) exchangeCredentials() (string, int64, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.cfg.Email)
	form.Set("password", c.cfg.Password)

	req, err := http.NewRequest(http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	var data tokenResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", 0, err
	}
	if data.AccessToken == "" {
		return "", 0, fmt.Errorf("authentication failed: %d %s", resp.StatusCode, data.Error)
	}
	c.log.Infow("authenticated with garmin connect")
	return data.AccessToken, data.ExpiresIn, nil
}

// UploadWorkout creates the workout on Garmin Connect and returns its ID.
// Only validated workouts reach this point; an unsupported sport is still
// rejected here because the upload is keyed by subtype.
func (c *Client) UploadWorkout(ctx context.Context, w *workout.Workout) (string, error) {
	payload, err := buildPayload(w)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+workoutPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data uploadResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK || data.WorkoutID.String() == "" {
		return "", fmt.Errorf("failed to upload workout: %d %s", resp.StatusCode, data.Message)
	}

	c.log.Infow("workout uploaded", "workout_id", data.WorkoutID.String(), "sport", string(w.Sport))
	return data.WorkoutID.String(), nil
}
