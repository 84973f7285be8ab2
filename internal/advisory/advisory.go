package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
)

var (
	ErrMissingCredential = errors.New("advisory: api key required")
	ErrMalformedAdvisory = errors.New("advisory: malformed response")
	ErrUnavailable       = errors.New("advisory: service unavailable")
)

// Everything the model is given to work with.
type Request struct {
	Pair     string
	Strength models.StrengthScore
	Index    float64
	APIKey   string
}

// Client talks to the Gemini generateContent endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// Analyze asks the model for a verdict on req.Pair. Errors wrap one of
// ErrMissingCredential, ErrMalformedAdvisory or ErrUnavailable.
func (c *Client) Analyze(ctx context.Context, req Request) (*models.Advisory, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, ErrMissingCredential
	}

	payload := map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]string{{"text": BuildPrompt(req.Pair, req.Strength, req.Index)}},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("advisory: failed to encode request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(req.APIKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("advisory: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAdvisory, err)
	}
	if len(raw.Candidates) == 0 || len(raw.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrMalformedAdvisory)
	}

	var text strings.Builder
	for _, p := range raw.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	adv, err := Parse(text.String())
	if err != nil {
		return nil, err
	}
	adv.ID = uuid.NewString()
	adv.Pair = req.Pair
	adv.CreatedAt = c.now()
	return adv, nil
}

func BuildPrompt(pair string, strength models.StrengthScore, index float64) string {
	keys := make([]string, 0, len(strength))
	for k := range strength {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %+.3f%%", k, strength[models.Currency(k)]))
	}

	return fmt.Sprintf(`Act as a Hedge Fund Algo. Analyze %s.
Context:
- Currency Strength: %s
- DXY Index: %.2f

Task: Return a JSON object with:
- score (0-100)
- action (STRONG BUY, BUY, WAIT, SELL, STRONG SELL)
- reasoning (array of 3 short bullet points)
- tp (price)
- sl (price)`, pair, strings.Join(parts, ", "), index)
}

// Parse reads the model's reply, which may wrap the JSON object in markdown
// fences or surround it with prose.
func Parse(text string) (*models.Advisory, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no json object in reply", ErrMalformedAdvisory)
	}

	var raw struct {
		Score     flexNumber      `json:"score"`
		Action    string          `json:"action"`
		Reasoning json.RawMessage `json:"reasoning"`
		TP        flexNumber      `json:"tp"`
		SL        flexNumber      `json:"sl"`
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAdvisory, err)
	}

	score := 50
	if raw.Score.set {
		score = int(math.Max(0, math.Min(100, raw.Score.value)))
	}

	return &models.Advisory{
		Score:      score,
		Action:     normalizeAction(raw.Action),
		Reasoning:  reasoningLines(raw.Reasoning),
		TakeProfit: raw.TP.value,
		StopLoss:   raw.SL.value,
	}, nil
}

func normalizeAction(s string) models.Action {
	a := models.Action(strings.Join(strings.Fields(strings.ToUpper(s)), " "))
	switch a {
	case models.ActionStrongBuy, models.ActionBuy, models.ActionWait, models.ActionSell, models.ActionStrongSell:
		return a
	default:
		return models.ActionWait
	}
}

// Reasoning usually arrives as an array, sometimes as one string.
func reasoningLines(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil && one != "" {
		return []string{one}
	}
	return []string{}
}

// Accepts 1.0845, "1.0845" or null.
type flexNumber struct {
	value float64
	set   bool
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		// tp/sl sometimes come back as prose; treat as absent.
		return nil
	}
	f.value = v
	f.set = true
	return nil
}
