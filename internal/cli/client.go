package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"genaid/pkg/types"
)

// Client is a thin HTTP client for the genaid daemon.
type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient builds a Client for the given base URL, e.g. http://127.0.0.1:8080.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No overall timeout: /infer streams for as long as generation runs.
		hc: &http.Client{Transport: &http.Transport{ResponseHeaderTimeout: 30 * time.Second}},
	}
}

// TokenLine is one streamed NDJSON token record.
type TokenLine struct {
	Token string `json:"token"`
}

// InferFinal is the summary record terminating an NDJSON inference stream.
type InferFinal struct {
	Done         bool            `json:"done"`
	Content      string          `json:"content"`
	FinishReason string          `json:"finish_reason"`
	Usage        types.UsageInfo `json:"usage"`
	Perf         types.PerfStats `json:"perf"`
}

func (c *Client) Models(ctx context.Context) (types.ModelsResponse, error) {
	var out types.ModelsResponse
	err := c.getJSON(ctx, "/models", &out)
	return out, err
}

func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	var out types.StatusResponse
	err := c.getJSON(ctx, "/status", &out)
	return out, err
}

func (c *Client) Tokenize(ctx context.Context, model, text string) (types.TokenizeResponse, error) {
	var out types.TokenizeResponse
	err := c.postJSON(ctx, "/tokenize", types.TokenizeRequest{Model: model, Text: text}, &out)
	return out, err
}

func (c *Client) ChatStart(ctx context.Context, model string) error {
	return c.postJSON(ctx, "/chat/start", types.ChatRequest{Model: model}, nil)
}

func (c *Client) ChatFinish(ctx context.Context, model string) error {
	return c.postJSON(ctx, "/chat/finish", types.ChatRequest{Model: model}, nil)
}

func (c *Client) Unload(ctx context.Context, model string) error {
	return c.postJSON(ctx, "/unload", types.UnloadRequest{Model: model}, nil)
}

// Infer posts an inference request and consumes the NDJSON response stream.
// onToken is invoked for every token line (may be nil). The final summary
// line is returned once the stream ends.
func (c *Client) Infer(ctx context.Context, req types.InferRequest, onToken func(string)) (InferFinal, error) {
	var final InferFinal
	body, err := json.Marshal(req)
	if err != nil {
		return final, err
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/infer", bytes.NewReader(body))
	if err != nil {
		return final, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(hreq)
	if err != nil {
		return final, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return final, apiError(resp)
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sawFinal := false
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var tl TokenLine
		if err := json.Unmarshal(line, &tl); err == nil && tl.Token != "" {
			if onToken != nil {
				onToken(tl.Token)
			}
			continue
		}
		var fl InferFinal
		if err := json.Unmarshal(line, &fl); err == nil && fl.Done {
			final = fl
			sawFinal = true
			continue
		}
		// Mid-stream error payloads arrive as a JSON object with an error field.
		var ep types.ErrorResponse
		if err := json.Unmarshal(line, &ep); err == nil && ep.Error != "" {
			return final, fmt.Errorf("server error: %s", ep.Error)
		}
	}
	if err := sc.Err(); err != nil {
		return final, err
	}
	if !sawFinal {
		return final, fmt.Errorf("stream ended without summary line")
	}
	return final, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError turns a non-200 response into an error, preferring the server's
// JSON error payload over the raw status.
func apiError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var ep types.ErrorResponse
	if err := json.Unmarshal(b, &ep); err == nil && ep.Error != "" {
		return fmt.Errorf("%s (HTTP %d)", ep.Error, resp.StatusCode)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}
