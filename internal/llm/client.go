package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nathanfields/invoice-cataloger/internal/common"
	"github.com/nathanfields/invoice-cataloger/internal/resilience"
)

// Client implements FieldExtractor against any OpenAI-compatible
// chat/completions endpoint (LM Studio, Ollama, OpenAI itself).
type Client struct {
	cfg  common.LLMConfig
	http *http.Client
	exec *resilience.Executor
	log  *slog.Logger
}

func NewClient(cfg common.LLMConfig, exec *resilience.Executor, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	if exec == nil {
		execCfg := resilience.DefaultConfig()
		execCfg.MaxAttempts = cfg.RetryAttempts
		execCfg.RetryDelay = cfg.RetryDelay
		exec = resilience.NewExecutor(execCfg, log)
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		exec: exec,
		log:  log,
	}
}

// ExtractFields sends the document text for structured extraction. Text
// shorter than the configured minimum is not worth a round trip and
// returns (nil, nil) so the caller can treat the file as a non-invoice.
func (c *Client) ExtractFields(ctx context.Context, text string, fileName string) (*InvoiceFields, error) {
	if len(strings.TrimSpace(text)) < c.cfg.MinTextLen {
		c.log.Info("llm.extract.skip_short", "file", fileName, "text_len", len(text))
		return nil, nil
	}

	rid := uuid.New().String()
	start := time.Now()
	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"file", fileName,
		"text_len", len(text),
	)

	schema := BuildInvoiceJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"max_tokens":      c.cfg.MaxTokens,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPrompt()},
			{"role": "user", "content": buildUserPrompt(text, fileName, c.cfg.MaxTextLen) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	var out *InvoiceFields
	err := c.exec.Execute(ctx, "llm.extract", func(ctx context.Context) error {
		fields, attemptErr := c.extractOnce(ctx, rid, schema, body)
		if attemptErr != nil {
			return attemptErr
		}
		out = fields
		return nil
	})
	if err != nil {
		c.log.Error("llm.extract.failed",
			"req_id", rid, "file", fileName, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"vendor", out.VendorName,
		"date", out.InvoiceDate,
		"total", out.Total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) extractOnce(ctx context.Context, rid string, schema map[string]any, body map[string]any) (*InvoiceFields, error) {
	raw, err := c.post(ctx, strings.TrimRight(c.cfg.Endpoint, "/")+"/chat/completions", body)
	if err != nil {
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	content := []byte(StripFences(cc.Choices[0].Message.Content))
	cleaned, repaired, err := NormalizeFields(content, c.log)
	if err != nil {
		return nil, err
	}
	if len(repaired) > 0 {
		c.log.Debug("llm.extract.repaired", "req_id", rid, "repaired", repaired)
	}

	if err := ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var out InvoiceFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	if out.Currency == "" {
		out.Currency = "AUD"
	}
	return &out, nil
}

// Ping checks that the endpoint answers at all; used by the prerequisite
// check before a batch run.
func (c *Client) Ping(ctx context.Context) error {
	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("llm endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("llm endpoint status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm http error: %w", err)
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.log.Warn("llm.response_body_close_error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
