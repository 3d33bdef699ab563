package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/internal/summarize"
)

const systemPrompt = "You are an expert document analyst specialized in creating clear, " +
	"comprehensive summaries of extracted text content. Focus on key insights, " +
	"important data points, and main themes while maintaining accuracy and relevance. " +
	"Return ONLY JSON matching the provided schema."

// Summarize implements summarize.Summarizer over chat/completions with a
// JSON-object response validated against the summary schema.
func (c *Client) Summarize(ctx context.Context, text string) (summarize.Result, error) {
	if strings.TrimSpace(text) == "" {
		return summarize.Result{}, fmt.Errorf("no text provided for summarization")
	}

	rid := uuid.New().String()
	start := time.Now()
	c.log.Info("summarize.start", "req_id", rid, "model", c.cfg.Model, "text_len", len(text))

	schema := summarize.SummarySchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"max_tokens":      1000,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(text)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("summarize.http_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return summarize.Result{}, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("summarize.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return summarize.Result{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("summarize.no_choices", "req_id", rid, "raw", string(raw))
		return summarize.Result{}, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := summarize.ValidateJSONAgainstSchema(schema, content); err != nil {
		c.log.Error("summarize.schema_validation_failed", "req_id", rid, "error", err, "content", string(content))
		return summarize.Result{}, fmt.Errorf("schema validation failed: %w", err)
	}
	var out struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(content, &out); err != nil {
		return summarize.Result{}, fmt.Errorf("unmarshal summary: %w", err)
	}
	summary := strings.TrimSpace(out.Summary)

	res := summarize.Result{
		Content:   summary,
		WordCount: summarize.WordCount(summary),
		Model:     c.cfg.Model,
	}
	c.log.Info("summarize.ok", "req_id", rid, "words", res.WordCount,
		"elapsed_ms", time.Since(start).Milliseconds())
	return res, nil
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
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn("openai response body close error", "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, summarize.Classify(resp.StatusCode, string(raw))
	}
	return raw, nil
}

func buildUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Please analyze and summarize the following extracted text content from PDF documents.\n\n")
	b.WriteString("Key requirements:\n")
	b.WriteString("- Provide a comprehensive yet concise summary that captures the main points and key information\n")
	b.WriteString("- Focus on the most important findings, data, and insights\n")
	b.WriteString("- Maintain the context and meaning of the original content\n")
	b.WriteString("- Structure the summary in clear, readable paragraphs\n")
	b.WriteString("- Aim for approximately 150-300 words depending on content complexity\n\n")
	b.WriteString("Text to summarize:\n")
	b.WriteString(text)
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
