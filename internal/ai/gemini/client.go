// Package gemini implements the AI collaborator ports against the Gemini
// API. Searches run with the Google Search grounding tool and a lenient JSON
// parser; drafts use a strict response schema.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"prospector_backend/internal/leads/domain"
	"prospector_backend/internal/leads/ports"
	"prospector_backend/platform/config"
	"prospector_backend/platform/logger"

	"google.golang.org/genai"
)

// Client calls Gemini for prospect search and email drafting.
type Client struct {
	client  *genai.Client
	model   string
	locator ports.Locator
	log     *logger.Logger
}

// NewClient creates the Gemini collaborator. The locator is optional; when
// present it enriches search prompts with the caller's approximate position.
func NewClient(ctx context.Context, cfg config.AIConfig, locator ports.Locator, log *logger.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   cfg.GetGeminiModel(),
		locator: locator,
		log:     log,
	}, nil
}

// emailDraftSchema forces the two-variant JSON shape on draft responses.
var emailDraftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"variantA": variantSchema(),
		"variantB": variantSchema(),
	},
	Required: []string{"variantA", "variantB"},
}

func variantSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"subject": {Type: genai.TypeString},
			"body":    {Type: genai.TypeString},
		},
		Required: []string{"subject", "body"},
	}
}

// SearchLeads implements ports.LeadSearcher. A provider failure is an error;
// a response that cannot be parsed as a candidate list yields an empty slice,
// matching the "no results" path of the dashboard.
func (c *Client) SearchLeads(ctx context.Context, query ports.SearchQuery) ([]ports.CandidateLead, error) {
	var coords *ports.Coordinates
	if c.locator != nil && query.Location == "" {
		loc, err := c.locator.CurrentLocation(ctx)
		if err != nil {
			c.log.Debug("location lookup failed, searching without it", "error", err)
		} else {
			coords = loc
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(buildSearchPrompt(query, coords)),
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini search: %w", err)
	}

	raw := resp.Text()
	candidates := parseCandidates(raw)
	if len(candidates) == 0 && raw != "" {
		c.log.Warn("search response yielded no parseable candidates", "length", len(raw))
	}
	return candidates, nil
}

// DraftEmail implements ports.EmailDrafter.
func (c *Client) DraftEmail(ctx context.Context, lead domain.Lead, instructions string) (ports.EmailDraft, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(buildDraftPrompt(lead, instructions)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   emailDraftSchema,
		},
	)
	if err != nil {
		return ports.EmailDraft{}, fmt.Errorf("gemini draft: %w", err)
	}

	var draft ports.EmailDraft
	if err := json.Unmarshal([]byte(resp.Text()), &draft); err != nil {
		return ports.EmailDraft{}, fmt.Errorf("parse draft response: %w", err)
	}
	if draft.VariantA.Subject == "" || draft.VariantB.Subject == "" {
		return ports.EmailDraft{}, fmt.Errorf("draft response missing variants")
	}
	return draft, nil
}

// parseCandidates extracts a candidate array from a possibly fenced or
// chatty model response. Grounded search responses cannot use a response
// schema, so the payload is located by bracket scanning.
func parseCandidates(raw string) []ports.CandidateLead {
	cleaned := strings.TrimSpace(raw)
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil
	}

	var parsed []ports.CandidateLead
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		return nil
	}

	out := parsed[:0]
	for _, c := range parsed {
		if strings.TrimSpace(c.CompanyName) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Compile-time checks that Client implements the collaborator ports
var (
	_ ports.LeadSearcher = (*Client)(nil)
	_ ports.EmailDrafter = (*Client)(nil)
)
