package gemini

import (
	"strings"
	"testing"

	"prospector_backend/internal/leads/domain"
	"prospector_backend/internal/leads/ports"
)

func TestParseCandidatesHandlesFencedResponse(t *testing.T) {
	raw := "Here are the companies I found:\n```json\n[{\"companyName\": \"Acme\", \"qualificationScore\": 80}, {\"companyName\": \"\", \"qualificationScore\": 10}]\n```"

	got := parseCandidates(raw)
	if len(got) != 1 {
		t.Fatalf("parsed %d candidates, want 1 (nameless entries dropped)", len(got))
	}
	if got[0].CompanyName != "Acme" {
		t.Errorf("companyName = %q", got[0].CompanyName)
	}
	if got[0].QualificationScore == nil || *got[0].QualificationScore != 80 {
		t.Errorf("qualificationScore = %v, want 80", got[0].QualificationScore)
	}
}

func TestParseCandidatesMalformedYieldsEmpty(t *testing.T) {
	for _, raw := range []string{"", "no json here", "[{broken", "{\"companyName\": \"obj not array\"}"} {
		if got := parseCandidates(raw); len(got) != 0 {
			t.Errorf("parseCandidates(%q) = %v, want empty", raw, got)
		}
	}
}

func TestSearchPromptIncludesSourceDirectives(t *testing.T) {
	prompt := buildSearchPrompt(ports.SearchQuery{
		Keywords: "plumbers in Lyon",
		Sources:  []string{"linkedin", "directories"},
		Pitch:    "CRM for trades",
	}, nil)

	for _, want := range []string{
		`"plumbers in Lyon"`,
		"Prioritize LinkedIn",
		"professional directories",
		"qualificationScore",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSearchPromptUsesCoordinatesOnlyWithoutExplicitArea(t *testing.T) {
	coords := &ports.Coordinates{Latitude: 45.75, Longitude: 4.85}

	withArea := buildSearchPrompt(ports.SearchQuery{Keywords: "x", Location: "Lyon"}, coords)
	if strings.Contains(withArea, "45.75") {
		t.Error("explicit target area must win over device coordinates")
	}

	withoutArea := buildSearchPrompt(ports.SearchQuery{Keywords: "x"}, coords)
	if !strings.Contains(withoutArea, "45.7500, 4.8500") {
		t.Errorf("prompt missing coordinates:\n%s", withoutArea)
	}
}

func TestDraftPromptFallsBackToDefaultOffering(t *testing.T) {
	lead := domain.NewLead(domain.NewLeadParams{CompanyName: "Acme", Source: "google"})

	prompt := buildDraftPrompt(lead, "")
	if !strings.Contains(prompt, defaultOffering) {
		t.Errorf("prompt missing default offering:\n%s", prompt)
	}

	offering := "Custom CRM"
	lead.OfferingDetails = &offering
	prompt = buildDraftPrompt(lead, "keep it short")
	if !strings.Contains(prompt, "Custom CRM") || strings.Contains(prompt, defaultOffering) {
		t.Error("explicit offering must replace the default")
	}
	if !strings.Contains(prompt, "keep it short") {
		t.Error("prompt missing additional instructions")
	}
}
