package gemini

import (
	"fmt"
	"strings"

	"prospector_backend/internal/leads/domain"
	"prospector_backend/internal/leads/ports"
)

const defaultOffering = "Innovative business solutions"

// sourceInstruction steers the search toward the channels the user picked.
func sourceInstruction(source string) string {
	switch source {
	case "linkedin":
		return "Prioritize LinkedIn to identify decision makers."
	case "directories":
		return "Check professional directories such as Kompass or Infogreffe."
	default:
		return "Scan the web broadly."
	}
}

func buildSearchPrompt(query ports.SearchQuery, coords *ports.Coordinates) string {
	var b strings.Builder

	b.WriteString("TASK: Research and QUALIFICATION of B2B prospects.\n\n")
	fmt.Fprintf(&b, "SEARCH QUERY: %q\n", query.Keywords)
	if query.Role != "" {
		fmt.Fprintf(&b, "TARGET ROLE: %q\n", query.Role)
	}
	if query.Location != "" {
		fmt.Fprintf(&b, "TARGET AREA: %q\n", query.Location)
	} else if coords != nil {
		fmt.Fprintf(&b, "APPROXIMATE USER LOCATION: %.4f, %.4f\n", coords.Latitude, coords.Longitude)
	}
	fmt.Fprintf(&b, "OUR OFFER (PITCH): %q\n", query.Pitch)
	if len(query.Sources) > 0 {
		fmt.Fprintf(&b, "SOURCES: %s\n", strings.Join(query.Sources, ", "))
		for _, src := range query.Sources {
			b.WriteString(sourceInstruction(src))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString(`
DIRECTIVES:
1. Identify companies matching the query.
2. For EACH company, evaluate its relevance to OUR OFFER.
3. Assign a "qualificationScore" from 0 to 100.
4. Briefly explain why in "qualificationReason".

IMPORTANT: Extract Name, Contact (if possible), Email (if possible), Website and Description.

Return ONLY a JSON array:
[{
  "companyName": "string",
  "contactName": "string or null",
  "website": "string",
  "location": "string or null",
  "description": "string",
  "email": "string or null",
  "qualificationScore": number,
  "qualificationReason": "string (e.g. 'Likely needs digitalization')"
}]`)

	return b.String()
}

func buildDraftPrompt(lead domain.Lead, instructions string) string {
	offering := defaultOffering
	if lead.OfferingDetails != nil && *lead.OfferingDetails != "" {
		offering = *lead.OfferingDetails
	}
	description := ""
	if lead.Description != nil {
		description = *lead.Description
	}
	reason := ""
	if lead.QualificationReason != nil {
		reason = *lead.QualificationReason
	}
	score := 0
	if lead.QualificationScore != nil {
		score = *lead.QualificationScore
	}

	var b strings.Builder
	b.WriteString("Role: Expert B2B prospecting SDR.\n")
	fmt.Fprintf(&b, "Target: %s (%s)\n", lead.CompanyName, description)
	fmt.Fprintf(&b, "Qualification: %s (Score: %d/100)\n", reason, score)
	fmt.Fprintf(&b, "Offer to sell: %s\n\n", offering)
	b.WriteString("Task: Generate 2 highly personalized email variants.\n")
	b.WriteString("Note: Use the qualification findings to show we have studied their case.\n")
	if instructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", instructions)
	}

	return b.String()
}
