package extraction

import (
	"fmt"
	"strings"

	"github.com/ternarybob/refero/internal/models"
)

const systemPrompt = `You are a UK bank regulatory reporting assistant specializing in PRA COREP reporting.
Your task is to analyze user scenarios and generate structured regulatory output.

CRITICAL RULES:
1. Use ONLY the provided regulatory context from the retrieved documents
2. Output STRICT JSON following the exact schema provided
3. If data is missing or unclear, set amount=null and explain in data_gaps
4. All amounts should be in the currency specified (default GBP)
5. Provide specific regulatory references for each populated field
6. Do not invent values or make assumptions beyond the context provided
7. Focus on COREP Template C 01.00 - Own Funds reporting`

const responseSchema = `{
  "template": "C 01.00",
  "currency": "GBP",
  "reporting_date": "2026-01-31",
  "own_funds": {
    "CET1": {
      "ordinary_share_capital": {
        "amount": number or null,
        "corep_row": "010",
        "justification_refs": ["source1", "source2"],
        "explanation": "Brief explanation of why this amount is included"
      },
      "retained_earnings": {
        "amount": number or null,
        "corep_row": "020",
        "justification_refs": ["source1", "source2"],
        "explanation": "Brief explanation of why this amount is included"
      },
      "intangibles_deduction": {
        "amount": number or null,
        "corep_row": "350",
        "justification_refs": ["source1", "source2"],
        "explanation": "Brief explanation of why this amount is deducted"
      }
    },
    "AT1": {
      "instruments": {
        "amount": number or null,
        "corep_row": "120",
        "justification_refs": ["source1", "source2"],
        "explanation": "Brief explanation of why this amount is included"
      }
    },
    "Tier2": {
      "instruments": {
        "amount": number or null,
        "corep_row": "200",
        "justification_refs": ["source1", "source2"],
        "explanation": "Brief explanation of why this amount is included"
      }
    }
  },
  "data_gaps": [
    {
      "field": "field_name",
      "issue": "description of missing/unclear data",
      "suggestion": "how to resolve"
    }
  ],
  "summary": {
    "total_cet1": number or null,
    "total_at1": number or null,
    "total_tier2": number or null,
    "total_own_funds": number or null
  }
}`

// buildUserPrompt assembles the retrieval context and scenario into the task
// prompt. FullText is used so the model sees complete documents, not the
// truncated display text.
func buildUserPrompt(query string, docs []models.RetrievedMatch) string {
	contexts := make([]string, 0, len(docs))
	for _, doc := range docs {
		contexts = append(contexts, fmt.Sprintf("SOURCE: %s\n%s", doc.Source, doc.FullText))
	}

	return fmt.Sprintf(`REGULATORY CONTEXT:
%s

USER SCENARIO:
%s

TASK: Generate structured COREP output for Template C 01.00 - Own Funds.

Return JSON in this exact format:

%s

IMPORTANT:
- Amounts should be numeric values (not strings)
- Use null for missing/unclear amounts
- Provide specific regulatory references from the context
- Include explanations for each populated field
- List any data gaps or uncertainties`,
		strings.Join(contexts, "\n\n"), query, responseSchema)
}
