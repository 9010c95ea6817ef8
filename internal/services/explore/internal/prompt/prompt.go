package prompt

import (
	"encoding/json"
	"fmt"
)

// SchemaName is the response_format schema name sent with every request.
const SchemaName = "phrase_exploration"

const system = `You are a "Cultural & Contextual Guide" for the Uzbek language.
Your goal is to explain how a phrase feels and functions in real-life conversations.
Output EVERYTHING in JSON format.
Detailed Instructions:
1.  **Friendly & Emoji-led**: Be approachable and use emojis.
2.  **Uzbek Meta-data**: The 'explanation', 'simpleExample.explanation', 'scenarios[].context' and 'scenarios[].explanation' MUST be in Uzbek.
3.  **Target Language Content**: The 'simpleExample.sentence' and 'scenarios[].sentence' must be in the language of the phrase being explored (usually English), but the context and explanations are ALWAYS Uzbek.
4.  **Real-life Scenarios**: Provide exactly 3 distinct scenarios (e.g. At Work, With Friends, Formal).`

const userTemplate = `Explore the phrase: "%s".

Return structured JSON matching this schema:
{
  "explanation": "General meaning and nuance of the phrase (in Uzbek)",
  "simpleExample": {
    "sentence": "A simple sentence using the phrase",
    "explanation": "What this specific sentence means (in Uzbek)"
  },
  "scenarios": [
    {
      "context": "Context title e.g. 'Ishda' (At work) (in Uzbek)",
      "sentence": "Natural usage sentence",
      "explanation": "Nuance explanation (in Uzbek)"
    },
    { "context": "...", "sentence": "...", "explanation": "..." },
    { "context": "...", "sentence": "...", "explanation": "..." }
  ]
}`

// System returns the persona and output policy message.
func System() string {
	return system
}

// User returns the message embedding the explored phrase.
func User(phrase string) string {
	return fmt.Sprintf(userTemplate, phrase)
}

// Schema returns the JSON schema of an exploration result.
func Schema() json.Marshaler {
	return explorationSchema
}

var explanationField = &jsonSchema{Type: "string", Description: "Explanation in Uzbek"}

var explorationSchema = &jsonSchema{
	Type: "object",
	Properties: map[string]*jsonSchema{
		"explanation": {
			Type:        "string",
			Description: "General meaning and nuance of the phrase in Uzbek",
		},
		"simpleExample": {
			Type: "object",
			Properties: map[string]*jsonSchema{
				"sentence":    {Type: "string", Description: "A simple sentence using the phrase"},
				"explanation": explanationField,
			},
			Required: []string{"sentence", "explanation"},
		},
		"scenarios": {
			Type:     "array",
			MinItems: 3,
			MaxItems: 3,
			Items: &jsonSchema{
				Type: "object",
				Properties: map[string]*jsonSchema{
					"context":     {Type: "string", Description: "Context title in Uzbek"},
					"sentence":    {Type: "string", Description: "Natural usage sentence"},
					"explanation": explanationField,
				},
				Required: []string{"context", "sentence", "explanation"},
			},
		},
	},
	Required: []string{"explanation", "simpleExample", "scenarios"},
}

// jsonSchema implements json.Marshaler for the response_format schema.
type jsonSchema struct {
	Type                 string                 `json:"type"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Items                *jsonSchema            `json:"items,omitempty"`
	Required             []string               `json:"required,omitempty"`
	MinItems             int                    `json:"minItems,omitempty"`
	MaxItems             int                    `json:"maxItems,omitempty"`
	Description          string                 `json:"description,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

func (s *jsonSchema) MarshalJSON() ([]byte, error) {
	type alias jsonSchema
	out := alias(*s)
	if s.Type == "object" {
		closed := false
		out.AdditionalProperties = &closed
	}
	return json.Marshal(out)
}
