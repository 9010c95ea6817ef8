package prompt_test

import (
	"encoding/json"
	"testing"

	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem(t *testing.T) {
	s := prompt.System()

	assert.Contains(t, s, "Cultural & Contextual Guide")
	assert.Contains(t, s, "Uzbek")
	assert.Contains(t, s, "3 distinct scenarios")
}

func TestUser(t *testing.T) {
	u := prompt.User("break the ice")

	assert.Contains(t, u, `Explore the phrase: "break the ice".`)
	assert.Contains(t, u, `"simpleExample"`)
	assert.Contains(t, u, `"scenarios"`)
}

func TestUser_EmbedsPhraseVerbatim(t *testing.T) {
	u := prompt.User("say \"hi\"\nagain")

	assert.Contains(t, u, "Explore the phrase: \"say \"hi\"\nagain\".")
}

func TestSchema(t *testing.T) {
	raw, err := json.Marshal(prompt.Schema())
	require.NoError(t, err)

	var schema struct {
		Type                 string   `json:"type"`
		Required             []string `json:"required"`
		AdditionalProperties bool     `json:"additionalProperties"`
		Properties           map[string]struct {
			Type     string `json:"type"`
			MinItems int    `json:"minItems"`
			MaxItems int    `json:"maxItems"`
			Items    struct {
				Type                 string   `json:"type"`
				Required             []string `json:"required"`
				AdditionalProperties *bool    `json:"additionalProperties"`
			} `json:"items"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "object", schema.Type)
	assert.False(t, schema.AdditionalProperties)
	assert.ElementsMatch(t, []string{"explanation", "simpleExample", "scenarios"}, schema.Required)
	assert.Equal(t, "string", schema.Properties["explanation"].Type)
	assert.Equal(t, "object", schema.Properties["simpleExample"].Type)

	scenarios := schema.Properties["scenarios"]
	assert.Equal(t, "array", scenarios.Type)
	assert.Equal(t, 3, scenarios.MinItems)
	assert.Equal(t, 3, scenarios.MaxItems)
	assert.ElementsMatch(t, []string{"context", "sentence", "explanation"}, scenarios.Items.Required)
	require.NotNil(t, scenarios.Items.AdditionalProperties)
	assert.False(t, *scenarios.Items.AdditionalProperties)
}
