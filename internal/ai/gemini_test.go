package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

func TestDecodeModelJSON(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"plain json", `{"interactions":[{"drugA":"warfarin","drugB":"aspirin","severity":"major","description":"bleeding"}]}`},
		{"fenced", "```\n{\"interactions\":[{\"drugA\":\"warfarin\",\"drugB\":\"aspirin\",\"severity\":\"major\",\"description\":\"bleeding\"}]}\n```"},
		{"fenced with language tag", "```json\n{\"interactions\":[{\"drugA\":\"warfarin\",\"drugB\":\"aspirin\",\"severity\":\"major\",\"description\":\"bleeding\"}]}\n```"},
		{"surrounding whitespace", "  \n```json\n{\"interactions\":[{\"drugA\":\"warfarin\",\"drugB\":\"aspirin\",\"severity\":\"major\",\"description\":\"bleeding\"}]}\n```\n  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				Interactions []model.InteractionFinding `json:"interactions"`
			}
			require.NoError(t, decodeModelJSON(tc.text, &out))
			require.Len(t, out.Interactions, 1)
			assert.Equal(t, "warfarin", out.Interactions[0].DrugA)
			assert.Equal(t, model.SeverityMajor, out.Interactions[0].Severity)
		})
	}
}

func TestDecodeModelJSON_RejectsProse(t *testing.T) {
	var out ExtractionResult
	err := decodeModelJSON("I'm sorry, I cannot analyze this document.", &out)
	assert.Error(t, err)
}

func TestStripCodeFence_SingleLineJSONNotMangled(t *testing.T) {
	// A fence whose first line already contains the payload.
	got := stripCodeFence("```{\"a\":1}```")
	assert.Equal(t, `{"a":1}`, got)
}
