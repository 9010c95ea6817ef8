package explorer

import "encoding/json"

// ExplorationResult is the structured explanation of a phrase. Fields the
// model left out stay zero.
type ExplorationResult struct {
	Phrase        string     `json:"phrase"`
	Explanation   string     `json:"explanation"`
	SimpleExample Example    `json:"simpleExample"`
	Scenarios     []Scenario `json:"scenarios"`
}

type Example struct {
	Sentence    string `json:"sentence"`
	Explanation string `json:"explanation"`
}

type Scenario struct {
	Context     string `json:"context"`
	Sentence    string `json:"sentence"`
	Explanation string `json:"explanation"`
}

// Sentences returns every example sentence in display order.
func (r ExplorationResult) Sentences() []string {
	var out []string
	if r.SimpleExample.Sentence != "" {
		out = append(out, r.SimpleExample.Sentence)
	}
	for _, s := range r.Scenarios {
		if s.Sentence != "" {
			out = append(out, s.Sentence)
		}
	}
	return out
}

// decodeResult reads a result object field by field. Fields of the wrong type
// are left zero instead of failing the whole result.
func decodeResult(body []byte) (ExplorationResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ExplorationResult{}, err
	}

	var res ExplorationResult
	res.Phrase = lenientString(fields["phrase"])
	res.Explanation = lenientString(fields["explanation"])
	res.SimpleExample = decodeExample(fields["simpleExample"])

	var scenarios []json.RawMessage
	if err := json.Unmarshal(fields["scenarios"], &scenarios); err == nil {
		for _, raw := range scenarios {
			var sf map[string]json.RawMessage
			if err := json.Unmarshal(raw, &sf); err != nil {
				continue
			}
			res.Scenarios = append(res.Scenarios, Scenario{
				Context:     lenientString(sf["context"]),
				Sentence:    lenientString(sf["sentence"]),
				Explanation: lenientString(sf["explanation"]),
			})
		}
	}

	return res, nil
}

func decodeExample(raw json.RawMessage) Example {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Example{}
	}

	return Example{
		Sentence:    lenientString(fields["sentence"]),
		Explanation: lenientString(fields["explanation"]),
	}
}

func lenientString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
