package llmhint

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/storygraph/corpus/internal/schema"
)

// ParseResponse tolerantly parses a hint generator's raw completion into an
// ExtractionResult: strips markdown code fences, tries the unified object
// shape, falls back to a bare entity array, and as a last resort recovers
// individual well-formed JSON objects by regex when the whole payload
// doesn't parse (a hint generator's raw completion is not guaranteed to be
// clean JSON).
func ParseResponse(raw string) (ExtractionResult, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))
	if cleaned == "" {
		return ExtractionResult{}, nil
	}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		return filterResult(result), nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &arr); err == nil {
		return ExtractionResult{Entities: parseEntityArray(cleaned)}, nil
	}

	entities := repairEntities(cleaned)
	relations := repairRelations(cleaned)
	if len(entities) == 0 && len(relations) == 0 {
		return ExtractionResult{}, fmt.Errorf("llmhint: failed to parse hint response")
	}
	return ExtractionResult{Entities: entities, Relations: relations}, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func filterResult(r ExtractionResult) ExtractionResult {
	out := ExtractionResult{
		Entities:  make([]ExtractedEntity, 0, len(r.Entities)),
		Relations: make([]ExtractedRelation, 0, len(r.Relations)),
	}

	for _, e := range r.Entities {
		e.Label = strings.TrimSpace(e.Label)
		if e.Label == "" {
			continue
		}
		kindUpper := strings.ToUpper(strings.TrimSpace(e.Kind))
		if !schema.IsValidType(kindUpper) {
			continue
		}
		e.Kind = kindUpper
		if e.Confidence <= 0 {
			e.Confidence = 0.8
		}
		if len(e.Aliases) > 0 {
			cleaned := make([]string, 0, len(e.Aliases))
			for _, a := range e.Aliases {
				if a = strings.TrimSpace(a); a != "" {
					cleaned = append(cleaned, a)
				}
			}
			e.Aliases = cleaned
		}
		out.Entities = append(out.Entities, e)
	}

	for _, r := range r.Relations {
		r.Subject = strings.TrimSpace(r.Subject)
		r.Object = strings.TrimSpace(r.Object)
		r.RelationType = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(r.RelationType), " ", "_"))
		if r.Subject == "" || r.Object == "" || r.RelationType == "" {
			continue
		}
		if r.Verb == "" {
			r.Verb = strings.ToLower(strings.ReplaceAll(r.RelationType, "_", " "))
		} else {
			r.Verb = strings.TrimSpace(r.Verb)
		}
		if r.Confidence <= 0 {
			r.Confidence = 0.7
		}
		r.Manner = strings.TrimSpace(r.Manner)
		r.Location = strings.TrimSpace(r.Location)
		r.Time = strings.TrimSpace(r.Time)
		r.Recipient = strings.TrimSpace(r.Recipient)
		r.SourceSentence = strings.TrimSpace(r.SourceSentence)
		out.Relations = append(out.Relations, r)
	}

	return out
}

func parseEntityArray(raw string) []ExtractedEntity {
	var items []ExtractedEntity
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	entities := make([]ExtractedEntity, 0, len(items))
	for _, item := range items {
		label := strings.TrimSpace(item.Label)
		kindUpper := strings.ToUpper(strings.TrimSpace(item.Kind))
		if label == "" || !schema.IsValidType(kindUpper) {
			continue
		}
		conf := item.Confidence
		if conf <= 0 {
			conf = 0.8
		}
		entities = append(entities, ExtractedEntity{Label: label, Kind: kindUpper, Aliases: item.Aliases, Confidence: conf})
	}
	return entities
}

var entityObjectPattern = regexp.MustCompile(
	`\{\s*"label"\s*:\s*"[^"]+"\s*,\s*"kind"\s*:\s*"[^"]+"\s*(?:,\s*"[^"]+"\s*:\s*(?:"[^"]*"|[\d.]+|\[[^\]]*\]|true|false|null))*\s*\}`,
)

var relationObjectPattern = regexp.MustCompile(
	`\{\s*"subject"\s*:\s*"[^"]+"\s*,\s*"object"\s*:\s*"[^"]+"\s*,\s*"relationType"\s*:\s*"[^"]+"\s*(?:,\s*"[^"]+"\s*:\s*(?:"[^"]*"|[\d.]+|\[[^\]]*\]|true|false|null))*\s*\}`,
)

func repairEntities(raw string) []ExtractedEntity {
	matches := entityObjectPattern.FindAllString(raw, -1)
	entities := make([]ExtractedEntity, 0, len(matches))
	for _, m := range matches {
		var item ExtractedEntity
		if err := json.Unmarshal([]byte(m), &item); err != nil {
			continue
		}
		label := strings.TrimSpace(item.Label)
		kindUpper := strings.ToUpper(strings.TrimSpace(item.Kind))
		if label == "" || !schema.IsValidType(kindUpper) {
			continue
		}
		conf := item.Confidence
		if conf <= 0 {
			conf = 0.8
		}
		entities = append(entities, ExtractedEntity{Label: label, Kind: kindUpper, Aliases: item.Aliases, Confidence: conf})
	}
	return entities
}

func repairRelations(raw string) []ExtractedRelation {
	matches := relationObjectPattern.FindAllString(raw, -1)
	relations := make([]ExtractedRelation, 0, len(matches))
	for _, m := range matches {
		var item ExtractedRelation
		if err := json.Unmarshal([]byte(m), &item); err != nil {
			continue
		}
		item.Subject = strings.TrimSpace(item.Subject)
		item.Object = strings.TrimSpace(item.Object)
		item.RelationType = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(item.RelationType), " ", "_"))
		if item.Subject == "" || item.Object == "" || item.RelationType == "" {
			continue
		}
		if item.Verb == "" {
			item.Verb = strings.ToLower(strings.ReplaceAll(item.RelationType, "_", " "))
		}
		if item.Confidence <= 0 {
			item.Confidence = 0.7
		}
		relations = append(relations, item)
	}
	return relations
}
