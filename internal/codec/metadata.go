package codec

import (
	"encoding/json"
	"fmt"
)

// Workflow returns the raw ComfyUI workflow JSON embedded in a PNG's text
// chunks, or "" when the file carries none.
func Workflow(path string) (string, error) {
	texts, err := pngTextChunks(path)
	if err != nil {
		return "", fmt.Errorf("read png metadata: %w", err)
	}
	return texts["workflow"], nil
}

// FilterWorkflow strips nodes of type "LoraInfo" from a workflow document.
// The transform is best-effort: if raw does not parse, or its "nodes" field
// is not an array, or the result does not re-serialize, raw is returned
// unchanged so a malformed workflow is carried over verbatim instead of
// being dropped.
func FilterWorkflow(raw string) string {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return raw
	}

	var nodes []any
	if v, ok := doc["nodes"]; ok {
		arr, ok := v.([]any)
		if !ok {
			return raw
		}
		nodes = arr
	}

	filtered := make([]any, 0, len(nodes))
	for _, n := range nodes {
		if m, ok := n.(map[string]any); ok && m["type"] == "LoraInfo" {
			continue
		}
		filtered = append(filtered, n)
	}
	doc["nodes"] = filtered

	out, err := json.Marshal(doc)
	if err != nil {
		return raw
	}
	return string(out)
}
