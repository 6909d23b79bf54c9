package workspace_scanner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scalar tags substituted for leaf values in a skeleton.
const (
	tagString = "<string>"
	tagInt    = "<int>"
	tagFloat  = "<float>"
	tagBool   = "<bool>"
	tagNull   = "<null>"
)

// Skeletonize reduces structured text to a type-shape outline: container
// shape is preserved, every scalar leaf becomes a type tag, and sequences
// collapse to a single representative element. The text is parsed as JSON
// first and YAML second; the result is re-serialized in the format that
// parsed. It fails only when the text is neither valid JSON nor valid YAML.
func Skeletonize(text string) (string, error) {
	var data interface{}

	if err := json.Unmarshal([]byte(text), &data); err == nil {
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if marshalErr := encoder.Encode(skeletonizeValue(data)); marshalErr != nil {
			return "", marshalErr
		}
		return strings.TrimRight(buf.String(), "\n"), nil
	}

	if err := yaml.Unmarshal([]byte(text), &data); err != nil {
		return "", fmt.Errorf("content is neither valid JSON nor YAML: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(skeletonizeValue(data)); err != nil {
		return "", err
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// skeletonizeValue dispatches over the closed kind set: mapping, sequence,
// scalar. Mappings keep every key; non-empty sequences keep one recursively
// skeletonized element; empty sequences stay empty.
func skeletonizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		skeleton := make(map[string]interface{}, len(v))
		for key, item := range v {
			skeleton[key] = skeletonizeValue(item)
		}
		return skeleton
	case []interface{}:
		if len(v) == 0 {
			return []interface{}{}
		}
		return []interface{}{skeletonizeValue(v[0])}
	default:
		return scalarTag(v)
	}
}

func scalarTag(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return tagNull
	case bool:
		return tagBool
	case string:
		return tagString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return tagInt
	case float64:
		// JSON numbers all arrive as float64; keep whole values as ints.
		if v == math.Trunc(v) {
			return tagInt
		}
		return tagFloat
	case float32:
		if float64(v) == math.Trunc(float64(v)) {
			return tagInt
		}
		return tagFloat
	default:
		return fmt.Sprintf("<%T>", v)
	}
}
