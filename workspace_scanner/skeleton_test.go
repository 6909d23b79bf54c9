package workspace_scanner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSkeletonize_JSONObject(t *testing.T) {
	input := `{
		"name": "demo",
		"version": 3,
		"ratio": 0.5,
		"enabled": true,
		"owner": null,
		"tags": ["a", "b", "c"],
		"nested": {"deep": {"list": [1, 2, 3]}},
		"empty": []
	}`

	out, err := Skeletonize(input)
	require.NoError(t, err)

	var skeleton map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &skeleton))

	assert.Equal(t, "<string>", skeleton["name"])
	assert.Equal(t, "<int>", skeleton["version"])
	assert.Equal(t, "<float>", skeleton["ratio"])
	assert.Equal(t, "<bool>", skeleton["enabled"])
	assert.Equal(t, "<null>", skeleton["owner"])

	tags := skeleton["tags"].([]interface{})
	assert.Equal(t, []interface{}{"<string>"}, tags)

	nested := skeleton["nested"].(map[string]interface{})
	deep := nested["deep"].(map[string]interface{})
	assert.Equal(t, []interface{}{"<int>"}, deep["list"])

	assert.Equal(t, []interface{}{}, skeleton["empty"])
}

func TestSkeletonize_YAMLDocument(t *testing.T) {
	// Indented flow is fine; the leading "- " list makes this invalid JSON,
	// so the YAML path is exercised.
	input := "services:\n  - name: api\n    port: 8080\n    debug: false\nregion: us-east-1\n"

	out, err := Skeletonize(input)
	require.NoError(t, err)

	var skeleton map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &skeleton))

	assert.Equal(t, "<string>", skeleton["region"])
	services := skeleton["services"].([]interface{})
	require.Len(t, services, 1)
	service := services[0].(map[string]interface{})
	assert.Equal(t, "<string>", service["name"])
	assert.Equal(t, "<int>", service["port"])
	assert.Equal(t, "<bool>", service["debug"])
}

func TestSkeletonize_MappingKeysPreserved(t *testing.T) {
	input := `{"a": 1, "b": 2, "c": 3}`
	out, err := Skeletonize(input)
	require.NoError(t, err)

	var skeleton map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &skeleton))
	assert.Len(t, skeleton, 3)
	for _, key := range []string{"a", "b", "c"} {
		assert.Contains(t, skeleton, key)
	}
}

func TestSkeletonize_InvalidInputFails(t *testing.T) {
	_, err := Skeletonize("key:\n\tvalue\n")
	assert.Error(t, err)
}

func TestSkeletonize_IdempotentOnShape(t *testing.T) {
	input := `{"items": [{"id": 7, "label": "x"}], "meta": {"count": 2}}`

	once, err := Skeletonize(input)
	require.NoError(t, err)
	twice, err := Skeletonize(once)
	require.NoError(t, err)
	thrice, err := Skeletonize(twice)
	require.NoError(t, err)

	// A skeleton's shape is a fixpoint: same key sets, same one-element
	// lists, every leaf a scalar tag.
	assert.Equal(t, twice, thrice)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(once), &first))
	require.NoError(t, json.Unmarshal([]byte(twice), &second))
	assert.Len(t, second, len(first))
	assert.Len(t, second["items"].([]interface{}), 1)
}

func TestSkeletonize_EmptyList(t *testing.T) {
	out, err := Skeletonize(`[]`)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}
