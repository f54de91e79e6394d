package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "/api", parsed["basePath"])

	paths, ok := parsed["paths"].(map[string]interface{})
	require.True(t, ok)
	for _, p := range []string{"/user", "/user/token", "/user/me", "/user/{id}", "/post", "/post/{id}"} {
		assert.Contains(t, paths, p)
	}
}
