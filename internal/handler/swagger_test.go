package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIHandler(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/openapi.json", "")

	require.NoError(t, OpenAPIHandler("http://localhost:8080/")(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var spec OpenAPI3Spec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, "3.0.3", spec.OpenAPI)
	require.Len(t, spec.Servers, 1)
	assert.Equal(t, "http://localhost:8080/api", spec.Servers[0].URL)
	assert.Contains(t, spec.Paths, "/budget")
	assert.Contains(t, spec.Paths, "/dashboard/stats")

	schemas, ok := spec.Components["schemas"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, schemas, "handler.Response")
}

func TestTransformRefs(t *testing.T) {
	in := map[string]interface{}{
		"schema": map[string]interface{}{"$ref": "#/definitions/handler.Response"},
		"parameters": []interface{}{
			map[string]interface{}{"name": "id", "in": "query", "type": "integer", "required": true},
		},
	}

	out := transformRefs(in).(map[string]interface{})

	schema := out["schema"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/handler.Response", schema["$ref"])

	param := out["parameters"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"type": "integer"}, param["schema"])
	assert.NotContains(t, param, "type")
}
