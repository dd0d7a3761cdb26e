package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocMatchesHandlerAnnotations(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]map[string]struct {
			Summary string `json:"summary"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	documented := make(map[string]bool)
	for _, ops := range parsed.Paths {
		for _, op := range ops {
			documented[op.Summary] = true
		}
	}

	src, err := os.ReadFile(filepath.Join("..", "internal", "delivery", "http", "handler", "session_handler.go"))
	require.NoError(t, err)

	var annotated int
	for _, line := range strings.Split(string(src), "\n") {
		summary, ok := strings.CutPrefix(strings.TrimSpace(line), "// @Summary ")
		if !ok {
			continue
		}
		annotated++
		assert.True(t, documented[summary], "no operation documented with summary %q", summary)
	}
	assert.Equal(t, 13, annotated)
}
