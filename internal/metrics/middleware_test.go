package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/api/*", sanitizePath("/api/*path", "/api/empresas/20123456789", "/api"))
	assert.Equal(t, "/api/*", sanitizePath("", "/api", "/api"))
	assert.Equal(t, "/health", sanitizePath("/health", "/health", "/api"))
	assert.Equal(t, "/spa", sanitizePath("", "/comprobantes/descarga", "/api"))
	assert.Equal(t, "/spa", sanitizePath("", "/apiary", "/api"))
}
