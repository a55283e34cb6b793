package routeselect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rce-portal/portal/internal/router"
)

func TestOptions(t *testing.T) {
	options := Options(router.Routes())

	paths := make([]string, len(options))
	for i, o := range options {
		paths[i] = o.Path
	}

	assert.Equal(t, []string{
		"/login",
		"/dashboard",
		"/empresas",
		"/automatizacion",
		"/comprobantes/propuesta",
		"/comprobantes/descarga",
		"/comprobantes/repositorio",
		"/bienvenida",
	}, paths)

	for _, o := range options {
		switch o.Name {
		case router.NameLogin, router.NameWelcome:
			assert.False(t, o.Auth, o.Name)
		default:
			assert.True(t, o.Auth, "%s inherits requiresAuth", o.Name)
		}
	}
}

func TestPromptRoute_Empty(t *testing.T) {
	_, err := PromptRoute(nil)
	assert.Error(t, err)
}
