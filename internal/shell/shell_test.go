package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rce-portal/portal/internal/apiclient"
	"github.com/rce-portal/portal/internal/router"
	"github.com/rce-portal/portal/internal/session"
)

const validToken = "abc123"

// mockBackend accepts validToken only, like the real backend's session table
func mockBackend(t *testing.T) *httptest.Server {
	t.Helper()

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Token inválido o expirado"}`))
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req apiclient.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "message": "Contraseña inválida"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "token": validToken})
	})
	mux.HandleFunc("/api/auth/logout", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	mux.HandleFunc("/api/dashboard/stats", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_empresas":3,"runs_today":{"total":2,"success":2,"error":0,"success_rate_percent":100},"notifications":{"total_downloaded":5,"pending_action":1}}`))
	}))
	mux.HandleFunc("/api/empresas/", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"ruc":"20123456789","razon_social":"ACME SAC","estado_sesion":"OK","last_run_status":"COMPLETADO"}]`))
	}))
	mux.HandleFunc("/api/propuesta/periods", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["202609"]`))
	}))
	mux.HandleFunc("/api/propuesta/status", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("periodo") != "202609" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"No se encontró propuesta para ese periodo"}`))
			return
		}
		w.Write([]byte(`{"id":1,"ruc_empresa":"20123456789","periodo":"202609","storage_path":"/data/registros/20123456789/202609.zip","created_at":"2026-10-01T12:00:00Z"}`))
	}))
	mux.HandleFunc("/api/propuesta/items", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":9,"fecha_emision":"2026-09-03","tipo_cp":"01","serie":"F001","numero":"123","ruc_emisor":"20555555551","total_cp":"118.00","moneda":"PEN"}]`))
	}))
	mux.HandleFunc("/api/xml/progress", authed(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"ruc": q.Get("ruc"), "periodo": q.Get("periodo"), "total_items": 4, "ok": 3, "remaining": 1})
	}))
	mux.HandleFunc("/api/invoices", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestShell(t *testing.T, token string) *Shell {
	t.Helper()

	store := session.NewMemoryStore()
	if token != "" {
		require.NoError(t, store.Save(token))
	}

	s, err := New(mockBackend(t).URL, store, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestShell_UnauthorizedCallClearsSessionAndRedirects(t *testing.T) {
	s := newTestShell(t, validToken)
	ctx := context.Background()

	_, err := s.Open(ctx, "/empresas", &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, "/empresas", s.Router.Location())

	err = s.Client.Get(ctx, "/invoices", nil)
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))
	assert.False(t, session.Present(s.Store))
	assert.Equal(t, "/login", s.Router.Location())
}

func TestShell_OpenWithoutTokenLandsOnLogin(t *testing.T) {
	s := newTestShell(t, "")

	var out bytes.Buffer
	match, err := s.Open(context.Background(), "/dashboard", &out)
	require.NoError(t, err)
	assert.Equal(t, router.NameLogin, match.Name())
	assert.Contains(t, out.String(), "Not signed in")
}

func TestShell_OpenRendersViews(t *testing.T) {
	tests := []struct {
		location string
		expected string
	}{
		{"/dashboard", "Empresas activas"},
		{"/empresas", "ACME SAC"},
		{"/comprobantes/propuesta", "202609"},
		{"/comprobantes/descarga", "Pick a company and period"},
		{"/comprobantes/descarga?ruc=20123456789&periodo=202609", "Restantes"},
		{"/comprobantes/repositorio", "1 companies, 1 periods"},
		{"/comprobantes/repositorio?ruc=20123456789&periodo=202609", "01-F001-123"},
		{"/comprobantes/repositorio?ruc=20123456789&periodo=202609", "portal download --path '/data/registros/20123456789/202609.zip'"},
		{"/comprobantes/repositorio?ruc=20123456789&periodo=202601", "No proposal stored"},
		{"/bienvenida", "RCE portal"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			s := newTestShell(t, validToken)

			var out bytes.Buffer
			_, err := s.Open(context.Background(), tt.location, &out)
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.expected)
		})
	}
}

func TestShell_ExpiredTokenDuringView(t *testing.T) {
	s := newTestShell(t, "expired")

	match, err := s.Open(context.Background(), "/dashboard", &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, apiclient.IsUnauthorized(err))
	assert.Equal(t, router.NameLogin, match.Name())
	assert.False(t, session.Present(s.Store))
}

func TestShell_LoginAndLogout(t *testing.T) {
	s := newTestShell(t, "")
	ctx := context.Background()

	_, err := s.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, apiclient.ErrLoginRejected)
	assert.False(t, session.Present(s.Store))
	assert.Equal(t, "/login", s.Router.Location())

	_, err = s.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.True(t, session.Present(s.Store))
	assert.Equal(t, "/dashboard", s.Router.Location())

	// Guest route bounces while signed in
	match, err := s.Open(ctx, "/login", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, router.NameDashboard, match.Name())

	require.NoError(t, s.Logout(ctx))
	assert.False(t, session.Present(s.Store))
	assert.Equal(t, "/login", s.Router.Location())
}

func TestShell_LogoutWithStaleToken(t *testing.T) {
	s := newTestShell(t, "stale")

	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, session.Present(s.Store))
	assert.Equal(t, "/login", s.Router.Location())
}

func TestShell_UnknownRoute(t *testing.T) {
	s := newTestShell(t, validToken)

	_, err := s.Open(context.Background(), "/facturas", &bytes.Buffer{})
	assert.ErrorIs(t, err, router.ErrRouteNotFound)
}

func TestViews_CoverRouteTable(t *testing.T) {
	var walk func(routes []router.Route)
	walk = func(routes []router.Route) {
		for _, r := range routes {
			if r.View != "" {
				_, ok := views[r.View]
				assert.True(t, ok, "missing view %s", r.View)
			}
			walk(r.Children)
		}
	}
	walk(router.Routes())
}
