package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/medcasegen/internal/client/client"
	"github.com/dmitrijs2005/medcasegen/internal/client/config"
	"github.com/dmitrijs2005/medcasegen/internal/client/tokenstore"
	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// fakeAPI answers the auth endpoints with canned responses.
type fakeAPI struct {
	mu     sync.Mutex
	status map[string]int
	hits   map[string]int
	bodies map[string]map[string]any
	auth   map[string]string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{
		status: map[string]int{},
		hits:   map[string]int{},
		bodies: map[string]map[string]any{},
		auth:   map[string]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) fail(path string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[path] = code
}

func (f *fakeAPI) hitsOf(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) bodyOf(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func (f *fakeAPI) authOf(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth[path]
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.hits[path]++
	f.bodies[path] = body
	f.auth[path] = r.Header.Get(common.AuthorizationHeader)
	code := f.status[path]
	n := f.hits[path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if code != 0 {
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(code)})
		return
	}

	user := map[string]any{"id": "u1", "email": "alice@example.com", "name": "Martin", "prenom": "Alice", "role": "APPRENANT"}
	switch path {
	case "/auth/login", "/auth/admin-login":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session": map[string]any{"access_token": "tok-1", "token_type": "bearer", "expires_at": time.Now().Add(time.Hour).Unix()},
			"user":    user,
		})
	case "/auth/register":
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"user": user})
	case "/auth/me":
		_ = json.NewEncoder(w).Encode(map[string]any{"user": user})
	case "/auth/logout":
		w.WriteHeader(http.StatusNoContent)
	case "/cases":
		_ = json.NewEncoder(w).Encode(map[string]any{"cases": []map[string]any{
			{"id": "c1", "case_title": "Douleur thoracique", "age": 54, "sexe": "homme"},
			{"id": "c2", "case_title": "Fièvre de l'enfant"},
		}})
	case "/cases/c1":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "c1", "case_title": "Douleur thoracique", "age": 54, "sexe": "homme",
			"case_summary": "Homme de 54 ans, douleur depuis ce matin.", "motif_consultation": "douleur thoracique",
			"diagnoses": []map[string]any{{"description": "SCA", "is_final": true}},
		})
	case "/simulations/start":
		status := http.StatusOK
		if n == 1 {
			status = http.StatusCreated
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "s1", "status": "in_progress", "case": map[string]any{"id": "c1", "case_title": "Douleur thoracique"},
			"messages": []map[string]any{
				{"id": 1, "session": "s1", "sender": "APPRENANT", "content": "Bonjour"},
				{"id": 2, "session": "s1", "sender": "PATIENT_IA", "content": "Bonjour docteur."},
			},
		})
	case "/simulations/s1/message":
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 3, "session": "s1", "sender": "PATIENT_IA", "content": "J'ai 54 ans."})
	case "/simulations/s1/end":
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "s1", "status": "completed", "case": map[string]any{"id": "c1"}})
	case "/simulations":
		_ = json.NewEncoder(w).Encode(map[string]any{"simulations": []map[string]any{
			{"id": "s1", "status": "in_progress", "start_time": "2026-05-01T10:00:00Z", "case": map[string]any{"id": "c1", "case_title": "Douleur thoracique"}},
			{"id": "s0", "status": "completed", "start_time": "2026-04-01T10:00:00Z", "case": map[string]any{"id": "c2", "case_title": "Fièvre de l'enfant"}},
		}})
	default:
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}
}

// stubPasswords makes readPassword return the given values in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	var mu sync.Mutex
	readPassword = func(int) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(pws) == 0 {
			return nil, assert.AnError
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

type testApp struct {
	*App
	lines *[]string
}

// printed returns everything the app wrote through printlnFn.
func (a testApp) printed() string {
	return strings.Join(*a.lines, "\n")
}

func newTestApp(t *testing.T, baseURL, input string) testApp {
	t.Helper()
	lines := capturePrintln(t)

	ctx := context.Background()
	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.Discard()
	store := tokenstore.NewMetadataStore(db, common.TokenTTL, logger)
	api, err := client.NewHTTPClient(baseURL+"/api", store, client.WithLogger(logger))
	require.NoError(t, err)

	c := &config.Config{}
	c.LoadDefaults()
	c.APIBaseURL = baseURL + "/api"

	return testApp{
		App: &App{
			config: c,
			db:     db,
			store:  store,
			api:    api,
			logger: logger,
			reader: bufio.NewReader(strings.NewReader(input)),
			out:    io.Discard,
		},
		lines: lines,
	}
}

func TestLogin_StoresTokenAndAuthorizesNextCalls(t *testing.T) {
	api, srv := newFakeAPI(t)
	a := newTestApp(t, srv.URL, "alice@example.com\n")
	stubPasswords(t, "secret1")
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	assert.True(t, a.isLoggedIn(ctx))
	assert.Equal(t, "(alice@example.com)", a.status(ctx))
	assert.Equal(t, "alice@example.com", api.bodyOf("/auth/login")["email"])
	assert.Empty(t, api.authOf("/auth/login"))

	require.NoError(t, a.WhoAmI(ctx))
	assert.Equal(t, "Bearer tok-1", api.authOf("/auth/me"))
	assert.Contains(t, a.printed(), "Alice <alice@example.com>")
	assert.Contains(t, a.printed(), "APPRENANT")
}

func TestLogin_ValidationStopsBeforeAPI(t *testing.T) {
	api, srv := newFakeAPI(t)
	a := newTestApp(t, srv.URL, "\n")
	stubPasswords(t, "")

	err := a.Login(context.Background())
	require.ErrorIs(t, err, errInvalidInput)
	assert.Zero(t, api.hitsOf("/auth/login"))
	assert.Contains(t, a.printed(), "L'email est requis")
	assert.Contains(t, a.printed(), "Le mot de passe est requis")
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name string
		code int
		want string
	}{
		{"rejected", http.StatusUnauthorized, "Identifiants invalides."},
		{"server down", http.StatusBadGateway, "Serveur indisponible."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			api.fail("/auth/login", tt.code)
			a := newTestApp(t, srv.URL, "alice@example.com\n")
			stubPasswords(t, "secret1")

			err := a.Login(context.Background())
			require.EqualError(t, err, tt.want)
			assert.False(t, a.isLoggedIn(context.Background()))
		})
	}
}

func TestAdminLogin_Forbidden(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("/auth/admin-login", http.StatusForbidden)
	a := newTestApp(t, srv.URL, "alice@example.com\n")
	stubPasswords(t, "secret1")

	err := a.AdminLogin(context.Background())
	require.EqualError(t, err, "Accès administrateur requis.")
	assert.Equal(t, 1, api.hitsOf("/auth/admin-login"))
	assert.Zero(t, api.hitsOf("/auth/login"))
}

func TestLogin_AlreadyLoggedIn(t *testing.T) {
	_, srv := newFakeAPI(t)
	a := newTestApp(t, srv.URL, "")
	a.store.Save(context.Background(), "tok-0")

	require.ErrorIs(t, a.Login(context.Background()), errAlreadyLoggedIn)
}

func TestWhoAmI_ExpiredSessionClearsToken(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("/auth/me", http.StatusUnauthorized)
	a := newTestApp(t, srv.URL, "")
	ctx := context.Background()
	a.store.Save(ctx, "stale")
	a.email = "alice@example.com"

	err := a.WhoAmI(ctx)
	require.EqualError(t, err, "Session expirée. Veuillez vous reconnecter.")
	assert.False(t, a.isLoggedIn(ctx))
	assert.Equal(t, "(déconnecté)", a.status(ctx))
}

func TestWhoAmI_NotLoggedIn(t *testing.T) {
	api, srv := newFakeAPI(t)
	a := newTestApp(t, srv.URL, "")

	require.ErrorIs(t, a.WhoAmI(context.Background()), errNotLoggedIn)
	assert.Zero(t, api.hitsOf("/auth/me"))
}

func TestLogout(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		api, srv := newFakeAPI(t)
		a := newTestApp(t, srv.URL, "")
		ctx := context.Background()
		a.store.Save(ctx, "tok-1")

		require.NoError(t, a.Logout(ctx))
		assert.Equal(t, "Bearer tok-1", api.authOf("/auth/logout"))
		assert.False(t, a.isLoggedIn(ctx))
	})

	t.Run("already revoked", func(t *testing.T) {
		api, srv := newFakeAPI(t)
		api.fail("/auth/logout", http.StatusUnauthorized)
		a := newTestApp(t, srv.URL, "")
		ctx := context.Background()
		a.store.Save(ctx, "tok-1")

		require.NoError(t, a.Logout(ctx))
		assert.False(t, a.isLoggedIn(ctx))
	})

	t.Run("not logged in", func(t *testing.T) {
		_, srv := newFakeAPI(t)
		a := newTestApp(t, srv.URL, "")
		require.ErrorIs(t, a.Logout(context.Background()), errNotLoggedIn)
	})
}

func TestRegister(t *testing.T) {
	api, srv := newFakeAPI(t)
	input := strings.Join([]string{"Martin", "Alice", "femme", "1990-04-02", "alice@example.com", "+33 6 12 34 56 78", "Lyon"}, "\n") + "\n"
	a := newTestApp(t, srv.URL, input)
	stubPasswords(t, "secret1")

	require.NoError(t, a.Register(context.Background()))

	body := api.bodyOf("/auth/register")
	assert.Equal(t, "Martin", body["name"])
	assert.Equal(t, "femme", body["sexe"])
	assert.Equal(t, "1990-04-02", body["date_naissance"])
	assert.Equal(t, "secret1", body["password"])
	assert.Equal(t, "Lyon", body["ville"])
}

func TestRegister_InvalidFieldsNeverReachAPI(t *testing.T) {
	api, srv := newFakeAPI(t)
	input := strings.Join([]string{"Martin", "", "autre", "1990-04-02", "not-an-email", "12", ""}, "\n") + "\n"
	a := newTestApp(t, srv.URL, input)
	stubPasswords(t, "abc")

	require.ErrorIs(t, a.Register(context.Background()), errInvalidInput)
	assert.Zero(t, api.hitsOf("/auth/register"))

	out := a.printed()
	assert.Contains(t, out, "Format d'email invalide")
	assert.Contains(t, out, "Le mot de passe doit faire au moins 6 caractères")
	assert.Contains(t, out, "Sexe invalide")
	assert.Contains(t, out, "Numéro de téléphone invalide")
	assert.Less(t, strings.Index(out, "Format d'email"), strings.Index(out, "Sexe invalide"))
}

func TestRegister_Conflict(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("/auth/register", http.StatusConflict)
	input := strings.Join([]string{"Martin", "", "", "1990-04-02", "alice@example.com", "", ""}, "\n") + "\n"
	a := newTestApp(t, srv.URL, input)
	stubPasswords(t, "secret1")

	require.EqualError(t, a.Register(context.Background()), "Un compte existe déjà avec cet email.")
}

func TestForgotPassword(t *testing.T) {
	api, srv := newFakeAPI(t)
	a := newTestApp(t, srv.URL, "alice@example.com\n")

	require.NoError(t, a.ForgotPassword(context.Background()))
	assert.Equal(t, "alice@example.com", api.bodyOf("/auth/forgot-password")["email"])
	_, hasRedirect := api.bodyOf("/auth/forgot-password")["redirectTo"]
	assert.False(t, hasRedirect)
}

func TestForgotPassword_InvalidEmail(t *testing.T) {
	api, srv := newFakeAPI(t)
	a := newTestApp(t, srv.URL, "nope\n")

	require.ErrorIs(t, a.ForgotPassword(context.Background()), errInvalidInput)
	assert.Zero(t, api.hitsOf("/auth/forgot-password"))
}

func TestResetPassword(t *testing.T) {
	t.Run("token from args", func(t *testing.T) {
		api, srv := newFakeAPI(t)
		a := newTestApp(t, srv.URL, "")
		stubPasswords(t, "newpass", "newpass")

		require.NoError(t, a.ResetPassword(context.Background(), []string{"tok-reset"}))
		body := api.bodyOf("/auth/reset-password")
		assert.Equal(t, "tok-reset", body["token"])
		assert.Equal(t, "newpass", body["newPassword"])
	})

	t.Run("token prompted", func(t *testing.T) {
		api, srv := newFakeAPI(t)
		a := newTestApp(t, srv.URL, "tok-reset\n")
		stubPasswords(t, "newpass", "newpass")

		require.NoError(t, a.ResetPassword(context.Background(), nil))
		assert.Equal(t, 1, api.hitsOf("/auth/reset-password"))
	})

	t.Run("mismatch", func(t *testing.T) {
		api, srv := newFakeAPI(t)
		a := newTestApp(t, srv.URL, "")
		stubPasswords(t, "newpass", "other1")

		require.ErrorIs(t, a.ResetPassword(context.Background(), []string{"tok"}), errInvalidInput)
		assert.Contains(t, a.printed(), "Les mots de passe ne correspondent pas")
		assert.Zero(t, api.hitsOf("/auth/reset-password"))
	})

	t.Run("expired link", func(t *testing.T) {
		api, srv := newFakeAPI(t)
		api.fail("/auth/reset-password", http.StatusBadRequest)
		a := newTestApp(t, srv.URL, "")
		stubPasswords(t, "newpass", "newpass")

		require.EqualError(t, a.ResetPassword(context.Background(), []string{"tok"}), "Lien de réinitialisation invalide ou expiré.")
	})
}

func TestStatus(t *testing.T) {
	_, srv := newFakeAPI(t)
	a := newTestApp(t, srv.URL, "")

	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, a.printed(), srv.URL+"/api")
}

func loggedInApp(t *testing.T, baseURL, input string) testApp {
	t.Helper()
	a := newTestApp(t, baseURL, input)
	a.store.Save(context.Background(), "tok-1")
	return a
}

func TestCases(t *testing.T) {
	api, srv := newFakeAPI(t)
	a := loggedInApp(t, srv.URL, "")

	require.NoError(t, a.Cases(context.Background()))
	assert.Equal(t, "Bearer tok-1", api.authOf("/cases"))
	assert.Contains(t, *a.lines, "c1  Douleur thoracique (54 ans, homme)")
	assert.Contains(t, *a.lines, "c2  Fièvre de l'enfant")
}

func TestCase_ShowsDetailsWithoutDiagnosis(t *testing.T) {
	_, srv := newFakeAPI(t)
	a := loggedInApp(t, srv.URL, "")

	require.NoError(t, a.Case(context.Background(), []string{"c1"}))
	out := a.printed()
	assert.Contains(t, out, "Douleur thoracique (54 ans, homme)")
	assert.Contains(t, out, "Motif de consultation : douleur thoracique")
	assert.NotContains(t, out, "SCA")

	require.EqualError(t, a.Case(context.Background(), nil), "Usage : case <id>")
}

func TestCase_NotFound(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("/cases/zz", http.StatusNotFound)
	a := loggedInApp(t, srv.URL, "")

	require.EqualError(t, a.Case(context.Background(), []string{"zz"}), "Introuvable.")
	assert.True(t, a.isLoggedIn(context.Background()))
}

func TestSimulationCommands_RequireLogin(t *testing.T) {
	api, srv := newFakeAPI(t)
	a := newTestApp(t, srv.URL, "")
	ctx := context.Background()

	require.ErrorIs(t, a.Cases(ctx), errNotLoggedIn)
	require.ErrorIs(t, a.Case(ctx, []string{"c1"}), errNotLoggedIn)
	require.ErrorIs(t, a.Simulate(ctx, []string{"c1"}), errNotLoggedIn)
	require.ErrorIs(t, a.Sessions(ctx), errNotLoggedIn)
	assert.Zero(t, api.hitsOf("/cases"))
}

func TestSimulate_ChatUntilEnd(t *testing.T) {
	api, srv := newFakeAPI(t)
	a := loggedInApp(t, srv.URL, "Quel âge avez-vous ?\n\n/fin\n")

	require.NoError(t, a.Simulate(context.Background(), []string{"c1"}))

	assert.Equal(t, map[string]any{"case_id": "c1"}, api.bodyOf("/simulations/start"))
	assert.Equal(t, map[string]any{"content": "Quel âge avez-vous ?"}, api.bodyOf("/simulations/s1/message"))
	assert.Equal(t, 1, api.hitsOf("/simulations/s1/message"))
	assert.Equal(t, 1, api.hitsOf("/simulations/s1/end"))

	assert.Contains(t, *a.lines, "Nouvelle simulation : Douleur thoracique")
	assert.Contains(t, *a.lines, "patient > J'ai 54 ans.")
	assert.Contains(t, *a.lines, "Simulation terminée.")
	assert.NotContains(t, *a.lines, "patient > Bonjour docteur.")
}

func TestSimulate_ResumeShowsHistoryAndPauses(t *testing.T) {
	api, srv := newFakeAPI(t)
	ctx := context.Background()

	first := loggedInApp(t, srv.URL, "/quitter\n")
	require.NoError(t, first.Simulate(ctx, []string{"c1"}))

	a := loggedInApp(t, srv.URL, "/quitter\n")
	require.NoError(t, a.Simulate(ctx, []string{"c1"}))

	assert.Contains(t, *a.lines, "Reprise de la simulation : Douleur thoracique")
	assert.Contains(t, *a.lines, "vous > Bonjour")
	assert.Contains(t, *a.lines, "patient > Bonjour docteur.")
	assert.Contains(t, *a.lines, "Simulation en pause. Reprenez-la avec 'simulate c1'.")
	assert.Zero(t, api.hitsOf("/simulations/s1/end"))
}

func TestSimulate_InvalidMessageKeepsChatting(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("/simulations/s1/message", http.StatusBadRequest)
	a := loggedInApp(t, srv.URL, "Bonjour\n/quitter\n")

	require.NoError(t, a.Simulate(context.Background(), []string{"c1"}))
	assert.Contains(t, *a.lines, "Erreur : Bad Request")
	assert.Contains(t, *a.lines, "Simulation en pause. Reprenez-la avec 'simulate c1'.")
}

func TestSimulate_UnavailableCase(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("/simulations/start", http.StatusBadRequest)
	a := loggedInApp(t, srv.URL, "")

	require.EqualError(t, a.Simulate(context.Background(), []string{"c9"}), "Bad Request")
	require.EqualError(t, a.Simulate(context.Background(), nil), "Usage : simulate <id du cas>")
}

func TestSessions(t *testing.T) {
	_, srv := newFakeAPI(t)
	a := loggedInApp(t, srv.URL, "")

	require.NoError(t, a.Sessions(context.Background()))
	out := a.printed()
	assert.Contains(t, out, "s1  Douleur thoracique  en cours")
	assert.Contains(t, out, "s0  Fièvre de l'enfant  terminée")
}
