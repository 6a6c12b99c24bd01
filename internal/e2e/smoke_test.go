package e2e

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	router := chi.NewRouter()
	router.Get("/swagger/index.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	router.Post("/api/Auth/Login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"token":"tok-engineer"}`)
	})
	router.Get("/api/Auth/CurrentUser", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-engineer", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":"u-3","fullName":"Eli Engineer","userName":"eli","email":"eli@b.com","roles":["Engineer"]}`)
	})
	router.Get("/api/Engineer/serviceRequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-engineer", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	env := []string{
		"HOME=" + home,
		"HV_BACKEND_BASE_URL=" + server.URL + "/api",
		"HV_TOKEN_STORE=file",
	}

	stdout, stderr, err := runHV(t, binaryPath, env, "ping")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Reachable (200)")

	stdout, stderr, err = runHV(t, binaryPath, env, "login", "--email", "eli@b.com", "--password", "pw")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "-> /engineer")

	stdout, stderr, err = runHV(t, binaryPath, env, "open", "/customer")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "/customer -> / -> /engineer")
	assert.Contains(t, stdout, "Dashboard: Engineer")
	assert.Contains(t, stdout, "No requests yet")

	_, stderr, err = runHV(t, binaryPath, env, "logout")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runHV(t, binaryPath, env, "whoami")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Not signed in")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "hv-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/hv")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build hv binary: %s", string(output))
	return binaryPath
}

func runHV(t *testing.T, binaryPath string, env []string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), env...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
