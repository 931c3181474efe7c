package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/aria/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(ctx, ServeOptions{
			Script:          "prime",
			Listener:        ln,
			MetricsInterval: 10 * time.Millisecond,
			Ready:           func(addr string) { ready <- addr },
		})
	}()

	var base string
	select {
	case addr := <-ready:
		base = "http://" + addr
	case err := <-errCh:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server never became ready")
	}

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", strings.TrimSpace(string(body)))

	resp, err = http.Post(base+"/sessions/s1/commands", "application/json", strings.NewReader(`{"input":"status"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		resp, err := http.Get(base + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		text := string(body)
		return strings.Contains(text, "aria_commands_total") &&
			strings.Contains(text, "aria_host_cpu_percent") &&
			strings.Contains(text, "go_goroutines")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestPreferencesCommands(t *testing.T) {
	ctx := context.Background()
	m, closePrefs, err := OpenPreferences(PrefsOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	defer closePrefs()

	var out bytes.Buffer
	require.NoError(t, ShowPreferences(ctx, &out, m, ""))
	assert.Contains(t, out.String(), "java-21-openjdk-amd64")

	out.Reset()
	require.NoError(t, SetPreference(ctx, &out, m, "work", "javaHome", "/opt/jdk"))
	assert.Contains(t, out.String(), "/opt/jdk")

	out.Reset()
	require.NoError(t, ListProfiles(ctx, &out, m))
	assert.Equal(t, "work\n", out.String())

	out.Reset()
	require.NoError(t, ResetPreferences(ctx, &out, m, "work"))
	assert.Contains(t, out.String(), ">>> Profile 'work' reset to defaults.")

	out.Reset()
	require.NoError(t, ShowPreferences(ctx, &out, m, "work"))
	assert.NotContains(t, out.String(), "/opt/jdk")

	err = SetPreference(ctx, &out, m, "work", "colour", "blue")
	assert.ErrorIs(t, err, domain.ErrUnknownSetting)
}

func TestScripts(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, ListScripts(&out))
	assert.Contains(t, out.String(), "prime")
	assert.Contains(t, out.String(), "essence")
	assert.NotContains(t, out.String(), "boot")

	out.Reset()
	require.NoError(t, ValidateScript(&out, "prime"))
	assert.Contains(t, out.String(), "prime is valid")
	assert.Contains(t, out.String(), "nexus-launch")

	err := ValidateScript(&out, "missing")
	assert.ErrorIs(t, err, domain.ErrUnknownScript)

	out.Reset()
	require.NoError(t, GraphScript(&out, "essence"))
	assert.Contains(t, out.String(), "graph TD")
	assert.Contains(t, out.String(), "cmd_nexus_build -. alias .-> cmd_aria_sync")
}

func TestOpenPreferences_Encrypted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	secure, _, err := OpenPreferences(PrefsOptions{Dir: dir, Key: key})
	require.NoError(t, err)
	_, err = secure.Set(ctx, "vault", "javaHome", "/opt/jdk")
	require.NoError(t, err)

	plain, _, err := OpenPreferences(PrefsOptions{Dir: dir})
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, ShowPreferences(ctx, &out, plain, "vault"))
	assert.NotContains(t, out.String(), "/opt/jdk")
	assert.Contains(t, out.String(), "env.__encrypted__")

	out.Reset()
	require.NoError(t, ShowPreferences(ctx, &out, secure, "vault"))
	assert.Contains(t, out.String(), "javaHome: /opt/jdk")

	_, _, err = OpenPreferences(PrefsOptions{Dir: dir, Key: "short"})
	assert.Error(t, err)
}
