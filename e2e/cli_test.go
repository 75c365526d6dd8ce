package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/api"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/factory"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/auth"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "farmctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/farmctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{
		AuthConfig: auth.Config{
			Secret:        "e2e-test-secret",
			TokenDuration: time.Hour,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:               logger,
		AuthService:          app.AuthService,
		FarmService:          app.FarmService,
		InventoryCoordinator: app.InventoryCoordinator,
		WSHandler:            app.WSHandler,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	Player struct {
		ID          int64  `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"player"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type playerResponse struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

type farmResponse struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
}

type farmListResponse struct {
	Farms []farmResponse `json:"farms"`
}

type farmStateResponse struct {
	Farm           farmResponse `json:"farm"`
	PresentPlayers []int64      `json:"present_players"`
	Objects        []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"objects"`
}

type inventoryResponse struct {
	Items []struct {
		ItemType string `json:"item_type"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

func parseJSON[T any](t *testing.T, output string) T {
	t.Helper()
	var result T
	err := json.Unmarshal([]byte(output), &result)
	require.NoError(t, err, "failed to parse output: %s", output)
	return result
}

func TestCLIAuthFlow(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()
	cli := newCLIRunner(t, server.addr)

	// Register stores the token file and prints the new player
	output, err := cli.run("auth", "register", "alice", "--password", "hunter22", "--display-name", "Alice")
	require.NoError(t, err, "register failed: %s", output)
	registered := parseJSON[authResponse](t, output)
	assert.Equal(t, "Alice", registered.Player.DisplayName)
	assert.NotEmpty(t, registered.Token)

	// Token file now authenticates subsequent commands
	output, err = cli.run("auth", "me")
	require.NoError(t, err, "me failed: %s", output)
	me := parseJSON[playerResponse](t, output)
	assert.Equal(t, registered.Player.ID, me.ID)

	// Login replaces the stored token
	output, err = cli.run("auth", "login", "alice", "--password", "hunter22")
	require.NoError(t, err, "login failed: %s", output)
	loggedIn := parseJSON[authResponse](t, output)
	assert.Equal(t, registered.Player.ID, loggedIn.Player.ID)

	// Wrong password fails
	output, err = cli.run("auth", "login", "alice", "--password", "wrong")
	assert.Error(t, err)
	assert.Contains(t, output, "Invalid username or password")
}

func TestCLIFarmLifecycle(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()
	cli := newCLIRunner(t, server.addr)

	output, err := cli.run("auth", "register", "bob", "--password", "hunter22")
	require.NoError(t, err, "register failed: %s", output)

	// Create two farms
	output, err = cli.run("farm", "create", "North Field")
	require.NoError(t, err, "create failed: %s", output)
	north := parseJSON[farmResponse](t, output)
	assert.Equal(t, "North Field", north.Name)

	output, err = cli.run("farm", "create", "South Field")
	require.NoError(t, err, "create failed: %s", output)
	south := parseJSON[farmResponse](t, output)
	assert.NotEqual(t, north.ID, south.ID)

	// List shows both
	output, err = cli.run("farm", "list")
	require.NoError(t, err, "list failed: %s", output)
	list := parseJSON[farmListResponse](t, output)
	assert.Len(t, list.Farms, 2)

	// Get shows an empty farm
	output, err = cli.run("farm", "get", fmt.Sprintf("%d", north.ID))
	require.NoError(t, err, "get failed: %s", output)
	state := parseJSON[farmStateResponse](t, output)
	assert.Equal(t, north.ID, state.Farm.ID)
	assert.Empty(t, state.Objects)
	assert.Empty(t, state.PresentPlayers)

	// Delete one, list shows the other
	output, err = cli.run("farm", "delete", fmt.Sprintf("%d", north.ID))
	require.NoError(t, err, "delete failed: %s", output)

	output, err = cli.run("farm", "list")
	require.NoError(t, err, "list failed: %s", output)
	list = parseJSON[farmListResponse](t, output)
	require.Len(t, list.Farms, 1)
	assert.Equal(t, south.ID, list.Farms[0].ID)

	// Deleted farm is gone
	output, err = cli.run("farm", "get", fmt.Sprintf("%d", north.ID))
	assert.Error(t, err)
	assert.Contains(t, output, "not found")
}

func TestCLIFarmOwnership(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()
	cli := newCLIRunner(t, server.addr)

	output, err := cli.run("auth", "register", "carol", "--password", "hunter22")
	require.NoError(t, err, "register failed: %s", output)

	output, err = cli.run("farm", "create", "Carol's Farm")
	require.NoError(t, err, "create failed: %s", output)
	farm := parseJSON[farmResponse](t, output)

	// A second account cannot delete carol's farm
	daveCli := &cliRunner{
		binaryPath: cli.binaryPath,
		serverURL:  cli.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
	output, err = daveCli.run("auth", "register", "dave", "--password", "hunter22")
	require.NoError(t, err, "register failed: %s", output)

	output, err = daveCli.run("farm", "delete", fmt.Sprintf("%d", farm.ID))
	assert.Error(t, err)
	assert.Contains(t, output, "owner")

	// Carol still sees it
	output, err = cli.run("farm", "list")
	require.NoError(t, err, "list failed: %s", output)
	list := parseJSON[farmListResponse](t, output)
	assert.Len(t, list.Farms, 1)
}

func TestCLIInventory(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()
	cli := newCLIRunner(t, server.addr)

	output, err := cli.run("auth", "register", "erin", "--password", "hunter22")
	require.NoError(t, err, "register failed: %s", output)

	// Starts empty
	output, err = cli.run("inventory", "list")
	require.NoError(t, err, "list failed: %s", output)
	inv := parseJSON[inventoryResponse](t, output)
	assert.Empty(t, inv.Items)

	// Add accumulates
	output, err = cli.run("inventory", "add", "wheat_seed", "10")
	require.NoError(t, err, "add failed: %s", output)
	output, err = cli.run("inventory", "add", "wheat_seed", "5")
	require.NoError(t, err, "add failed: %s", output)

	output, err = cli.run("inventory", "list")
	require.NoError(t, err, "list failed: %s", output)
	inv = parseJSON[inventoryResponse](t, output)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "wheat_seed", inv.Items[0].ItemType)
	assert.Equal(t, 15, inv.Items[0].Quantity)

	// Remove subtracts
	output, err = cli.run("inventory", "remove", "wheat_seed", "6")
	require.NoError(t, err, "remove failed: %s", output)

	output, err = cli.run("inventory", "list")
	require.NoError(t, err, "list failed: %s", output)
	inv = parseJSON[inventoryResponse](t, output)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 9, inv.Items[0].Quantity)

	// Cannot remove more than held
	output, err = cli.run("inventory", "remove", "wheat_seed", "100")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "insufficient")
}

func TestCLIUnauthenticated(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()
	cli := newCLIRunner(t, server.addr)

	// No token stored yet
	output, err := cli.run("farm", "list")
	assert.Error(t, err)
	assert.Contains(t, output, "Authentication required")

	// Health needs no auth
	output, err = cli.run("health")
	require.NoError(t, err, "health failed: %s", output)
	assert.Contains(t, output, "ok")
}
