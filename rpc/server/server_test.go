package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/rKV/rpc/client"
	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/ValentinKolb/rKV/rpc/serializer"
	"github.com/ValentinKolb/rKV/rpc/transport/unix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server *Server
	errCh  chan error
	socket string
}

func startServer(t *testing.T, dir string, policy common.ExitPolicy) *testServer {
	t.Helper()

	socket := filepath.Join(dir, "rkv.sock")
	config := common.ServerConfig{
		Transport: common.ServerTransportConfig{
			Endpoint:       socket,
			WorkersPerConn: 4,
		},
		AOFPath:               filepath.Join(dir, "rkv.aof"),
		ExitPolicy:            policy,
		ShutdownTimeoutSecond: 5,
		LogLevel:              "error",
		LogFormat:             "text",
	}

	ts := &testServer{
		server: NewRPCServer(config, unix.NewUnixDefaultServerTransport(), serializer.NewBinarySerializer()),
		errCh:  make(chan error, 1),
		socket: socket,
	}
	go func() {
		ts.errCh <- ts.server.Serve()
	}()
	return ts
}

func (ts *testServer) connect(t *testing.T) client.IRPCStore {
	t.Helper()

	config := common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{ts.socket},
			RetryCount:             1,
			ConnectionsPerEndpoint: 1,
		},
	}

	var kv client.IRPCStore
	require.Eventually(t, func() bool {
		var err error
		kv, err = client.NewRPCStore(config, unix.NewUnixClientTransport(), serializer.NewBinarySerializer())
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func (ts *testServer) waitStopped(t *testing.T) {
	t.Helper()
	select {
	case err := <-ts.errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeCommands(t *testing.T) {
	dir := t.TempDir()
	ts := startServer(t, dir, common.ExitPolicyShutdown)
	kv := ts.connect(t)

	require.NoError(t, kv.Ping())

	_, loaded, err := kv.Get("a")
	require.NoError(t, err)
	assert.False(t, loaded)

	require.NoError(t, kv.Set("a", "1"))
	require.NoError(t, kv.Set("b", "hello world"))

	value, loaded, err := kv.Get("b")
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "hello world", value)

	removed, err := kv.Delete("a", "c")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// Illegal input is answered with an error and changes nothing
	resp, err := kv.Do(common.NewIllegalRequest("FOO a"))
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, common.MsgTError, resp.MsgType)

	require.NoError(t, kv.Exit())
	ts.waitStopped(t)

	data, err := os.ReadFile(filepath.Join(dir, "rkv.aof"))
	require.NoError(t, err)
	assert.Equal(t, "SET a 1\nSET b \"hello world\"\nDEL a c\n", string(data))
}

func TestServeRecoversState(t *testing.T) {
	dir := t.TempDir()

	ts := startServer(t, dir, common.ExitPolicyShutdown)
	kv := ts.connect(t)
	require.NoError(t, kv.Set("a", "1"))
	require.NoError(t, kv.Set("b", "2"))
	require.NoError(t, kv.Set("a", "3"))
	_, err := kv.Delete("b")
	require.NoError(t, err)
	require.NoError(t, kv.Exit())
	ts.waitStopped(t)

	ts = startServer(t, dir, common.ExitPolicyShutdown)
	kv = ts.connect(t)

	value, loaded, err := kv.Get("a")
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "3", value)

	_, loaded, err = kv.Get("b")
	require.NoError(t, err)
	assert.False(t, loaded)

	require.NoError(t, kv.Exit())
	ts.waitStopped(t)
}

func TestServeDrainsConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	ts := startServer(t, dir, common.ExitPolicyShutdown)
	kv := ts.connect(t)

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				assert.NoError(t, kv.Set(string(rune('a'+w)), string(rune('0'+i%10))))
			}
		}(w)
	}
	wg.Wait()

	require.NoError(t, kv.Exit())
	ts.waitStopped(t)

	// One log line per acknowledged write
	data, err := os.ReadFile(filepath.Join(dir, "rkv.aof"))
	require.NoError(t, err)
	assert.Equal(t, writers*perWriter, strings.Count(string(data), "\n"))

	// Every acknowledged write is in the log and the log is replayable
	ts = startServer(t, dir, common.ExitPolicyShutdown)
	kv = ts.connect(t)
	for w := 0; w < writers; w++ {
		value, loaded, err := kv.Get(string(rune('a' + w)))
		require.NoError(t, err)
		assert.True(t, loaded)
		assert.Equal(t, string(rune('0'+(perWriter-1)%10)), value)
	}
	require.NoError(t, kv.Exit())
	ts.waitStopped(t)
}

func TestServeExitDisabled(t *testing.T) {
	dir := t.TempDir()
	ts := startServer(t, dir, common.ExitPolicyDisabled)
	kv := ts.connect(t)

	err := kv.Exit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit is disabled")

	// The server is still serving
	require.NoError(t, kv.Ping())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ts.server.Shutdown(ctx))
	ts.waitStopped(t)

	// Shutdown is idempotent
	require.NoError(t, ts.server.Shutdown(ctx))
}

func TestServeInvalidExitPolicy(t *testing.T) {
	ts := startServer(t, t.TempDir(), common.ExitPolicy("sometimes"))
	select {
	case err := <-ts.errCh:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid exit policy")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not fail")
	}
}
