package server

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/lib/store/lstore"
	"github.com/ValentinKolb/rKV/rpc/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingHandler records how often it was called
func countingHandler(calls *int) HandlerFunc[*common.Message, *common.Message] {
	return func(req *common.Message) (*common.Message, error) {
		*calls++
		return common.NewPingResponse(), nil
	}
}

func TestMiddlewareRejectsIllegalRequests(t *testing.T) {
	calls := 0
	m := NewLoggingMiddleware[*common.Message, *common.Message](countingHandler(&calls), IllegalMarker, nil)

	resp, err := m.Handle(common.NewIllegalRequest("FOO bar"))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, store.IsCode(err, store.RetCProtocolError))
	assert.Contains(t, err.Error(), "FOO bar")
	assert.Equal(t, 0, calls)
}

func TestMiddlewareRejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  *common.Message
	}{
		{"set without value", &common.Message{MsgType: common.MsgTSet, Keys: []string{"a"}}},
		{"get without key", &common.Message{MsgType: common.MsgTGet}},
		{"del without keys", common.NewDelRequest()},
		{"response", common.NewEmptyResponse()},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			m := NewLoggingMiddleware[*common.Message, *common.Message](countingHandler(&calls), IllegalMarker, nil)

			_, err := m.Handle(tt.req)
			require.Error(t, err)
			assert.True(t, store.IsCode(err, store.RetCProtocolError))
			assert.Equal(t, 0, calls)
		})
	}
}

func TestMiddlewareDoesNotMutateOnRejection(t *testing.T) {
	s := lstore.NewLocalStore()
	m := NewLoggingMiddleware[*common.Message, *common.Message](NewStoreServerAdapter(s, nil), IllegalMarker, nil)

	_, err := m.Handle(&common.Message{MsgType: common.MsgTIllegal, Keys: []string{"SET", "a", "1"}})
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestMiddlewareForwards(t *testing.T) {
	timer := gometrics.NewTimer()
	s := lstore.NewLocalStore()
	m := NewLoggingMiddleware[*common.Message, *common.Message](NewStoreServerAdapter(s, nil), IllegalMarker, timer)

	resp, err := m.Handle(common.NewSetRequest("a", "1"))
	require.NoError(t, err)
	assert.Equal(t, common.SetValue, resp.GetValue())

	resp, err = m.Handle(common.NewGetRequest("a"))
	require.NoError(t, err)
	assert.Equal(t, "1", resp.GetValue())

	assert.Equal(t, int64(2), timer.Count())
}

func TestMiddlewarePassesHandlerErrors(t *testing.T) {
	want := errors.New("boom")
	inner := HandlerFunc[*common.Message, *common.Message](func(req *common.Message) (*common.Message, error) {
		return nil, want
	})
	m := NewLoggingMiddleware[*common.Message, *common.Message](inner, IllegalMarker, nil)

	_, err := m.Handle(common.NewPingRequest())
	assert.Same(t, want, err)
}

func TestMiddlewareIsGeneric(t *testing.T) {
	calls := 0
	inner := HandlerFunc[string, int](func(req string) (int, error) {
		calls++
		return len(req), nil
	})
	m := NewLoggingMiddleware[string, int](inner, "BAD", nil)

	n, err := m.Handle("hello")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = m.Handle("BAD hello")
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, calls)

	// An empty marker disables the prefix check
	m = NewLoggingMiddleware[string, int](inner, "", nil)
	_, err = m.Handle("BAD")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

// validatedRequest fails validation when it is negative
type validatedRequest int

func (r validatedRequest) Validate() error {
	if r < 0 {
		return fmt.Errorf("negative request %d", r)
	}
	return nil
}

func TestMiddlewareWrapsValidationErrors(t *testing.T) {
	inner := HandlerFunc[validatedRequest, int](func(req validatedRequest) (int, error) {
		return int(req), nil
	})
	m := NewLoggingMiddleware[validatedRequest, int](inner, "", nil)

	_, err := m.Handle(-1)
	require.Error(t, err)
	assert.True(t, store.IsCode(err, store.RetCProtocolError))
	assert.Contains(t, err.Error(), "negative request -1")

	n, err := m.Handle(3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMiddlewareLogsLatencyAtInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, common.InitLoggers("info", "text"))
	common.SetLogOutput(&buf)
	t.Cleanup(func() { common.SetLogOutput(os.Stdout) })

	calls := 0
	m := NewLoggingMiddleware[*common.Message, *common.Message](countingHandler(&calls), IllegalMarker, nil)
	_, err := m.Handle(common.NewPingRequest())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Request took")
	// request and response are only logged at debug
	assert.NotContains(t, out, "PONG")
}
