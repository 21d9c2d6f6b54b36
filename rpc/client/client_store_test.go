package client

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/ValentinKolb/rKV/rpc/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport answers every request with the next queued response
type fakeTransport struct {
	ser       serializer.IRPCSerializer
	responses []*common.Message
	requests  []common.Message
	sendErr   error
	closed    bool
}

func (f *fakeTransport) Connect(config common.ClientConfig) error { return nil }

func (f *fakeTransport) Send(req []byte) ([]byte, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	var msg common.Message
	if err := f.ser.Deserialize(req, &msg); err != nil {
		return nil, err
	}
	f.requests = append(f.requests, msg)

	resp := f.responses[0]
	f.responses = f.responses[1:]
	if resp == nil {
		return []byte{}, nil
	}
	return f.ser.Serialize(*resp)
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func newTestStore(t *testing.T, responses ...*common.Message) (IRPCStore, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{ser: serializer.NewJSONSerializer(), responses: responses}
	kv, err := NewRPCStore(common.ClientConfig{}, ft, ft.ser)
	require.NoError(t, err)
	return kv, ft
}

func TestRPCStoreGet(t *testing.T) {
	kv, ft := newTestStore(t,
		common.NewGetResponse("v", true, nil),
		common.NewGetResponse("", false, nil),
		common.NewGetResponse("", true, nil),
	)

	value, loaded, err := kv.Get("a")
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "v", value)

	_, loaded, err = kv.Get("b")
	require.NoError(t, err)
	assert.False(t, loaded)

	value, loaded, err = kv.Get("c")
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "", value)

	require.Len(t, ft.requests, 3)
	assert.Equal(t, common.MsgTGet, ft.requests[0].MsgType)
	assert.Equal(t, []string{"a"}, ft.requests[0].Keys)
}

func TestRPCStoreSetAndDelete(t *testing.T) {
	kv, ft := newTestStore(t,
		common.NewSetResponse(nil),
		common.NewDelResponse(2, nil),
	)

	require.NoError(t, kv.Set("a", "hello world"))
	removed, err := kv.Delete("a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	require.Len(t, ft.requests, 2)
	assert.Equal(t, "hello world", ft.requests[0].GetValue())
	assert.Equal(t, []string{"a", "b", "c"}, ft.requests[1].Keys)
}

func TestRPCStorePingAndExit(t *testing.T) {
	kv, ft := newTestStore(t, common.NewPingResponse(), nil)

	require.NoError(t, kv.Ping())
	require.NoError(t, kv.Exit())
	assert.Equal(t, common.MsgTExit, ft.requests[1].MsgType)

	require.NoError(t, kv.Close())
	assert.True(t, ft.closed)
}

func TestRPCStoreErrors(t *testing.T) {
	tests := []struct {
		name string
		resp *common.Message
		call func(kv IRPCStore) error
		want string
	}{
		{
			name: "error response",
			resp: common.NewErrorResponse(errors.New("disk full")),
			call: func(kv IRPCStore) error { return kv.Set("a", "1") },
			want: "disk full",
		},
		{
			name: "unexpected type",
			resp: common.NewSetResponse(nil),
			call: func(kv IRPCStore) error { _, _, err := kv.Get("a"); return err },
			want: "Unexpected message type",
		},
		{
			name: "missing response",
			resp: nil,
			call: func(kv IRPCStore) error { return kv.Ping() },
			want: "No response",
		},
		{
			name: "invalid delete count",
			resp: &common.Message{MsgType: common.MsgTValue},
			call: func(kv IRPCStore) error { _, err := kv.Delete("a"); return err },
			want: "Invalid delete count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, _ := newTestStore(t, tt.resp)
			err := tt.call(kv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRPCStoreDoReturnsRawResponse(t *testing.T) {
	kv, _ := newTestStore(t, common.NewErrorResponse(errors.New("illegal")), nil)

	resp, err := kv.Do(common.NewIllegalRequest("FOO"))
	require.NoError(t, err)
	assert.Equal(t, common.MsgTError, resp.MsgType)

	resp, err = kv.Do(common.NewExitRequest())
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestRPCStoreTransportError(t *testing.T) {
	kv, ft := newTestStore(t)
	ft.sendErr = errors.New("connection refused")

	_, _, err := kv.Get("a")
	assert.ErrorIs(t, err, ft.sendErr)
}
