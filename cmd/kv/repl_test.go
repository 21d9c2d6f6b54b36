package kv

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers requests like the server would, without a network
type fakeServer struct {
	data map[string]string
	seen []*common.Message
}

func (f *fakeServer) do(req *common.Message) (*common.Message, error) {
	f.seen = append(f.seen, req)
	if err := req.Validate(); err != nil {
		return common.NewErrorResponse(err), nil
	}
	switch req.MsgType {
	case common.MsgTPing:
		return common.NewPingResponse(), nil
	case common.MsgTSet:
		f.data[req.Keys[0]] = *req.Value
		return common.NewSetResponse(nil), nil
	case common.MsgTGet:
		v, ok := f.data[req.Keys[0]]
		return common.NewGetResponse(v, ok, nil), nil
	case common.MsgTDel:
		n := 0
		for _, k := range req.Keys {
			if _, ok := f.data[k]; ok {
				delete(f.data, k)
				n++
			}
		}
		return common.NewDelResponse(n, nil), nil
	}
	return nil, nil
}

func TestReplSession(t *testing.T) {
	srv := &fakeServer{data: map[string]string{}}
	in := strings.NewReader("ping\nset a 1\nget a\ndel a b\nget a\nfoo\nexit\nping\n")
	var out bytes.Buffer

	require.NoError(t, repl(in, &out, srv.do))

	// the shell stops at exit, the final ping is never sent
	require.Len(t, srv.seen, 6)
	assert.Equal(t, common.MsgTIllegal, srv.seen[5].MsgType)

	text := out.String()
	assert.Contains(t, text, common.PongValue)
	assert.Contains(t, text, "1")
	assert.Contains(t, text, "(error)")
}

func TestReplStopsAtEOF(t *testing.T) {
	srv := &fakeServer{data: map[string]string{}}
	var out bytes.Buffer

	require.NoError(t, repl(strings.NewReader("set a 1"), &out, srv.do))
	require.Len(t, srv.seen, 1)
	assert.Equal(t, "1", srv.data["a"])
}

func TestReplStopsAfterShutdown(t *testing.T) {
	srv := &fakeServer{data: map[string]string{}}
	var out bytes.Buffer

	require.NoError(t, repl(strings.NewReader("shutdown\nping\n"), &out, srv.do))
	require.Len(t, srv.seen, 1)
	assert.Equal(t, common.MsgTExit, srv.seen[0].MsgType)
}

func TestReplShowsTransportErrors(t *testing.T) {
	var out bytes.Buffer
	do := func(*common.Message) (*common.Message, error) {
		return nil, errors.New("connection refused")
	}

	require.NoError(t, repl(strings.NewReader("ping\n"), &out, do))
	assert.Contains(t, out.String(), "connection refused")
}

func TestRenderResponse(t *testing.T) {
	s := buildStyles()

	assert.Contains(t, renderResponse(s, nil, nil), "no response")
	assert.Contains(t, renderResponse(s, common.NewSetResponse(nil), nil), "OK")
	assert.Contains(t, renderResponse(s, common.NewGetResponse("v", true, nil), nil), "v")
	assert.Contains(t, renderResponse(s, common.NewErrorResponse(errors.New("boom")), nil), "boom")
}
