package client

import (
	"fmt"
	"strconv"

	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/ValentinKolb/rKV/rpc/serializer"
	"github.com/ValentinKolb/rKV/rpc/transport"
)

// IRPCStore is a store.IStore backed by a remote rKV server
type IRPCStore interface {
	store.IStore

	// Ping checks that the server is alive
	Ping() error

	// Exit asks the server to stop. The server sends no response.
	Exit() error

	// Do sends an arbitrary request and returns the raw response without
	// interpreting it. The response is nil if the server sent none.
	Do(req *common.Message) (*common.Message, error)

	// Close closes the underlying transport
	Close() error
}

// NewRPCStore creates a new RPC store
// The function takes a config, a transport and a serializer as parameters
// It returns an IRPCStore and an error
func NewRPCStore(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (IRPCStore, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC store
	s := rpcStore{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the RPC store
	return &s, nil
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) Set(key, value string) (err error) {
	req := common.NewSetRequest(key, value)
	_, err = invokeRPCRequest(req, i.transport, i.serializer)
	return err
}

// Get reports loaded=false if the server answered with common.NullValue.
// A stored value equal to common.NullValue therefore reads as missing.
func (i *rpcStore) Get(key string) (value string, loaded bool, err error) {
	req := common.NewGetRequest(key)
	resp, err := invokeRPCRequest(req, i.transport, i.serializer)
	if err != nil {
		return "", false, err
	}
	if resp.Value == nil || *resp.Value == common.NullValue {
		return "", false, nil
	}
	return *resp.Value, true, nil
}

func (i *rpcStore) Delete(keys ...string) (removed int, err error) {
	req := common.NewDelRequest(keys...)
	resp, err := invokeRPCRequest(req, i.transport, i.serializer)
	if err != nil {
		return 0, err
	}
	removed, err = strconv.Atoi(resp.GetValue())
	if err != nil {
		return 0, fmt.Errorf("RPC StoreAdapter - Invalid delete count %q: %w", resp.GetValue(), err)
	}
	return removed, nil
}

// --------------------------------------------------------------------------
// Additional Methods (docu see IRPCStore)
// --------------------------------------------------------------------------

func (i *rpcStore) Ping() error {
	resp, err := invokeRPCRequest(common.NewPingRequest(), i.transport, i.serializer)
	if err != nil {
		return err
	}
	if resp.GetValue() != common.PongValue {
		return fmt.Errorf("RPC StoreAdapter - Unexpected ping response: %s", resp)
	}
	return nil
}

func (i *rpcStore) Exit() error {
	_, err := invokeRPCRequest(common.NewExitRequest(), i.transport, i.serializer)
	return err
}

func (i *rpcStore) Do(req *common.Message) (*common.Message, error) {
	return roundTrip(req, i.transport, i.serializer)
}

func (i *rpcStore) Close() error {
	return i.transport.Close()
}
