package client

import (
	"fmt"

	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/ValentinKolb/rKV/rpc/serializer"
	"github.com/ValentinKolb/rKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// expectedResponse maps a request type to the type of a successful response
var expectedResponse = map[common.MessageType]common.MessageType{
	common.MsgTPing: common.MsgTOk,
	common.MsgTSet:  common.MsgTOk,
	common.MsgTGet:  common.MsgTValue,
	common.MsgTDel:  common.MsgTValue,
}

// roundTrip serializes req, sends it and deserializes the response.
// It returns nil and no error if the server sent no response.
func roundTrip(req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := transport.Send(reqBytes)
	if err != nil {
		return nil, err
	}

	// The command produced no response
	if len(respBytes) == 0 {
		return nil, nil
	}

	// Deserialize the response
	resp := &common.Message{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("RPC StoreAdapter - Error: %w", err)
	}
	return resp, nil
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type
func invokeRPCRequest(req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	resp, err := roundTrip(req, transport, serializer)
	if err != nil {
		return nil, err
	}

	expected, hasResponse := expectedResponse[req.MsgType]

	// Commands without a response (Exit)
	if resp == nil {
		if hasResponse {
			return nil, fmt.Errorf("RPC StoreAdapter - No response, expected %s", expected)
		}
		return nil, nil
	}

	// Check if the response is an error response
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, fmt.Errorf("RPC StoreAdapter - Error: %s", resp.Err)
	}

	// Check if the type of the response is the expected type
	if hasResponse && resp.MsgType != expected {
		return nil, fmt.Errorf("RPC StoreAdapter - Unexpected message type: %s, expected %s", resp.MsgType, expected)
	}

	// Return the response
	return resp, nil
}
