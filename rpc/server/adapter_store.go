package server

import (
	"fmt"
	"strconv"

	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/VictoriaMetrics/metrics"
)

// NewStoreServerAdapter creates the adapter that executes commands against s.
// onExit is called for every Exit command; if it is nil Exit commands are rejected.
func NewStoreServerAdapter(s store.IStore, onExit func()) IRPCServerAdapter {
	return &storeServerAdapterImpl{
		store:  s,
		onExit: onExit,
	}
}

type storeServerAdapterImpl struct {
	store  store.IStore
	onExit func()
}

func (adapter *storeServerAdapterImpl) Handle(req *common.Message) (*common.Message, error) {
	if req == nil {
		return nil, store.NewError(store.RetCProtocolError, "handler: request is nil")
	}

	metrics.GetOrCreateCounter(fmt.Sprintf(`rkv_commands_total{type=%q}`, req.MsgType)).Inc()
	resp := adapter.handle(req)
	if resp != nil && resp.MsgType == common.MsgTError {
		metrics.GetOrCreateCounter(fmt.Sprintf(`rkv_command_errors_total{type=%q}`, req.MsgType)).Inc()
	}
	return resp, nil
}

func (adapter *storeServerAdapterImpl) handle(req *common.Message) *common.Message {
	// Check for nil store
	if adapter.store == nil {
		return common.NewErrorResponse(store.NewError(store.RetCInternalError, "handler: store is nil"))
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTPing:
		return common.NewPingResponse()

	case common.MsgTSet:
		if err := req.Validate(); err != nil {
			return common.NewErrorResponse(err)
		}
		err := adapter.store.Set(req.Keys[0], req.GetValue())
		return common.NewSetResponse(err)

	case common.MsgTGet:
		if err := req.Validate(); err != nil {
			return common.NewErrorResponse(err)
		}
		val, ok, err := adapter.store.Get(req.Keys[0])
		return common.NewGetResponse(val, ok, err)

	case common.MsgTDel:
		if err := req.Validate(); err != nil {
			return common.NewErrorResponse(err)
		}
		removed, err := adapter.store.Delete(req.Keys...)
		return common.NewDelResponse(removed, err)

	case common.MsgTExit:
		if adapter.onExit == nil {
			return common.NewErrorResponse(store.NewError(store.RetCInvalidOperation, "exit is disabled"))
		}
		adapter.onExit()
		return nil

	case common.MsgTIllegal:
		return common.NewEmptyResponse()

	default:
		return common.NewErrorResponse(store.NewError(
			store.RetCProtocolError,
			"RPC StoreAdapter - Unsupported message type: "+strconv.Quote(req.MsgType.String()),
		))
	}
}
