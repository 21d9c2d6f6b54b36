package serializer

import (
	"bytes"
	"fmt"

	"github.com/ValentinKolb/rKV/rpc/common"
	"github.com/tidwall/resp"
)

// NewRESPSerializer creates a new serializer using the Redis serialization protocol
func NewRESPSerializer() IRPCSerializer {
	return &respSerializerImpl{}
}

// respSerializerImpl implements IRPCSerializer using RESP arrays
//
// A message is one array of bulk strings:
//
//	[type, value, err, key1, key2, ...]
//
// where type is the lower case MessageType name and value/err are null bulk strings when absent.
type respSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (r respSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	vals := make([]resp.Value, 0, 3+len(msg.Keys))
	vals = append(vals, resp.StringValue(msg.MsgType.String()))

	if msg.Value != nil {
		vals = append(vals, resp.StringValue(*msg.Value))
	} else {
		vals = append(vals, resp.NullValue())
	}

	if msg.Err != "" {
		vals = append(vals, resp.StringValue(msg.Err))
	} else {
		vals = append(vals, resp.NullValue())
	}

	for _, key := range msg.Keys {
		vals = append(vals, resp.StringValue(key))
	}

	return resp.ArrayValue(vals).MarshalRESP()
}

func (r respSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	rd := resp.NewReader(bytes.NewReader(b))
	v, _, err := rd.ReadValue()
	if err != nil {
		return fmt.Errorf("invalid resp data: %w", err)
	}
	if v.Type() != resp.Array {
		return fmt.Errorf("expected resp array, got %v", v.Type())
	}

	items := v.Array()
	if len(items) < 3 {
		return fmt.Errorf("resp array too short: %d elements", len(items))
	}

	msgType, err := common.ParseMessageType(items[0].String())
	if err != nil {
		return err
	}

	*msg = common.Message{MsgType: msgType}
	if !items[1].IsNull() {
		value := items[1].String()
		msg.Value = &value
	}
	if !items[2].IsNull() {
		msg.Err = items[2].String()
	}
	if len(items) > 3 {
		msg.Keys = make([]string, 0, len(items)-3)
		for _, item := range items[3:] {
			msg.Keys = append(msg.Keys, item.String())
		}
	}
	return nil
}
