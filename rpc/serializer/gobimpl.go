package serializer

import (
	"bytes"
	"encoding/gob"

	"github.com/ValentinKolb/rKV/rpc/common"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IRPCSerializer interface using gob encoding
type gobSerializerImpl struct {
}

// gobMessage is the wire form of common.Message.
// gob drops zero values behind pointers, so an empty value needs the explicit HasValue flag.
type gobMessage struct {
	MsgType  common.MessageType
	Keys     []string
	Value    string
	HasValue bool
	Err      string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	wire := gobMessage{
		MsgType: msg.MsgType,
		Keys:    msg.Keys,
		Err:     msg.Err,
	}
	if msg.Value != nil {
		wire.Value = *msg.Value
		wire.HasValue = true
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(wire); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	var wire gobMessage
	dec := gob.NewDecoder(bytes.NewBuffer(b))
	if err := dec.Decode(&wire); err != nil {
		return err
	}

	*msg = common.Message{
		MsgType: wire.MsgType,
		Keys:    wire.Keys,
		Err:     wire.Err,
	}
	if wire.HasValue {
		value := wire.Value
		msg.Value = &value
	}
	return nil
}
