package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/rKV/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
//
// Layout:
//   - 1 byte: MsgType
//   - 1 byte: flags
//   - if hasKeys:  4 bytes key count, then per key 4 bytes length + key bytes
//   - if hasValue: 4 bytes length + value bytes
//   - if hasErr:   4 bytes length + error bytes
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKeys  byte = 1 << 0
	hasValue byte = 1 << 1
	hasErr   byte = 1 << 2
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := 2 // Start after MsgType and flags

	// Handle Keys
	if len(msg.Keys) > 0 {
		flags |= hasKeys
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Keys)))
		pos += 4
		for _, key := range msg.Keys {
			pos = putBytes(result, pos, key)
		}
	}

	// Handle Value
	if msg.Value != nil {
		flags |= hasValue
		pos = putBytes(result, pos, *msg.Value)
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		pos = putBytes(result, pos, msg.Err)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result[:pos], nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := data[1]
	if flags&^(hasKeys|hasValue|hasErr) != 0 {
		return fmt.Errorf("unknown flags 0x%02x", flags)
	}

	// Initialize read position
	pos := 2

	// Read Keys if present
	msg.Keys = nil
	if flags&hasKeys != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for key count")
		}
		count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		// every key needs at least its 4 byte length prefix
		if count > (len(data)-pos)/4 {
			return fmt.Errorf("data too short for %d keys", count)
		}

		msg.Keys = make([]string, 0, count)
		for i := 0; i < count; i++ {
			key, next, err := readBytes(data, pos, "key")
			if err != nil {
				return err
			}
			msg.Keys = append(msg.Keys, key)
			pos = next
		}
	}

	// Read Value if present
	msg.Value = nil
	if flags&hasValue != 0 {
		value, next, err := readBytes(data, pos, "value")
		if err != nil {
			return err
		}
		msg.Value = &value
		pos = next
	}

	// Read Err if present
	msg.Err = ""
	if flags&hasErr != 0 {
		errStr, next, err := readBytes(data, pos, "error")
		if err != nil {
			return err
		}
		msg.Err = errStr
		pos = next
	}

	if pos != len(data) {
		return fmt.Errorf("%d trailing bytes after message", len(data)-pos)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	// Add sizes for fields that require length encoding
	if len(msg.Keys) > 0 {
		size += 4 // key count
		for _, key := range msg.Keys {
			size += 4 + len(key) // 4 bytes for length + key string
		}
	}
	if msg.Value != nil {
		size += 4 + len(*msg.Value) // 4 bytes for length + value string
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}

	return size
}

// putBytes writes a length prefixed string at pos and returns the next position
func putBytes(dst []byte, pos int, s string) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(s)))
	pos += 4
	copy(dst[pos:pos+len(s)], s)
	return pos + len(s)
}

// readBytes reads a length prefixed string at pos and returns it with the next position
func readBytes(data []byte, pos int, field string) (string, int, error) {
	if pos+4 > len(data) {
		return "", 0, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if n > len(data)-pos {
		return "", 0, fmt.Errorf("data too short for %s data", field)
	}
	return string(data[pos : pos+n]), pos + n, nil
}
