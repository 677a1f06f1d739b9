package wire

import (
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-rtps/pkg/types"
)

// DefaultCapacity 默认数据报容量（字节）
const DefaultCapacity = 128

// 字段编号
const (
	fieldParticipantRegister protowire.Number = 1
	fieldTopic               protowire.Number = 2

	fieldEntities protowire.Number = 1

	fieldWriter protowire.Number = 1
	fieldReader protowire.Number = 2

	fieldTopicName protowire.Number = 1
	fieldTopicData protowire.Number = 2
)

// ============================================================================
//                              编码
// ============================================================================

// Encode 编码消息并检查容量
func Encode(msg types.Message, capacity int) ([]byte, error) {
	b, err := Marshal(msg)
	if err != nil {
		return nil, err
	}
	if len(b) > capacity {
		return nil, encodeTooLarge(len(b), capacity)
	}
	return b, nil
}

// Marshal 编码消息，不检查容量
func Marshal(msg types.Message) ([]byte, error) {
	switch m := msg.(type) {
	case types.ParticipantRegister:
		body, err := appendParticipant(nil, m.Participant)
		if err != nil {
			return nil, err
		}
		return appendBytesField(nil, fieldParticipantRegister, body), nil
	case types.TopicData:
		if !utf8.ValidString(m.Topic) || !utf8.ValidString(m.Data) {
			return nil, encodeError("topic and data must be valid UTF-8")
		}
		body := protowire.AppendTag(nil, fieldTopicName, protowire.BytesType)
		body = protowire.AppendString(body, m.Topic)
		body = protowire.AppendTag(body, fieldTopicData, protowire.BytesType)
		body = protowire.AppendString(body, m.Data)
		return appendBytesField(nil, fieldTopic, body), nil
	case nil:
		return nil, encodeError("nil message")
	default:
		return nil, encodeError("unsupported message type %T", msg)
	}
}

// Size 返回消息编码后的字节数
func Size(msg types.Message) (int, error) {
	b, err := Marshal(msg)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// CheckTopicData 检查一条主题数据能否装入容量
//
// 写者在入队时调用，使超限数据在 Write 处即报错，而不是在转发时被丢弃。
func CheckTopicData(topic, data string, capacity int) error {
	n, err := Size(types.TopicData{Topic: topic, Data: data})
	if err != nil {
		return err
	}
	if n > capacity {
		return encodeTooLarge(n, capacity)
	}
	return nil
}

func encodeTooLarge(n, capacity int) error {
	return &sizeError{size: n, capacity: capacity}
}

// sizeError 携带实际长度与容量，errors.Is 可匹配 ErrMessageTooLarge
type sizeError struct {
	size     int
	capacity int
}

func (e *sizeError) Error() string {
	return fmt.Sprintf("%v: %d > %d bytes", ErrMessageTooLarge, e.size, e.capacity)
}

func (e *sizeError) Unwrap() error { return ErrMessageTooLarge }

func appendParticipant(b []byte, p types.RemoteParticipant) ([]byte, error) {
	for _, e := range p.Entities {
		var num protowire.Number
		switch e.Kind {
		case types.KindWriter:
			num = fieldWriter
		case types.KindReader:
			num = fieldReader
		default:
			return nil, encodeError("entity with unknown kind %d", e.Kind)
		}
		if !utf8.ValidString(e.Topic) {
			return nil, encodeError("entity topic must be valid UTF-8")
		}
		ent := protowire.AppendTag(nil, num, protowire.BytesType)
		ent = protowire.AppendString(ent, e.Topic)
		b = appendBytesField(b, fieldEntities, ent)
	}
	return b, nil
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}
