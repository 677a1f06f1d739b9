package wire

import (
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-rtps/pkg/types"
)

// ============================================================================
//                              解码
// ============================================================================

// Decode 解码一个数据报
//
// 顶层必须恰好包含一个联合分支（participant_register 或 topic）。
func Decode(b []byte) (types.Message, error) {
	if len(b) == 0 {
		return nil, decodeError("empty datagram")
	}

	var (
		msg  types.Message
		seen bool
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeError("bad tag: %v", protowire.ParseError(n))
		}
		b = b[n:]

		if num != fieldParticipantRegister && num != fieldTopic {
			return nil, decodeError("unknown message field %d", num)
		}
		if typ != protowire.BytesType {
			return nil, decodeError("message field %d has wire type %d", num, typ)
		}
		if seen {
			return nil, decodeError("duplicate message variant")
		}
		seen = true

		body, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, decodeError("truncated message body: %v", protowire.ParseError(n))
		}
		b = b[n:]

		var err error
		switch num {
		case fieldParticipantRegister:
			msg, err = decodeParticipantRegister(body)
		case fieldTopic:
			msg, err = decodeTopic(body)
		}
		if err != nil {
			return nil, err
		}
	}
	if !seen {
		return nil, decodeError("missing message variant")
	}
	return msg, nil
}

// decodeParticipantRegister 解码公告，无实体时 Entities 为 nil
func decodeParticipantRegister(b []byte) (types.Message, error) {
	var entities []types.Entity
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num != fieldEntities {
			return nil
		}
		if typ != protowire.BytesType {
			return decodeError("entity field has wire type %d", typ)
		}
		e, err := decodeEntity(v)
		if err != nil {
			return err
		}
		entities = append(entities, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return types.ParticipantRegister{Participant: types.RemoteParticipant{Entities: entities}}, nil
}

func decodeEntity(b []byte) (types.Entity, error) {
	var (
		ent  types.Entity
		seen bool
	)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		var kind types.EntityKind
		switch num {
		case fieldWriter:
			kind = types.KindWriter
		case fieldReader:
			kind = types.KindReader
		default:
			return nil
		}
		if typ != protowire.BytesType {
			return decodeError("entity variant has wire type %d", typ)
		}
		if seen {
			return decodeError("duplicate entity variant")
		}
		seen = true
		topic, err := validString(v)
		if err != nil {
			return err
		}
		ent = types.Entity{Kind: kind, Topic: topic}
		return nil
	})
	if err != nil {
		return types.Entity{}, err
	}
	if !seen {
		return types.Entity{}, decodeError("missing entity variant")
	}
	return ent, nil
}

func decodeTopic(b []byte) (types.Message, error) {
	var td types.TopicData
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num != fieldTopicName && num != fieldTopicData {
			return nil
		}
		if typ != protowire.BytesType {
			return decodeError("topic field %d has wire type %d", num, typ)
		}
		s, err := validString(v)
		if err != nil {
			return err
		}
		if num == fieldTopicName {
			td.Topic = s
		} else {
			td.Data = s
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return td, nil
}

// walkFields 遍历嵌套记录的字段
//
// 字段值已按 wire type 消费，fn 不识别的字段直接忽略即可。
// 只有 BytesType 字段的原始值会传给 fn，其它类型传 nil。
func walkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return decodeError("bad tag: %v", protowire.ParseError(n))
		}
		b = b[n:]

		var v []byte
		if typ == protowire.BytesType {
			v, n = protowire.ConsumeBytes(b)
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return decodeError("truncated field %d: %v", num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}

func validString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", decodeError("invalid UTF-8 string")
	}
	return string(b), nil
}
