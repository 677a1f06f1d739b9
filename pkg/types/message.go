package types

import "net/netip"

// ============================================================================
//                              MessageKind - 消息类型
// ============================================================================

// MessageKind 数据报承载的消息类型
type MessageKind uint8

const (
	// MessageParticipantRegister 参与者公告
	MessageParticipantRegister MessageKind = iota + 1
	// MessageTopic 主题数据
	MessageTopic
)

// String 返回消息类型的字符串表示
func (k MessageKind) String() string {
	switch k {
	case MessageParticipantRegister:
		return "ParticipantRegister"
	case MessageTopic:
		return "Topic"
	default:
		return "Unknown"
	}
}

// Message 数据报消息（封闭联合类型）
//
// 只有本包内的 ParticipantRegister 与 TopicData 实现该接口。
type Message interface {
	Kind() MessageKind
	isMessage()
}

// ParticipantRegister 参与者公告，经发现通道发送
type ParticipantRegister struct {
	Participant RemoteParticipant
}

// Kind 实现 Message
func (ParticipantRegister) Kind() MessageKind { return MessageParticipantRegister }

func (ParticipantRegister) isMessage() {}

// TopicData 主题数据，经单播数据通道发送
type TopicData struct {
	Topic string
	Data  string
}

// Kind 实现 Message
func (TopicData) Kind() MessageKind { return MessageTopic }

func (TopicData) isMessage() {}

// Envelope 收到的消息及其来源地址
type Envelope struct {
	From    netip.AddrPort
	Message Message
}
