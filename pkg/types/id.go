package types

import (
	"github.com/google/uuid"

	"github.com/dep2p/go-rtps/pkg/lib/log"
)

// shortIDLen ShortString 截取的长度
const shortIDLen = 8

// ParticipantID 本地参与者实例标识
//
// 仅用于日志与指标标签，不出现在线格式中；对端以单播地址识别彼此。
type ParticipantID uuid.UUID

// NewParticipantID 生成随机参与者标识
func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.New())
}

// ParseParticipantID 解析参与者标识
func ParseParticipantID(s string) (ParticipantID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ParticipantID{}, err
	}
	return ParticipantID(id), nil
}

// String 返回标准 UUID 字符串
func (id ParticipantID) String() string {
	return uuid.UUID(id).String()
}

// ShortString 返回前 8 个字符，用于日志
func (id ParticipantID) ShortString() string {
	return log.TruncateID(id.String(), shortIDLen)
}

// IsZero 是否为零值
func (id ParticipantID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}
