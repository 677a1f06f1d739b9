// Package types 定义 go-rtps 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 与 internal/core/wire 的区别
//
// pkg/types 定义 Go 内存结构，
// internal/core/wire 定义这些结构在 UDP 数据报中的编码。
//
// # 文件组织
//
//   - entity.go      - EntityKind, Entity（Writer/Reader 身份）
//   - participant.go - RemoteParticipant（远端参与者公告的实体集合）
//   - message.go     - Message 联合类型, ParticipantRegister, TopicData, Envelope
//   - id.go          - ParticipantID（本地实例标识，基于 UUID）
package types
