// Package wire 实现数据报消息的二进制编解码
//
// 每个 UDP 数据报承载一条 types.Message。编码采用 protobuf 线格式
// （google.golang.org/protobuf/encoding/protowire），无需生成代码：
// 紧凑、确定、自描述（tag + wire type + varint 长度）。
//
// # 消息结构
//
//	Message             { oneof: 1 participant_register | 2 topic }
//	ParticipantRegister { repeated Entity entities = 1 }
//	Entity              { oneof: 1 writer (topic) | 2 reader (topic) }
//	Topic               { string topic = 1; string data = 2 }
//
// # 容量
//
// Encode 按调用方给定的容量（默认 128 字节）检查编码长度，
// 超出时返回 ErrMessageTooLarge，绝不截断。
//
// # 解码
//
// 顶层消息严格校验：未知 tag、缺失或重复的联合分支、截断字段、
// 非法 UTF-8 均返回 ErrDecodeFailure。嵌套记录中的未知字段被跳过，
// 以便后续版本追加字段。
//
// 线格式不区分 nil 与空切片：不含实体的公告解码后 Entities 为 nil。
package wire
