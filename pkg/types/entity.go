package types

import "fmt"

// ============================================================================
//                              EntityKind - 实体方向
// ============================================================================

// EntityKind 实体方向
type EntityKind uint8

const (
	// KindUnknown 未知方向（零值，不会出现在合法实体中）
	KindUnknown EntityKind = iota
	// KindWriter 写者，向主题发布数据
	KindWriter
	// KindReader 读者，从主题接收数据
	KindReader
)

// String 返回实体方向的字符串表示
func (k EntityKind) String() string {
	switch k {
	case KindWriter:
		return "Writer"
	case KindReader:
		return "Reader"
	default:
		return "Unknown"
	}
}

// ============================================================================
//                              Entity - 实体身份
// ============================================================================

// Entity 本地或远端的 Writer/Reader 身份
//
// Entity 是不可变值类型，可直接比较、可作为 map 键。
// 两个实体按完整结构（方向 + 主题）判等。
type Entity struct {
	Kind  EntityKind
	Topic string
}

// Writer 构造 Writer(topic)
func Writer(topic string) Entity {
	return Entity{Kind: KindWriter, Topic: topic}
}

// Reader 构造 Reader(topic)
func Reader(topic string) Entity {
	return Entity{Kind: KindReader, Topic: topic}
}

// IsWriter 是否为写者
func (e Entity) IsWriter() bool { return e.Kind == KindWriter }

// IsReader 是否为读者
func (e Entity) IsReader() bool { return e.Kind == KindReader }

// Reverse 返回同主题的对端实体
//
// Writer(t) -> Reader(t)，Reader(t) -> Writer(t)。
// 用于查找对本地写者输出感兴趣的远端节点。
func (e Entity) Reverse() Entity {
	switch e.Kind {
	case KindWriter:
		return Reader(e.Topic)
	case KindReader:
		return Writer(e.Topic)
	default:
		return e
	}
}

// Complements 判断两个实体是否互补（同主题、一写一读）
func (e Entity) Complements(other Entity) bool {
	if e.Kind == KindUnknown || other.Kind == KindUnknown {
		return false
	}
	return e.Reverse() == other
}

// String 返回 "Writer(/topic)" 形式
func (e Entity) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Topic)
}
