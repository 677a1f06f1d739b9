package types

// RemoteParticipant 远端参与者公告的完整实体集合
//
// 每次收到新公告时整体替换（后写者胜，无版本号）。
type RemoteParticipant struct {
	Entities []Entity
}

// Has 是否公告了指定实体
func (p RemoteParticipant) Has(e Entity) bool {
	for _, ent := range p.Entities {
		if ent == e {
			return true
		}
	}
	return false
}

// Clone 返回深拷贝
func (p RemoteParticipant) Clone() RemoteParticipant {
	if p.Entities == nil {
		return RemoteParticipant{}
	}
	entities := make([]Entity, len(p.Entities))
	copy(entities, p.Entities)
	return RemoteParticipant{Entities: entities}
}
