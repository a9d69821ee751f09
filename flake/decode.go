package flake

// Fields ID 的四个编码字段
type Fields struct {
	// Timestamp Unix 毫秒时间戳（42 bit）
	Timestamp int64

	// NodeID 节点 ID（5 bit）
	NodeID uint64

	// ThreadID 生成上下文 ID（5 bit）
	ThreadID uint64

	// Sequence 毫秒内序列号（12 bit）
	Sequence uint64
}

// Decode 将 64 位 ID 拆解为编码字段
func Decode(id uint64) Fields {
	return Fields{
		Timestamp: int64(id >> timestampShift),
		NodeID:    (id >> nodeShift) & nodeMask,
		ThreadID:  (id >> threadShift) & threadMask,
		Sequence:  id & sequenceMask,
	}
}

// Encode 按相同的位结构重新组装 ID
//
// 对 Decode 的结果调用 Encode 会精确还原原始 ID。
func (f Fields) Encode() uint64 {
	id := uint64(f.Timestamp) << timestampShift
	id |= (f.NodeID & nodeMask) << nodeShift
	id |= (f.ThreadID & threadMask) << threadShift
	id |= f.Sequence & sequenceMask
	return id
}
