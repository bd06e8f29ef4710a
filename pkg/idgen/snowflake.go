// Package idgen 审计记录等本地数据的 Snowflake ID 生成
package idgen

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// Epoch 起始时间戳 (2024-01-01 00:00:00 UTC)，毫秒
	Epoch int64 = 1704067200000

	// 位数分配
	NodeIDBits   = 10 // 节点ID位数
	SequenceBits = 12 // 序列号位数

	MaxNodeID   = -1 ^ (-1 << NodeIDBits)   // 1023
	MaxSequence = -1 ^ (-1 << SequenceBits) // 4095

	NodeIDShift    = SequenceBits              // 12
	TimestampShift = SequenceBits + NodeIDBits // 22

	// 最大时间戳差值 (41位)
	maxTimestampDiff int64 = 1<<41 - 1

	// 时钟回拨最大容忍时间（毫秒），超过直接报错
	maxClockBackwardTolerance = 5

	// 等待下一毫秒时的休眠时间
	sleepDuration = 100 * time.Microsecond
)

var (
	// ErrInvalidNodeID 节点ID超出有效范围
	ErrInvalidNodeID = errors.New("invalid node id: must be between 0 and 1023")

	// ErrClockMovedBackwards 检测到时钟回拨
	ErrClockMovedBackwards = errors.New("clock moved backwards: refusing to generate id")

	// ErrTimestampOverflow 时间戳溢出
	ErrTimestampOverflow = errors.New("timestamp overflow: exceeds maximum allowed value")
)

// Generator ID生成器接口
type Generator interface {
	NextID() (ID, error)
}

// Snowflake Snowflake算法的ID生成器
//
// 线程安全：使用互斥锁保护，可在多个goroutine中并发调用
type Snowflake struct {
	mu sync.Mutex

	lastTimestamp int64
	sequence      int64

	// 预计算的节点部分
	nodePart int64

	// now 返回毫秒时间戳，测试时替换
	now func() int64
}

// NewSnowflake 创建生成器，nodeID 取值范围 [0, 1023]
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidNodeID, nodeID)
	}
	return &Snowflake{
		lastTimestamp: -1,
		nodePart:      nodeID << NodeIDShift,
		now:           func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// NextID 生成下一个唯一ID
//   - 单个实例每毫秒最多生成4096个ID，序列号耗尽时等待下一毫秒
//   - 时钟回拨不超过5ms时等待追上，否则返回 ErrClockMovedBackwards
func (s *Snowflake) NextID() (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamp := s.now()
	if timestamp < s.lastTimestamp {
		offset := s.lastTimestamp - timestamp
		if offset > maxClockBackwardTolerance {
			return 0, fmt.Errorf("%w: backward %dms", ErrClockMovedBackwards, offset)
		}
		timestamp = s.waitUntil(s.lastTimestamp)
	}

	timeDiff := timestamp - Epoch
	if timeDiff < 0 || timeDiff > maxTimestampDiff {
		return 0, fmt.Errorf("%w: timestamp %d", ErrTimestampOverflow, timestamp)
	}

	if timestamp == s.lastTimestamp {
		s.sequence = (s.sequence + 1) & MaxSequence
		if s.sequence == 0 {
			// 序列号溢出，等待下一毫秒
			timestamp = s.waitUntil(s.lastTimestamp + 1)
			timeDiff = timestamp - Epoch
		}
	} else {
		s.sequence = 0
	}
	s.lastTimestamp = timestamp

	return ID((timeDiff << TimestampShift) | s.nodePart | s.sequence), nil
}

// waitUntil 等待直到时间戳不小于 target
func (s *Snowflake) waitUntil(target int64) int64 {
	timestamp := s.now()
	for timestamp < target {
		time.Sleep(sleepDuration)
		timestamp = s.now()
	}
	return timestamp
}

// Parse 解析ID中的时间、节点ID和序列号
func Parse(id ID) (ts time.Time, nodeID int64, sequence int64) {
	v := int64(id)
	ts = time.UnixMilli((v >> TimestampShift) + Epoch)
	nodeID = (v >> NodeIDShift) & MaxNodeID
	sequence = v & MaxSequence
	return
}
