package help

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// IDGenerator is a Snowflake-like unique ID generator: a millisecond
// timestamp, a node ID and a per-millisecond sequence packed into one
// 64-bit integer. The host uses it to mint rpc.Connection IDs, a
// locally-unique identifier needed without a central allocator.
type IDGenerator struct {
	mutex    sync.Mutex
	epoch    int64
	nodeID   int64
	sequence int64
	lastTime int64
}

const (
	sequenceBits = 12
	nodeIDBits   = 10

	maxNodeID   = (1 << nodeIDBits) - 1
	maxSequence = (1 << sequenceBits) - 1

	nodeIDShift    = sequenceBits
	timestampShift = sequenceBits + nodeIDBits

	// 2020-01-01 00:00:00 UTC, in milliseconds.
	customEpoch = 1577836800000
)

var (
	defaultGenerator *IDGenerator
	once             sync.Once
)

// GetDefaultIDGenerator returns the process-wide default generator (node 1).
func GetDefaultIDGenerator() *IDGenerator {
	once.Do(func() {
		defaultGenerator = NewIDGenerator(1)
	})
	return defaultGenerator
}

// NewIDGenerator creates a new ID generator with the specified node ID.
func NewIDGenerator(nodeID int64) *IDGenerator {
	if nodeID < 0 || nodeID > maxNodeID {
		panic(fmt.Sprintf("node ID must be between 0 and %d", maxNodeID))
	}

	return &IDGenerator{
		epoch:  customEpoch,
		nodeID: nodeID,
	}
}

// GenerateID generates a new unique ID.
func (g *IDGenerator) GenerateID() uint64 {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	now := time.Now().UnixMilli()
	if now < g.lastTime {
		panic("clock moved backwards")
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			for now <= g.lastTime {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	timestamp := now - g.epoch
	return uint64((timestamp << timestampShift) | (g.nodeID << nodeIDShift) | g.sequence)
}

// GenerateIDString generates a new unique ID as a decimal string.
func (g *IDGenerator) GenerateIDString() string {
	return Uint64ToString(g.GenerateID())
}

// Uint64ToString formats a uint64 ID as a decimal string.
func Uint64ToString(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// StringToUint64 parses a decimal string back into a uint64 ID.
func StringToUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
