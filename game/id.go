package game

import (
	"encoding/binary"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash"
)

var (
	idCounter atomic.Uint32
	hostTag   uint32
)

func init() {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	hostTag = uint32(xxhash.Sum64String(hostname))
}

// NewID returns a unique id for games created locally (shell, puzzles,
// the fen runner) rather than by a game service. It is the hex of a
// timestamp, a host tag, the pid and a counter.
func NewID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	binary.BigEndian.PutUint32(b[4:8], hostTag)
	binary.BigEndian.PutUint16(b[8:10], uint16(os.Getpid()))
	binary.BigEndian.PutUint16(b[10:12], uint16(idCounter.Add(1)))
	return hex.EncodeToString(b[:])
}
