package schedule

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/graph"
)

// Hash returns a content hash of a task snapshot. Task order and dependency
// order both matter: they decide grouping, edge order and longest-path ties.
func Hash(tasks []graph.TaskNode) string {
	h := blake3.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}

	binary.BigEndian.PutUint64(buf[:], uint64(len(tasks)))
	h.Write(buf[:])
	for _, t := range tasks {
		writeString(t.ID)
		writeString(t.Name)
		writeString(string(t.Status))
		binary.BigEndian.PutUint64(buf[:], uint64(int64(t.Duration)))
		h.Write(buf[:])

		binary.BigEndian.PutUint64(buf[:], uint64(len(t.Dependencies)))
		h.Write(buf[:])
		for _, d := range t.Dependencies {
			writeString(d)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
