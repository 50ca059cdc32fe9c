package node

import "strconv"

// Handle addresses a node in an Arena. The zero Handle is never valid.
//
// The generation changes every time a slot is reused, so a handle kept
// after its node was despawned never resolves to a different node.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	if h.IsZero() {
		return "none"
	}
	return strconv.FormatUint(uint64(h.Index), 10) + "v" + strconv.FormatUint(uint64(h.Generation), 10)
}
