package tree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Segment is one step of a field path: either a mapping key or a sequence
// index. Index segments are positional and not stable across reorderings.
type Segment struct {
	Key     string
	Pos     int
	IsIndex bool
}

// Path addresses a node inside a tree relative to its root. The zero value
// addresses the root itself.
type Path []Segment

// Child returns a new path extended by a mapping key segment.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Key: key})
}

// Index returns a new path extended by a sequence index segment.
func (p Path) Index(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Pos: i, IsIndex: true})
}

// Equal reports whether two paths address the same location.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the path in dotted form with bracketed indices, e.g.
// "server.listen[0].port". The root path renders as ".".
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var sb strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.Pos))
			sb.WriteByte(']')
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Key)
	}
	return sb.String()
}

func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// PathError reports a malformed tree together with the path at which the
// problem was found.
type PathError struct {
	Path   Path
	Reason string
}

func (e *PathError) Error() string {
	return "malformed tree at " + e.Path.String() + ": " + e.Reason
}

func (e *PathError) Unwrap() error {
	return ErrMalformed
}
