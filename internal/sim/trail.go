package sim

import "github.com/san-kum/nchain/internal/dynamo"

// trail is a fixed-capacity ring of tip positions, oldest first.
type trail struct {
	buf   []dynamo.Point
	start int
	size  int
}

func newTrail(capacity int) *trail {
	return &trail{buf: make([]dynamo.Point, capacity)}
}

func (t *trail) push(p dynamo.Point) {
	if len(t.buf) == 0 {
		return
	}
	if t.size < len(t.buf) {
		t.buf[(t.start+t.size)%len(t.buf)] = p
		t.size++
		return
	}
	t.buf[t.start] = p
	t.start = (t.start + 1) % len(t.buf)
}

func (t *trail) reset() {
	t.start, t.size = 0, 0
}

func (t *trail) len() int { return t.size }

// appendTo appends the points oldest first.
func (t *trail) appendTo(dst []dynamo.Point) []dynamo.Point {
	for i := 0; i < t.size; i++ {
		dst = append(dst, t.buf[(t.start+i)%len(t.buf)])
	}
	return dst
}
