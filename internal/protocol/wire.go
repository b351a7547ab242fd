package protocol

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/JackWithOneEye/flowcanvas/internal/geom"
)

var ErrTooShort = errors.New("too short")

const (
	sizeF64   = 8
	sizeDelta = 2 * sizeF64
	sizeSize  = 2 * sizeF64
	sizeRect  = 4 * sizeF64

	// maxStr is the longest string a length byte can describe.
	maxStr = 255
)

type writer struct {
	b   []byte
	off int
}

func newWriter(n int) *writer {
	return &writer{b: make([]byte, n)}
}

func (w *writer) u8(v uint8) {
	w.b[w.off] = v
	w.off++
}

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) f64(v float64) {
	binary.BigEndian.PutUint64(w.b[w.off:], math.Float64bits(v))
	w.off += sizeF64
}

func (w *writer) str(s string) {
	w.u8(uint8(len(s)))
	w.off += copy(w.b[w.off:], s)
}

func (w *writer) delta(d geom.Delta) {
	w.f64(d.Left)
	w.f64(d.Top)
}

func (w *writer) size(s geom.Size) {
	w.f64(s.Width)
	w.f64(s.Height)
}

func (w *writer) rect(r geom.Rect) {
	w.f64(r.X)
	w.f64(r.Y)
	w.f64(r.Width)
	w.f64(r.Height)
}

// reader decodes fields in order. After the first short read every further
// read returns the zero value and err stays set.
type reader struct {
	b   []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.b)-r.off < n {
		r.err = ErrTooShort
		return nil
	}
	p := r.b[r.off : r.off+n]
	r.off += n
	return p
}

func (r *reader) u8() uint8 {
	p := r.take(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (r *reader) bool() bool {
	return r.u8() == 1
}

func (r *reader) f64() float64 {
	p := r.take(sizeF64)
	if p == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p))
}

func (r *reader) str() string {
	n := r.u8()
	return string(r.take(int(n)))
}

func (r *reader) delta() geom.Delta {
	return geom.Delta{Left: r.f64(), Top: r.f64()}
}

func (r *reader) size() geom.Size {
	return geom.Size{Width: r.f64(), Height: r.f64()}
}

func (r *reader) rect() geom.Rect {
	return geom.Rect{X: r.f64(), Y: r.f64(), Width: r.f64(), Height: r.f64()}
}
