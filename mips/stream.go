package mips

import "encoding/binary"

// InstStream is a stream of raw instruction words, decoded lazily from
// little-endian bytes in program order. It is single-consumer; use Peek
// for speculative reads.
type InstStream struct {
	b   []byte
	idx int // word index
}

// NewInstStream creates a stream over b. A partial trailing word is
// ignored.
func NewInstStream(b []byte) *InstStream {
	return &InstStream{b: b}
}

func (s *InstStream) wordAt(idx int) (uint32, bool) {
	off := idx * InstSize
	if off+InstSize > len(s.b) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(s.b[off:]), true
}

// Remaining returns the number of unread whole words.
func (s *InstStream) Remaining() int {
	return len(s.b)/InstSize - s.idx
}

// NextWord consumes the next raw word.
func (s *InstStream) NextWord() (uint32, bool) {
	word, ok := s.wordAt(s.idx)
	if !ok {
		return 0, false
	}
	s.idx++
	return word, true
}

// Next consumes and decodes the next word. The returned instruction is
// nil when the word has no recognized encoding.
func (s *InstStream) Next() (Inst, uint32, bool) {
	word, ok := s.NextWord()
	if !ok {
		return nil, 0, false
	}
	return Decode(word), word, true
}

// Peek opens a transactional view over the stream. Reads through the
// peeker leave the stream untouched until Commit.
func (s *InstStream) Peek() *Peeker {
	return &Peeker{stream: s, idx: s.idx}
}

// Peeker is a snapshot view over an InstStream. Reads advance only the
// snapshot; Commit applies them to the stream atomically, and dropping
// the peeker without committing reverts them.
type Peeker struct {
	stream *InstStream
	idx    int
}

// Next decodes the next word in the snapshot. The instruction is nil when
// the word has no recognized encoding.
func (p *Peeker) Next() (Inst, bool) {
	word, ok := p.stream.wordAt(p.idx)
	if !ok {
		return nil, false
	}
	p.idx++
	return Decode(word), true
}

// Commit applies the snapshot position to the underlying stream.
func (p *Peeker) Commit() {
	p.stream.idx = p.idx
}
