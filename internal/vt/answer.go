package vt

import (
	"io"

	"go.uber.org/zap"

	"github.com/ptykit/ptyrun/internal/infrastructure/logging"
)

const esc = 0x1b

// maxParams bounds the bytes collected between "ESC [" and the final
// byte. Real status queries fit in a handful of bytes; anything longer
// is display traffic and is abandoned without a reply.
const maxParams = 32

// Detector states.
const (
	stateNormal = iota
	stateEscape
	stateCSI
)

// Answerer scans child output for terminal status queries and writes
// canned replies to the child's input side. It keeps no reference to
// the scanned chunks and never modifies them.
//
// Scan is not safe for concurrent use; exactly one relay owns it.
type Answerer struct {
	w        io.Writer
	log      *logging.Logger
	state    int
	params   []byte
	answered int
}

// NewAnswerer returns an Answerer that writes replies to w, normally
// the pty controller.
func NewAnswerer(w io.Writer, log *logging.Logger) *Answerer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Answerer{
		w:      w,
		log:    log,
		params: make([]byte, 0, maxParams),
	}
}

// Scan feeds a chunk of child output through the query detector.
// Sequences may span chunk boundaries.
func (a *Answerer) Scan(p []byte) {
	for _, b := range p {
		a.step(b)
	}
}

// Answered reports how many queries have been answered so far.
func (a *Answerer) Answered() int {
	return a.answered
}

func (a *Answerer) step(b byte) {
	// A fresh ESC restarts detection from any state, so a truncated
	// sequence cannot swallow the one that follows it.
	if b == esc {
		a.state = stateEscape
		return
	}

	switch a.state {
	case stateEscape:
		if b == '[' {
			a.state = stateCSI
			a.params = a.params[:0]
		} else {
			a.state = stateNormal
		}
	case stateCSI:
		switch {
		case b >= 0x40 && b <= 0x7e:
			// Final byte: 0x40-0x7E.
			a.answer(a.params, b)
			a.state = stateNormal
		case b < 0x20:
			// Control byte inside a sequence; not a query.
			a.state = stateNormal
		case len(a.params) >= maxParams:
			a.state = stateNormal
		default:
			// Parameter bytes 0x30-0x3F and intermediates 0x20-0x2F.
			a.params = append(a.params, b)
		}
	}
}

// answer writes the canned reply for a recognized query. Unrecognized
// sequences inject nothing.
func (a *Answerer) answer(params []byte, final byte) {
	var reply string
	switch final {
	case 'n':
		switch string(params) {
		case "6":
			// Cursor position report: claim home.
			reply = "\x1b[1;1R"
		case "5":
			// Device status: ready.
			reply = "\x1b[0n"
		}
	case 'c':
		switch string(params) {
		case "", "0":
			// Primary device attributes: VT100 with advanced video.
			reply = "\x1b[?1;2c"
		case ">", ">0":
			// Secondary device attributes.
			reply = "\x1b[>0;0;0c"
		}
	}

	if reply == "" {
		return
	}

	if _, err := a.w.Write([]byte(reply)); err != nil {
		a.log.Debug("query reply dropped", zap.Error(err))
		return
	}
	a.answered++
	a.log.Debug("answered terminal query",
		zap.String("query", string(params)+string(final)),
	)
}
