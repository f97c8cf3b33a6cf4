// Package looptest provides scripted test doubles for the main-loop
// collaborator contracts.
package looptest

import (
	"sync"

	"github.com/plprobelab/go-threadloop/mainloop"
)

// ScriptedHandler is an IOHandler whose behaviour is scripted up front:
// a sequence of Prepare results, a number of pending read and write cycles
// and a sequence of readiness-wait results. Once a wait script is
// exhausted, the corresponding wait hook blocks until the handler is
// closed, then reports the terminal signal, mimicking an idle-blocked
// handler that honours cooperative stop.
type ScriptedHandler struct {
	name string

	mu         sync.Mutex
	fd         int
	hasFd      bool
	blocking   bool
	prepared   bool
	prepare    []mainloop.PrepareResult
	reads      int
	writes     int
	readWaits  []bool
	writeWaits []bool
	readErr    error
	writeErr   error

	prepareCalls int
	readCalls    int
	writeCalls   int
	closeCalls   int

	closed chan struct{}
}

var _ mainloop.IOHandler = (*ScriptedHandler)(nil)

func NewScriptedHandler(name string) *ScriptedHandler {
	return &ScriptedHandler{
		name:   name,
		closed: make(chan struct{}),
	}
}

func (h *ScriptedHandler) String() string {
	return h.name
}

// SetFd supplies the file descriptor reported by Fd.
func (h *ScriptedHandler) SetFd(fd int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fd = fd
	h.hasFd = true
}

// ScriptPrepare queues results returned by successive Prepare calls. Once
// the script is exhausted Prepare returns HandlerReady.
func (h *ScriptedHandler) ScriptPrepare(results ...mainloop.PrepareResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prepare = append(h.prepare, results...)
}

// QueueReads adds n pending read cycles; the handler reports Readable while
// prepared and cycles remain.
func (h *ScriptedHandler) QueueReads(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reads += n
}

// QueueWrites adds n pending write cycles.
func (h *ScriptedHandler) QueueWrites(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes += n
}

// ScriptReadWaits queues results returned by successive WaitForReadability
// calls.
func (h *ScriptedHandler) ScriptReadWaits(results ...bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readWaits = append(h.readWaits, results...)
}

// ScriptWriteWaits queues results returned by successive WaitForWritability
// calls.
func (h *ScriptedHandler) ScriptWriteWaits(results ...bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeWaits = append(h.writeWaits, results...)
}

// FailReads makes every HandleRead call return err.
func (h *ScriptedHandler) FailReads(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readErr = err
}

// FailWrites makes every HandleWrite call return err.
func (h *ScriptedHandler) FailWrites(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeErr = err
}

func (h *ScriptedHandler) Fd() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fd, h.hasFd
}

func (h *ScriptedHandler) SetBlocking(block bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blocking = block
	return nil
}

func (h *ScriptedHandler) Prepare() (mainloop.PrepareResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prepareCalls++

	var res mainloop.PrepareResult = mainloop.HandlerReady{}
	if len(h.prepare) > 0 {
		res = h.prepare[0]
		h.prepare = h.prepare[1:]
	}
	if _, ok := res.(mainloop.HandlerReady); ok {
		h.prepared = true
	}
	return res, nil
}

func (h *ScriptedHandler) Readable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.prepared && h.reads > 0
}

func (h *ScriptedHandler) Writable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writes > 0
}

func (h *ScriptedHandler) HandleRead() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readCalls++
	if h.reads > 0 {
		h.reads--
	}
	return h.readErr
}

func (h *ScriptedHandler) HandleWrite() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeCalls++
	if h.writes > 0 {
		h.writes--
	}
	return h.writeErr
}

func (h *ScriptedHandler) WaitForReadability() bool {
	h.mu.Lock()
	if len(h.readWaits) > 0 {
		res := h.readWaits[0]
		h.readWaits = h.readWaits[1:]
		h.mu.Unlock()
		return res
	}
	h.mu.Unlock()
	// idle-block until closed
	<-h.closed
	return false
}

func (h *ScriptedHandler) WaitForWritability() bool {
	h.mu.Lock()
	if len(h.writeWaits) > 0 {
		res := h.writeWaits[0]
		h.writeWaits = h.writeWaits[1:]
		h.mu.Unlock()
		return res
	}
	h.mu.Unlock()
	<-h.closed
	return false
}

func (h *ScriptedHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeCalls++
	if h.closeCalls == 1 {
		close(h.closed)
	}
	return nil
}

func (h *ScriptedHandler) PrepareCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.prepareCalls
}

func (h *ScriptedHandler) ReadCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.readCalls
}

func (h *ScriptedHandler) WriteCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writeCalls
}

func (h *ScriptedHandler) CloseCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeCalls
}

func (h *ScriptedHandler) Blocking() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.blocking
}
