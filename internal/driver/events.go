package driver

import "time"

// Stage names a step of resolving one unit.
type Stage string

const (
	// StageLoad reads the tree document from disk.
	StageLoad Stage = "load"
	// StageDecode decodes the document into a syntax tree.
	StageDecode Stage = "decode"
	// StageResolve builds the symbol table.
	StageResolve Stage = "resolve"
	// StageCache looks up or stores the result in the disk cache.
	StageCache Stage = "cache"
)

// Status is the state of a unit.
type Status string

const (
	// StatusQueued indicates the unit is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is inside Stage.
	StatusWorking Status = "working"
	// StatusDone indicates the unit resolved without errors.
	StatusDone Status = "done"
	// StatusError indicates the unit finished with error diagnostics.
	StatusError Status = "error"
)

// Event reports progress for a unit (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; units report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
