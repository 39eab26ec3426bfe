package log

import (
	"time"

	"github.com/google/uuid"
)

// Run stamps the events of one reader or writer call with a shared run ID,
// operation, format and path.
type Run struct {
	logger  Logger
	id      string
	op      Operation
	format  string
	path    string
	started time.Time
}

// NewRun starts a run and emits its StageBegin event. A nil logger is
// replaced by NoopLogger.
func NewRun(logger Logger, op Operation, format, path string) *Run {
	if logger == nil {
		logger = NoopLogger{}
	}
	r := &Run{
		logger:  logger,
		id:      uuid.New().String(),
		op:      op,
		format:  format,
		path:    path,
		started: time.Now(),
	}
	r.emit(Event{Stage: StageBegin, Status: StatusStarted})
	return r
}

// ID returns the run ID.
func (r *Run) ID() string {
	return r.id
}

// Start records the start of a stage.
func (r *Run) Start(stage Stage) {
	r.emit(Event{Stage: stage, Status: StatusStarted})
}

// OK records the completion of a stage.
func (r *Run) OK(stage Stage) {
	r.emit(Event{Stage: stage, Status: StatusOK})
}

// Fail records the stage that aborted the run and returns err unchanged.
func (r *Run) Fail(stage Stage, kind string, err error) error {
	r.emit(Event{
		Stage:  stage,
		Status: StatusFailed,
		Error:  &ErrorEventData{Message: err.Error(), Kind: kind},
	})
	return err
}

// Notice records dropped input during a stage.
func (r *Run) Notice(stage Stage, n NoticeEvent) {
	r.emit(Event{Stage: stage, Status: StatusNotice, Notice: &n})
}

// Done emits the StageEnd event of a successful run.
func (r *Run) Done(summary SummaryEvent) {
	r.emit(Event{Stage: StageEnd, Status: StatusOK, Summary: &summary})
}

func (r *Run) emit(e Event) {
	now := time.Now()
	e.Timestamp = now
	e.RunID = r.id
	e.Operation = r.op
	e.Format = r.format
	e.Path = r.path
	e.Elapsed = now.Sub(r.started)
	r.logger.Log(e)
}
