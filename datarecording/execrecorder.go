package datarecording

import (
	"os"
	"strings"
	"sync"
	"time"
)

// ExecInfoTable is the table that describes the recorded execution.
const ExecInfoTable = "exec_info"

// ExecInfo is an entry of the exec_info table.
type ExecInfo struct {
	Property string
	Value    string
}

// execRecorder collects the properties of the current execution and writes
// them when the recorder closes.
type execRecorder struct {
	lock     sync.Mutex
	recorder DataRecorder
	entries  []ExecInfo
	ended    bool
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{recorder: recorder}
	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return e
}

// Start records the start time, the command line, and the working directory.
func (e *execRecorder) Start() {
	e.Set("Start Time", now())
	e.Set("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Set("Working Directory", cwd)
}

// Set adds a property. Properties are kept in the order they are set.
func (e *execRecorder) Set(property, value string) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.entries = append(e.entries, ExecInfo{property, value})
}

// End inserts all the properties together with the end time. Only the first
// call has an effect.
func (e *execRecorder) End() {
	e.lock.Lock()
	if e.ended {
		e.lock.Unlock()
		return
	}

	e.ended = true
	entries := append(e.entries, ExecInfo{"End Time", now()})
	e.entries = nil
	e.lock.Unlock()

	for _, entry := range entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
