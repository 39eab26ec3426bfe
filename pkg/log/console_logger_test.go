package log

import (
	"bytes"
	"errors"
	"testing"
)

func TestConsoleLoggerReadProgress(t *testing.T) {
	var buf bytes.Buffer
	run := NewRun(NewConsoleLogger(&buf), OperationRead, "yaml", "map.yaml")

	for _, st := range []Stage{StageOpenFile, StageReadConfiguration, StageReadRegisters} {
		run.Start(st)
		run.OK(st)
	}
	run.Done(SummaryEvent{})

	want := "Read 'map.yaml' CSR map file with yaml reader:\n" +
		"  Open file ... OK\n" +
		"  Read configuration ... OK\n" +
		"  Read registers ... OK\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestConsoleLoggerWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	run := NewRun(NewConsoleLogger(&buf), OperationWrite, "json", "out.json")

	run.Start(StagePrepareData)
	run.OK(StagePrepareData)
	run.Start(StageSaveData)
	_ = run.Fail(StageSaveData, "io", errors.New("permission denied"))

	want := "Write 'out.json' file with json writer:\n" +
		"  Prepare data ... OK\n" +
		"  Save data to file ... FAILED: permission denied\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestConsoleLoggerNotice(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf)

	logger.Log(Event{Stage: StageReadRegisters, Status: StatusNotice,
		Notice: &NoticeEvent{Message: `register "CTRL": dropped unknown key "size"`}})

	want := "  ! register \"CTRL\": dropped unknown key \"size\"\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
