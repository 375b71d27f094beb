package engine

import (
	"errors"
	"fmt"
)

// ErrClosed is returned for operations on a closed engine or session.
var ErrClosed = errors.New("engine: closed")

// Row is one fetched row.
type Row map[string]any

// FetchMode selects the shape of fetched rows.
type FetchMode uint8

const (
	// FetchAssoc keys each value by column name. It is the default.
	FetchAssoc FetchMode = iota
	// FetchNum keys each value by its column position ("0", "1", ...).
	FetchNum
	// FetchBoth keys each value by name and by position.
	FetchBoth
)

// Result is the outcome of one execution: rows and a count on success,
// or a *Error.
type Result struct {
	Query string
	Rows  []Row
	Count int64
	Err   error
}

// OK reports whether the execution succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Stage names the step an execution failed in.
type Stage uint8

const (
	StageBuild Stage = iota
	StageBind
	StagePrepare
	StageExecute
)

func (s Stage) String() string {
	switch s {
	case StageBuild:
		return "build"
	case StageBind:
		return "bind"
	case StagePrepare:
		return "prepare"
	case StageExecute:
		return "execute"
	default:
		return fmt.Sprintf("stage(%d)", s)
	}
}

// Error carries the failing stage and query alongside the driver error.
type Error struct {
	Stage Stage
	Query string
	Err   error
}

func (e *Error) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("engine: %s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("engine: %s failed for %q: %v", e.Stage, e.Query, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fatal reports whether the failure is a programming error (the statement
// could not be built or prepared) rather than a runtime condition.
func (e *Error) Fatal() bool {
	return e.Stage == StageBuild || e.Stage == StagePrepare
}

// IsFatal reports whether err is a fatal *Error.
func IsFatal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Fatal()
}
