// Package xpander drives the [unace] command line program to expand, list or
// test ACE archives, tracking the state and the captured output of each archive.
//
// An archive is tracked by a [Job]. Jobs are collected by a [Controller] which
// hands a selection of them to a [Runner]. The runner processes the jobs one at
// a time on its own goroutine, one unace process per job, and reports every
// change through an [Observer].
//
//	func Expand(paths ...string) {
//	    c := xpander.NewController(xpander.NewRunner(nil), nil)
//	    ids := []uuid.UUID{}
//	    for _, path := range paths {
//	        id, err := c.Enqueue(path)
//	        if err != nil {
//	            fmt.Fprintf(os.Stderr, "error: %v\n", err)
//	            continue
//	        }
//	        ids = append(ids, id)
//	    }
//	    opts := xpander.Options{Command: xpander.Expand, ShowComments: true}
//	    if c.Start(context.Background(), opts, ids...) {
//	        c.Wait()
//	    }
//	}
//
// [unace]: https://www.winace.com/
package xpander

import (
	"errors"
)

const (
	// ExitSpawn is the exit code recorded for a process that could not be started.
	ExitSpawn = -1
	// Ext is the filename extension of an ACE archive.
	Ext = ".ace"
)

var (
	ErrBatchAborted = errors.New("batch aborted, no destination folder was chosen")
	ErrBusy         = errors.New("a batch is running")
	ErrCommand      = errors.New("unknown command")
	ErrDest         = errors.New("destination is empty")
	ErrInvalidState = errors.New("invalid job state")
	ErrJob          = errors.New("job does not exist")
	ErrPath         = errors.New("archive path is empty")
	ErrPolicy       = errors.New("unknown destination policy")
	ErrSpawn        = errors.New("program could not be started")
	ErrVersion      = errors.New("program did not print a version")
)
