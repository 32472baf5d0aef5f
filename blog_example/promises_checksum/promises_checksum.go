package main

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/garlicnation/event"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/pkg/errors"
)

// fileResult is sent from the reading goroutines back to main, which is the
// only goroutine that touches the promises and the emitter.
type fileResult struct {
	index    int
	contents []byte
	err      error
}

func readFile(index int, name string, results chan<- fileResult) {
	contents, err := os.ReadFile(name)
	if err != nil {
		err = errors.Wrapf(err, "reading %s", name)
	}
	results <- fileResult{index: index, contents: contents, err: err}
}

func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: promises_checksum FILE...")
		os.Exit(2)
	}

	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()

	// Record the start time of the program so that we can figure out how fast
	// it runs.
	start := time.Now()

	emitter := event.NewEmitter(event.WithLogger(logger))
	emitter.On("file.read", func(args ...any) bool {
		logger.Info().
			Str("file", args[0].(string)).
			Int("bytes", args[1].(int)).
			Log("file read")
		return true
	})
	emitter.On("checksum", func(args ...any) bool {
		fmt.Println(args[0])
		return true
	})
	emitter.On("failed", func(args ...any) bool {
		fmt.Fprintf(os.Stderr, "Error in read: %v\n", args[0])
		return true
	})

	pending := make([]*event.Promise, len(files))
	for i := range files {
		pending[i] = event.New(nil, event.WithLogger(logger))
	}

	reads := make([]*event.Promise, len(files))
	for i, name := range files {
		reads[i] = pending[i].Then(func(v any) (any, error) {
			contents := v.([]byte)
			emitter.Emit("file.read", name, len(contents))
			return contents, nil
		}, nil)
	}

	failed := false
	event.All(reads...).Then(func(v any) (any, error) {
		contents := []byte{}
		for _, c := range v.([]any) {
			contents = append(contents, c.([]byte)...)
		}
		// Calculate a checksum of the files
		checksum := sha512.Sum512(contents)
		emitter.Emit("checksum", hex.EncodeToString(checksum[:]))
		return nil, nil
	}, nil).Catch(func(reason any) (any, error) {
		failed = true
		emitter.Emit("failed", reason)
		return nil, nil
	})

	results := make(chan fileResult)
	for i, name := range files {
		go readFile(i, name, results)
	}
	for range files {
		r := <-results
		if r.err != nil {
			_ = pending[r.index].Reject(r.err.Error())
			continue
		}
		_ = pending[r.index].Fulfill(r.contents)
	}

	// All done, record the time again.
	end := time.Now()
	fmt.Printf("took %f seconds\n", end.Sub(start).Seconds())

	if failed {
		os.Exit(1)
	}
}
