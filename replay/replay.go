// Package replay stores and replays sequences of actions.
//
// A recorded run is a text file with one JSON encoded action on each line.
// Blank lines and lines starting with // are ignored.
package replay

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"ltlmc/machine"
)

// Write the actions, one on each line
func Encode[A any](w io.Writer, actions []A) error {
	bw := bufio.NewWriter(w)
	for i, action := range actions {
		b, err := json.Marshal(action)
		if err != nil {
			return errors.Wrapf(err, "replay: unable to encode action %v", i)
		}
		bw.Write(b)
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "replay: unable to write actions")
}

// Read a recorded run
func Decode[A any](r io.Reader) ([]A, error) {
	lines := []string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "replay: unable to read actions")
	}

	actions := []A{}
	if err := json.Unmarshal([]byte("["+strings.Join(lines, ",")+"]"), &actions); err != nil {
		return nil, errors.Wrap(err, "replay: unable to decode actions")
	}
	return actions, nil
}

// Write the actions to a file
func WriteFile[A any](path string, actions []A) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "replay: unable to create file")
	}
	if err := Encode(f, actions); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "replay: unable to close file")
}

// Read the actions recorded in a file
func ReadFile[A any](path string) ([]A, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "replay: unable to open file")
	}
	defer f.Close()
	return Decode[A](f)
}

// Decode the recorded run and apply it to the initial state
func Replay[S any, A machine.Action[A], F any](m machine.Machine[S, A, F], initial S, r io.Reader) (S, []F, error) {
	actions, err := Decode[A](r)
	if err != nil {
		return initial, nil, err
	}
	return machine.ApplyActions(m, initial, actions)
}
