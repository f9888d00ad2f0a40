package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"taskflow/internal/exitcode"
	"taskflow/internal/task"
)

// MinIDPrefix is the shortest id prefix accepted as a task reference.
const MinIDPrefix = 4

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTaskNotFound indicates no task matches the reference.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousRef indicates an id prefix matches more than one task.
	ErrAmbiguousRef = errors.New("ambiguous task reference")

	// ErrOutOfRange indicates a task number beyond the list.
	ErrOutOfRange = errors.New("task number out of range")
)

// ResolveTaskRef finds the task named by the first argument.
//
// Resolution rules:
//  1. All digits: 1-based position in tasks (the order `list` prints).
//  2. An exact id.
//  3. An id prefix of at least MinIDPrefix characters matching exactly one task.
func ResolveTaskRef(tasks []task.Task, args []string) (task.Task, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return task.Task{}, ErrTaskRefRequired
	}
	ref := strings.TrimSpace(args[0])

	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 || num > len(tasks) {
			return task.Task{}, fmt.Errorf("%w: %s", ErrOutOfRange, ref)
		}
		return tasks[num-1], nil
	}

	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}

	if len(ref) < MinIDPrefix {
		return task.Task{}, fmt.Errorf("invalid task reference: %s", ref)
	}

	var matches []task.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return task.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousRef, ref)
	}
}

// resolveRef resolves a reference against the store, printing any error.
func resolveRef(env *Env, args []string, errOut io.Writer) (task.Task, int) {
	t, err := ResolveTaskRef(env.Store.Tasks(), args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return task.Task{}, exitcode.UserError
	}
	return t, exitcode.Success
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
