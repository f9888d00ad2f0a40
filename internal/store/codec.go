package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"taskflow/internal/task"
)

// ErrUnknownCommand is returned by DecodeCommand for unrecognized types.
var ErrUnknownCommand = errors.New("unknown command type")

// decodeList parses a persisted list. A record without an id or with an
// unknown status makes the whole value malformed. Duplicate ids keep the
// first occurrence; priorities are normalized.
func decodeList(data []byte) ([]task.Task, error) {
	var raw []task.Task
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	tasks := make([]task.Task, 0, len(raw))
	for i, t := range raw {
		if t.ID == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
		if !t.Status.Valid() {
			return nil, fmt.Errorf("record %d: invalid status %q", i, t.Status)
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		t.Normalize()
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type addPayload struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *task.Date `json:"dueDate,omitempty"`
	Priority    string     `json:"priority,omitempty"`
}

type updatePayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type statusPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type deletePayload struct {
	ID string `json:"id"`
}

// DecodeCommand decodes an action envelope of the form
// {"type": "ADD_TASK", "payload": {...}} into a Command.
func DecodeCommand(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}

	switch env.Type {
	case TypeAddTask:
		var p addPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		cmd := AddTask{Title: p.Title, Description: p.Description, DueDate: p.DueDate}
		if p.Priority != "" {
			prio, err := task.ParsePriority(p.Priority)
			if err != nil {
				return nil, err
			}
			cmd.Priority = prio
		}
		return cmd, nil

	case TypeUpdateTask:
		var p updatePayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return UpdateTask{ID: p.ID, Title: p.Title, Description: p.Description}, nil

	case TypeChangeStatus:
		var p statusPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		status, err := task.ParseStatus(p.Status)
		if err != nil {
			return nil, err
		}
		return ChangeStatus{ID: p.ID, Status: status}, nil

	case TypeDeleteTask:
		var p deletePayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return DeleteTask{ID: p.ID}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("parse command: missing payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse command payload: %w", err)
	}
	return nil
}
