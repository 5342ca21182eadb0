package domain

import (
	"fmt"
	"strings"
	"unicode"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists the canonical statuses in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

var statusAliases = map[string]Status{
	"pendiente":   StatusPending,
	"pending":     StatusPending,
	"en progreso": StatusInProgress,
	"en proceso":  StatusInProgress,
	"in progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"completado":  StatusCompleted,
	"completed":   StatusCompleted,
	"complete":    StatusCompleted,
	"cancelado":   StatusCancelled,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
}

// ParseStatus accepts the stored sheet labels with or without their emoji
// prefix, the bare Spanish labels and the English names.
func ParseStatus(text string) (Status, error) {
	key := strings.ToLower(strings.TrimLeftFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	key = strings.TrimSpace(key)
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return StatusPending, fmt.Errorf("unknown status %q", text)
}

// Label is the text written to the requests table.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "⏳ Pendiente"
	case StatusInProgress:
		return "🕓 En progreso"
	case StatusCompleted:
		return "✅ Completado"
	case StatusCancelled:
		return "❌ Cancelado"
	default:
		return string(s)
	}
}

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return nil
	default:
		return fmt.Errorf("unsupported status %q", string(s))
	}
}

// Color is the hex colour presentation layers use for the status.
func (s Status) Color() string {
	switch s {
	case StatusPending:
		return "#F44336"
	case StatusInProgress:
		return "#FF9800"
	case StatusCompleted:
		return "#4CAF50"
	default:
		return "#9E9E9E"
	}
}

func (s Status) Icon() string {
	switch s {
	case StatusPending:
		return "🔴"
	case StatusInProgress:
		return "🟡"
	case StatusCompleted:
		return "🟢"
	default:
		return "⚪"
	}
}
