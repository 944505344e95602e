package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Status is the canonical lifecycle state of a task.
type Status string

// Canonical task statuses.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Priority is the canonical priority of a task.
type Priority string

// Canonical task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Valid reports whether p is one of the canonical priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the human-readable display label for the status.
// Labels are the Portuguese forms the API has always served.
func (s Status) Label() string {
	return statusLabels[s]
}

// Label returns the human-readable display label for the priority.
func (p Priority) Label() string {
	return priorityLabels[p]
}

var statusLabels = map[Status]string{
	StatusPending:    "Pendente",
	StatusInProgress: "Em progresso",
	StatusCompleted:  "Concluído",
}

var priorityLabels = map[Priority]string{
	PriorityHigh:   "Alta",
	PriorityMedium: "Média",
	PriorityLow:    "Baixa",
}

// statusSynonyms maps normalized input forms to canonical statuses.
// Both the canonical English identifiers and the Portuguese display
// labels (with common spelling variants) are accepted.
var statusSynonyms = map[string]Status{
	"pending":      StatusPending,
	"pendente":     StatusPending,
	"em progresso": StatusInProgress,
	"em_progresso": StatusInProgress,
	"em-progresso": StatusInProgress,
	"in_progress":  StatusInProgress,
	"in progress":  StatusInProgress,
	"inprogresso":  StatusInProgress,
	"completed":    StatusCompleted,
	"concluido":    StatusCompleted,
}

var prioritySynonyms = map[string]Priority{
	"high":   PriorityHigh,
	"alta":   PriorityHigh,
	"medium": PriorityMedium,
	"media":  PriorityMedium,
	"low":    PriorityLow,
	"baixa":  PriorityLow,
}

// NormalizeLabel canonicalizes free-form textual input for synonym lookup:
// diacritics are stripped, the result is lower-cased, internal whitespace is
// collapsed to single spaces, and the value is trimmed.
func NormalizeLabel(value string) string {
	decomposed := norm.NFD.String(value)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// ResolveStatus maps free-form status input to its canonical value.
// The second return value is false when the input is not recognized.
// Empty input is treated as "not provided", also returning false.
func ResolveStatus(value string) (Status, bool) {
	if value == "" {
		return "", false
	}
	status, ok := statusSynonyms[NormalizeLabel(value)]
	return status, ok
}

// ResolvePriority maps free-form priority input to its canonical value.
// The second return value is false when the input is not recognized.
func ResolvePriority(value string) (Priority, bool) {
	if value == "" {
		return "", false
	}
	priority, ok := prioritySynonyms[NormalizeLabel(value)]
	return priority, ok
}
