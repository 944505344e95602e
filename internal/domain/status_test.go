package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase passthrough", input: "pending", expected: "pending"},
		{name: "uppercase", input: "PENDING", expected: "pending"},
		{name: "strips diacritics", input: "Concluído", expected: "concluido"},
		{name: "collapses inner whitespace", input: "Em   progresso", expected: "em progresso"},
		{name: "trims surrounding whitespace", input: "  Alta  ", expected: "alta"},
		{name: "mixed case with accents", input: "MÉDIA", expected: "media"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeLabel(tc.input))
		})
	}
}

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		ok       bool
	}{
		{input: "pending", expected: StatusPending, ok: true},
		{input: "Pendente", expected: StatusPending, ok: true},
		{input: "PENDENTE", expected: StatusPending, ok: true},
		{input: "in_progress", expected: StatusInProgress, ok: true},
		{input: "In Progress", expected: StatusInProgress, ok: true},
		{input: "Em progresso", expected: StatusInProgress, ok: true},
		{input: "em  progresso", expected: StatusInProgress, ok: true},
		{input: "completed", expected: StatusCompleted, ok: true},
		{input: "Concluído", expected: StatusCompleted, ok: true},
		{input: "concluido", expected: StatusCompleted, ok: true},
		{input: "done", ok: false},
		{input: "cancelled", ok: false},
		{input: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			status, ok := ResolveStatus(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, status)
			}
		})
	}
}

func TestResolvePriority(t *testing.T) {
	tests := []struct {
		input    string
		expected Priority
		ok       bool
	}{
		{input: "high", expected: PriorityHigh, ok: true},
		{input: "Alta", expected: PriorityHigh, ok: true},
		{input: "medium", expected: PriorityMedium, ok: true},
		{input: "Média", expected: PriorityMedium, ok: true},
		{input: "media", expected: PriorityMedium, ok: true},
		{input: "low", expected: PriorityLow, ok: true},
		{input: "BAIXA", expected: PriorityLow, ok: true},
		{input: "urgent", ok: false},
		{input: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			priority, ok := ResolvePriority(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, priority)
			}
		})
	}
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Pendente", StatusPending.Label())
	assert.Equal(t, "Em progresso", StatusInProgress.Label())
	assert.Equal(t, "Concluído", StatusCompleted.Label())
	assert.Equal(t, "Alta", PriorityHigh.Label())
	assert.Equal(t, "Média", PriorityMedium.Label())
	assert.Equal(t, "Baixa", PriorityLow.Label())
}

func TestLabelRoundTrip(t *testing.T) {
	// Every display label must resolve back to its canonical value.
	for status, label := range statusLabels {
		resolved, ok := ResolveStatus(label)
		assert.True(t, ok, "label %q did not resolve", label)
		assert.Equal(t, status, resolved)
	}
	for priority, label := range priorityLabels {
		resolved, ok := ResolvePriority(label)
		assert.True(t, ok, "label %q did not resolve", label)
		assert.Equal(t, priority, resolved)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("done").Valid())
	assert.False(t, Status("").Valid())
}
