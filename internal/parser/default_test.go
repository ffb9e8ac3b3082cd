package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOnEmptyChain(t *testing.T) {
	sink := &recordingSink{}
	chain := New(sink)

	require.NoError(t, chain.Execute("oops"))
	require.Len(t, sink.published, 1)

	assert.Equal(t, Record{
		Type:    DefaultType,
		Message: "oops",
		Errors:  []FieldError{},
		Parsed:  true,
	}, sink.published[0])
}

func TestDefaultNeverCallsNext(t *testing.T) {
	called := false
	result := Default("x", func(err any) Result {
		called = true
		return Result{}
	})

	assert.False(t, called)
	assert.True(t, result.Resolved())
	assert.False(t, result.Record().Parsed, "only the chain marks records parsed")
}

func TestNormalize(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		raw  any
		want Record
	}{
		{
			name: "nil becomes extended info",
			raw:  nil,
			want: Record{Type: DefaultType, Message: DefaultMessage, Errors: []FieldError{}},
		},
		{
			name: "string becomes message",
			raw:  "oops",
			want: Record{Type: DefaultType, Message: "oops", Errors: []FieldError{}},
		},
		{
			name: "number becomes extended info",
			raw:  42,
			want: Record{Type: DefaultType, Message: DefaultMessage, ExtendedInfo: 42, Errors: []FieldError{}},
		},
		{
			name: "record keeps its fields",
			raw:  Record{Type: "App.Custom", Title: "Custom", Message: "custom"},
			want: Record{Type: "App.Custom", Title: "Custom", Message: "custom", Errors: []FieldError{}},
		},
		{
			name: "error keeps its message",
			raw:  cause,
			want: Record{Type: DefaultType, Message: cause.Error(), Detail: cause, Errors: []FieldError{}},
		},
		{
			name: "map fields are read",
			raw: map[string]any{
				"type":    "App.Remote",
				"message": "remote failure",
				"detail":  "abc",
				"errors": []any{
					map[string]any{"field": "email", "message": "required"},
				},
			},
			want: Record{
				Type:    "App.Remote",
				Message: "remote failure",
				Detail:  "abc",
				Errors:  []FieldError{{Field: "email", Message: "required"}},
			},
		},
		{
			name: "malformed errors are replaced",
			raw:  map[string]any{"errors": "not a list"},
			want: Record{Type: DefaultType, Message: DefaultMessage, Errors: []FieldError{}},
		},
		{
			name: "malformed error entries are replaced",
			raw:  map[string]any{"errors": []any{"bad"}},
			want: Record{Type: DefaultType, Message: DefaultMessage, Errors: []FieldError{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}
