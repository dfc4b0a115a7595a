package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func validInput(start time.Time) TopicInput {
	return TopicInput{
		Description: "lunch",
		StartsAt:    start,
		EndsAt:      start.Add(time.Hour),
		Options: []OptionInput{
			{Label: "pizza", Description: "margherita"},
			{Label: "sushi"},
		},
	}
}

func TestStageAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want Stage
	}{
		{name: "well before", now: start.Add(-24 * time.Hour), want: StageNotStarted},
		{name: "just before start", now: start.Add(-time.Nanosecond), want: StageNotStarted},
		{name: "at start", now: start, want: StageInProgress},
		{name: "middle", now: start.Add(30 * time.Minute), want: StageInProgress},
		{name: "just before end", now: end.Add(-time.Nanosecond), want: StageInProgress},
		{name: "at end", now: end, want: StageEnded},
		{name: "after end", now: end.Add(time.Minute), want: StageEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StageAt(tt.now, start, end))
			// pure: asking twice yields the same answer
			assert.Equal(t, StageAt(tt.now, start, end), StageAt(tt.now, start, end))
		})
	}
}

func TestTopicInput_Validate(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	long := make([]rune, MaxOptionLabelLength+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name   string
		mutate func(in *TopicInput)
		ok     bool
	}{
		{name: "valid", mutate: func(in *TopicInput) {}, ok: true},
		{name: "equal bounds", mutate: func(in *TopicInput) { in.EndsAt = in.StartsAt }},
		{name: "inverted bounds", mutate: func(in *TopicInput) { in.EndsAt = in.StartsAt.Add(-time.Minute) }},
		{name: "no options", mutate: func(in *TopicInput) { in.Options = nil }},
		{name: "empty label", mutate: func(in *TopicInput) { in.Options[1].Label = "" }},
		{name: "label too long", mutate: func(in *TopicInput) { in.Options[0].Label = string(long) }},
		{name: "label at limit", mutate: func(in *TopicInput) { in.Options[0].Label = string(long[1:]) }, ok: true},
		{name: "multibyte label at limit", mutate: func(in *TopicInput) {
			r := make([]rune, MaxOptionLabelLength)
			for i := range r {
				r[i] = 'ж'
			}
			in.Options[0].Label = string(r)
		}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(start)
			tt.mutate(&in)
			err := in.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestNewTopic(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	topic, err := NewTopic(validInput(now.Add(-time.Hour)), "alice", now, seqIDs())
	require.NoError(t, err)

	assert.Equal(t, "id-3", topic.ID)
	assert.Equal(t, "alice", topic.CreatedBy)
	assert.Equal(t, now, topic.CreatedAt)
	assert.Equal(t, now, topic.UpdatedAt)
	// stored stage is advisory and always starts as NOT_STARTED
	assert.Equal(t, StageNotStarted, topic.Stage)
	assert.Equal(t, StageInProgress, topic.StageAt(now))

	require.Len(t, topic.Options, 2)
	assert.Equal(t, Option{ID: "id-1", Label: "pizza", Description: "margherita"}, topic.Options[0])
	assert.Equal(t, Option{ID: "id-2", Label: "sushi"}, topic.Options[1])

	_, err = NewTopic(TopicInput{StartsAt: now, EndsAt: now}, "alice", now, seqIDs())
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestApplyTopicUpdate_EditWindow(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	current, err := NewTopic(validInput(start), "alice", start.Add(-2*time.Hour), seqIDs())
	require.NoError(t, err)

	in := validInput(start.Add(time.Hour))
	in.Description = "dinner"

	for _, now := range []time.Time{start, start.Add(time.Minute), start.Add(time.Hour), start.Add(48 * time.Hour)} {
		got, err := ApplyTopicUpdate(current, in, now, seqIDs())
		require.ErrorIs(t, err, common.ErrEditWindowClosed, "now=%s", now)
		assert.Equal(t, current, got, "rejected update must not change the topic")
	}

	got, err := ApplyTopicUpdate(current, in, start.Add(-time.Nanosecond), seqIDs())
	require.NoError(t, err)
	assert.Equal(t, "dinner", got.Description)
}

func TestApplyTopicUpdate_Transform(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	created := start.Add(-2 * time.Hour)
	current, err := NewTopic(validInput(start), "alice", created, seqIDs())
	require.NoError(t, err)
	snapshot := current
	snapshot.Options = append([]Option(nil), current.Options...)

	now := start.Add(-time.Hour)
	in := TopicInput{
		Description: "dinner",
		StartsAt:    start.Add(time.Hour),
		EndsAt:      start.Add(3 * time.Hour),
		Options: []OptionInput{
			{ID: current.Options[1].ID, Label: "sushi rolls"},
			{ID: "forged", Label: "ramen"},
			{ID: current.Options[1].ID, Label: "sushi again"},
		},
	}

	ids := func() string { return "fresh" }
	got, err := ApplyTopicUpdate(current, in, now, ids)
	require.NoError(t, err)

	assert.Equal(t, current.ID, got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)
	assert.Equal(t, "dinner", got.Description)
	assert.Equal(t, StageNotStarted, got.Stage)
	assert.Equal(t, []Option{
		{ID: current.Options[1].ID, Label: "sushi rolls"},
		{ID: "fresh", Label: "ramen"},
		{ID: "fresh", Label: "sushi again"},
	}, got.Options)

	// the input topic is never mutated
	assert.Equal(t, snapshot, current)
}

func TestApplyTopicUpdate_InvalidInputRejectedWhole(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	current, err := NewTopic(validInput(start), "alice", start.Add(-2*time.Hour), seqIDs())
	require.NoError(t, err)

	in := validInput(start)
	in.Description = "changed"
	in.Options[0].Label = ""

	got, err := ApplyTopicUpdate(current, in, start.Add(-time.Hour), seqIDs())
	require.True(t, errors.Is(err, common.ErrValidation))
	assert.Equal(t, current, got)
}

func TestTopic_OptionAndRefreshed(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	topic, err := NewTopic(validInput(start), "alice", start, seqIDs())
	require.NoError(t, err)

	o, ok := topic.Option("id-2")
	require.True(t, ok)
	assert.Equal(t, "sushi", o.Label)

	_, ok = topic.Option("missing")
	assert.False(t, ok)

	assert.Equal(t, StageEnded, topic.Refreshed(start.Add(2*time.Hour)).Stage)
	assert.Equal(t, StageNotStarted, topic.Stage)
}
