package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophvote/internal/common"
)

// Stage is the lifecycle phase of a topic. It is always derived from the
// clock and the topic window; the stored value is advisory only.
type Stage string

const (
	StageNotStarted Stage = "NOT_STARTED"
	StageInProgress Stage = "IN_PROGRESS"
	StageEnded      Stage = "ENDED"
)

const MaxOptionLabelLength = 64

// StageAt derives the stage of the window [startsAt, endsAt) at now.
func StageAt(now, startsAt, endsAt time.Time) Stage {
	switch {
	case now.Before(startsAt):
		return StageNotStarted
	case now.Before(endsAt):
		return StageInProgress
	default:
		return StageEnded
	}
}

type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type Topic struct {
	ID          string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Options     []Option
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Stage       Stage
}

// StageAt is the stage of t at now.
func (t Topic) StageAt(now time.Time) Stage {
	return StageAt(now, t.StartsAt, t.EndsAt)
}

// Refreshed returns a copy of t with Stage recomputed for now.
func (t Topic) Refreshed(now time.Time) Topic {
	t.Stage = t.StageAt(now)
	return t
}

func (t Topic) Option(id string) (Option, bool) {
	for _, o := range t.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// OptionInput describes an option in create and update requests. An empty
// ID means a new option.
type OptionInput struct {
	ID          string
	Label       string
	Description string
}

type TopicInput struct {
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Options     []OptionInput
}

// Validate rejects inverted windows, empty option lists and bad labels.
func (in TopicInput) Validate() error {
	if !in.StartsAt.Before(in.EndsAt) {
		return fmt.Errorf("%w: starts_at must be before ends_at", common.ErrValidation)
	}
	if len(in.Options) == 0 {
		return fmt.Errorf("%w: at least one option is required", common.ErrValidation)
	}
	for i, o := range in.Options {
		if n := utf8.RuneCountInString(o.Label); n < 1 || n > MaxOptionLabelLength {
			return fmt.Errorf("%w: option %d label must be 1-%d characters", common.ErrValidation, i, MaxOptionLabelLength)
		}
	}
	return nil
}

// NewTopic builds a topic from validated input. Every option gets a fresh
// identifier from newID and the stored stage starts at NOT_STARTED.
func NewTopic(in TopicInput, author string, now time.Time, newID func() string) (Topic, error) {
	if err := in.Validate(); err != nil {
		return Topic{}, err
	}

	options := make([]Option, len(in.Options))
	for i, o := range in.Options {
		options[i] = Option{ID: newID(), Label: o.Label, Description: o.Description}
	}

	return Topic{
		ID:          newID(),
		Description: in.Description,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Options:     options,
		CreatedBy:   author,
		CreatedAt:   now,
		UpdatedAt:   now,
		Stage:       StageNotStarted,
	}, nil
}

// ApplyTopicUpdate returns current with in applied. It fails with
// ErrEditWindowClosed once voting has opened and with ErrValidation on bad
// input; in both cases current is returned unchanged. Options whose ID
// matches an existing option keep it, the rest get one from newID.
func ApplyTopicUpdate(current Topic, in TopicInput, now time.Time, newID func() string) (Topic, error) {
	if stage := current.StageAt(now); stage != StageNotStarted {
		return current, fmt.Errorf("%w: topic is %s", common.ErrEditWindowClosed, stage)
	}
	if err := in.Validate(); err != nil {
		return current, err
	}

	known := make(map[string]bool, len(current.Options))
	for _, o := range current.Options {
		known[o.ID] = true
	}

	options := make([]Option, len(in.Options))
	for i, o := range in.Options {
		id := o.ID
		if !known[id] {
			id = newID()
		}
		// the same known ID listed twice would break option uniqueness
		delete(known, id)
		options[i] = Option{ID: id, Label: o.Label, Description: o.Description}
	}

	next := current
	next.Description = in.Description
	next.StartsAt = in.StartsAt
	next.EndsAt = in.EndsAt
	next.Options = options
	next.UpdatedAt = now
	next.Stage = StageAt(now, in.StartsAt, in.EndsAt)
	return next, nil
}
