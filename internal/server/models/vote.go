package models

import "time"

type Vote struct {
	ID        string
	Username  string
	TopicID   string
	OptionID  string
	CreatedAt time.Time
}

type OptionResult struct {
	OptionID string
	Label    string
	Votes    int
}

// TopicResults is the tally of a topic, one entry per option in topic order.
type TopicResults struct {
	TopicID string
	Stage   Stage
	Options []OptionResult
	Total   int
}

// Tally folds per-option counts into results ordered like t.Options.
// Counts for options the topic no longer has are ignored.
func Tally(t Topic, counts map[string]int) TopicResults {
	res := TopicResults{TopicID: t.ID, Stage: t.Stage, Options: make([]OptionResult, len(t.Options))}
	for i, o := range t.Options {
		n := counts[o.ID]
		res.Options[i] = OptionResult{OptionID: o.ID, Label: o.Label, Votes: n}
		res.Total += n
	}
	return res
}
