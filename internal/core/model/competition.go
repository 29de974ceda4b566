package model

// Score is the final result of a competition from the club's point of view.
type Score struct {
	Home int `json:"home" validate:"gte=0"`
	Away int `json:"away" validate:"gte=0"`
}

type Competition struct {
	Identity
	Audit
	Activity

	Opponent string `json:"opponent,omitempty"`
	Score    *Score `json:"score,omitempty"`
}

// Kind implements ActivityView.
func (c *Competition) Kind() ActivityKind {
	return ActivityKindCompetition
}

func (c *Competition) Input() CompetitionInput {
	in := CompetitionInput{
		ActivityInput: c.Activity.Input(),
		Opponent:      c.Opponent,
	}
	if c.Score != nil {
		score := *c.Score
		in.Score = &score
	}
	return in
}

var _ ActivityView = &Competition{}

type CompetitionInput struct {
	ActivityInput

	Opponent string `json:"opponent"`
	Score    *Score `json:"score"`
}

func (in CompetitionInput) Validate() error {
	return validateStruct(in)
}

type CompetitionPatch struct {
	ActivityPatch

	Opponent Optional[string] `json:"opponent"`
	Score    Optional[*Score] `json:"score"`
}

func (p CompetitionPatch) Apply(in *CompetitionInput) {
	p.ActivityPatch.Apply(&in.ActivityInput)
	p.Opponent.ApplyTo(&in.Opponent)
	p.Score.ApplyTo(&in.Score)
}
