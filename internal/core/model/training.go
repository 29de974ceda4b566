package model

type Training struct {
	Identity
	Audit
	Activity

	Focus string `json:"focus,omitempty"`
}

// Kind implements ActivityView.
func (t *Training) Kind() ActivityKind {
	return ActivityKindTraining
}

func (t *Training) Input() TrainingInput {
	return TrainingInput{
		ActivityInput: t.Activity.Input(),
		Focus:         t.Focus,
	}
}

var _ ActivityView = &Training{}

type TrainingInput struct {
	ActivityInput

	Focus string `json:"focus"`
}

func (in TrainingInput) Validate() error {
	return validateStruct(in)
}

type TrainingPatch struct {
	ActivityPatch

	Focus Optional[string] `json:"focus"`
}

func (p TrainingPatch) Apply(in *TrainingInput) {
	p.ActivityPatch.Apply(&in.ActivityInput)
	p.Focus.ApplyTo(&in.Focus)
}
