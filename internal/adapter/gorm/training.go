package gorm

import (
	"context"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
)

type Training struct {
	Envelope
	ActivityColumns `gorm:"embedded"`

	VenueID  *uint
	Venue    *Venue  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	SeasonID uint    `gorm:"not null;index"`
	Season   *Season `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	Focus string
}

type TrainingCoach struct {
	TrainingID uint      `gorm:"primaryKey;autoIncrement:false"`
	Training   *Training `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CoachID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	Coach      *Coach    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Position   int       `gorm:"not null"`
}

type TrainingAthlete struct {
	TrainingID uint      `gorm:"primaryKey;autoIncrement:false"`
	Training   *Training `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AthleteID  uint      `gorm:"primaryKey;autoIncrement:false;index"`
	Athlete    *Athlete  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Position   int       `gorm:"not null"`
}

var (
	trainingCoaches  = linkTable{Table: "training_coaches", Owner: "training_id", Target: "coach_id", TargetTable: "coaches"}
	trainingAthletes = linkTable{Table: "training_athletes", Owner: "training_id", Target: "athlete_id", TargetTable: "athletes"}
)

func (t *Training) venue() (**uint, *Venue) {
	return &t.VenueID, t.Venue
}

func (t *Training) season() (*uint, *Season) {
	return &t.SeasonID, t.Season
}

func (t *Training) toEntity() *model.Training {
	return &model.Training{
		Identity: t.identity(),
		Audit:    t.audit(),
		Activity: toActivity[Training](t),
		Focus:    t.Focus,
	}
}

func (t *Training) toView() model.ActivityView {
	return t.toEntity()
}

func (t *Training) write(res resolver, in model.TrainingInput) error {
	if err := writeActivity[Training](res, t, in.ActivityInput); err != nil {
		return errors.WithStack(err)
	}

	t.Venue = nil
	t.Season = nil
	t.Focus = in.Focus

	return nil
}

func (t *Training) exportFields() fixture.Fields {
	fields := fixture.Fields{
		"focus": t.Focus,
	}
	t.Envelope.exportFields(fields)
	exportActivity[Training](t, fields)
	return fields
}

func (t *Training) importFields(key uint, fields fixture.Fields) error {
	if err := t.Envelope.importFields(key, fields); err != nil {
		return errors.WithStack(err)
	}

	if err := importActivity[Training](t, fields); err != nil {
		return errors.WithStack(err)
	}

	var err error
	if t.Focus, err = fields.String("focus"); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type trainingCollection struct {
	*collection[Training, *Training, model.Training, model.TrainingInput, model.TrainingPatch, port.ActivityFilter]
}

// ActivityPage implements port.ActivitySource.
func (c *trainingCollection) ActivityPage(ctx context.Context, filter port.ActivityFilter, after *port.ActivityCursor, limit int) ([]model.ActivityView, error) {
	return activityPage(ctx, c.collection, filter, after, limit, (*Training).toView)
}

func newTrainingCollection(store *Store) *trainingCollection {
	return &trainingCollection{
		newCollection[Training, *Training](store, collectionSpec[Training, model.Training, model.TrainingInput, model.TrainingPatch, port.ActivityFilter]{
			Name:      "training",
			Preloads:  []string{"Venue", "Season"},
			Order:     activityOrder,
			ToEntity:  (*Training).toEntity,
			ToInput:   (*model.Training).Input,
			Write:     (*Training).write,
			Filter:    activityFilter("trainings", trainingCoaches, trainingAthletes),
			Options:   activityOptions,
			Relations: activityLinks[Training, *Training]{coaches: trainingCoaches, athletes: trainingAthletes},
		}),
	}
}

var _ port.TrainingActivityRepository = &trainingCollection{}
