package gorm

import (
	"context"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
)

type Competition struct {
	Envelope
	ActivityColumns `gorm:"embedded"`

	VenueID  *uint
	Venue    *Venue  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	SeasonID uint    `gorm:"not null;index"`
	Season   *Season `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	Opponent  string
	ScoreHome *int
	ScoreAway *int
}

type CompetitionCoach struct {
	CompetitionID uint         `gorm:"primaryKey;autoIncrement:false"`
	Competition   *Competition `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CoachID       uint         `gorm:"primaryKey;autoIncrement:false;index"`
	Coach         *Coach       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Position      int          `gorm:"not null"`
}

type CompetitionAthlete struct {
	CompetitionID uint         `gorm:"primaryKey;autoIncrement:false"`
	Competition   *Competition `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AthleteID     uint         `gorm:"primaryKey;autoIncrement:false;index"`
	Athlete       *Athlete     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Position      int          `gorm:"not null"`
}

var (
	competitionCoaches  = linkTable{Table: "competition_coaches", Owner: "competition_id", Target: "coach_id", TargetTable: "coaches"}
	competitionAthletes = linkTable{Table: "competition_athletes", Owner: "competition_id", Target: "athlete_id", TargetTable: "athletes"}
)

func (c *Competition) venue() (**uint, *Venue) {
	return &c.VenueID, c.Venue
}

func (c *Competition) season() (*uint, *Season) {
	return &c.SeasonID, c.Season
}

func (c *Competition) toEntity() *model.Competition {
	competition := &model.Competition{
		Identity: c.identity(),
		Audit:    c.audit(),
		Activity: toActivity[Competition](c),
		Opponent: c.Opponent,
	}

	if c.ScoreHome != nil && c.ScoreAway != nil {
		competition.Score = &model.Score{
			Home: *c.ScoreHome,
			Away: *c.ScoreAway,
		}
	}

	return competition
}

func (c *Competition) toView() model.ActivityView {
	return c.toEntity()
}

func (c *Competition) write(res resolver, in model.CompetitionInput) error {
	if err := writeActivity[Competition](res, c, in.ActivityInput); err != nil {
		return errors.WithStack(err)
	}

	c.Venue = nil
	c.Season = nil
	c.Opponent = in.Opponent
	c.setScore(in.Score)

	return nil
}

func (c *Competition) setScore(score *model.Score) {
	if score == nil {
		c.ScoreHome = nil
		c.ScoreAway = nil
		return
	}

	home, away := score.Home, score.Away
	c.ScoreHome = &home
	c.ScoreAway = &away
}

func (c *Competition) exportFields() fixture.Fields {
	fields := fixture.Fields{
		"opponent":   c.Opponent,
		"score_home": fixture.OptionalValue(c.ScoreHome),
		"score_away": fixture.OptionalValue(c.ScoreAway),
	}
	c.Envelope.exportFields(fields)
	exportActivity[Competition](c, fields)
	return fields
}

func (c *Competition) importFields(key uint, fields fixture.Fields) error {
	if err := c.Envelope.importFields(key, fields); err != nil {
		return errors.WithStack(err)
	}

	if err := importActivity[Competition](c, fields); err != nil {
		return errors.WithStack(err)
	}

	var err error

	if c.Opponent, err = fields.String("opponent"); err != nil {
		return errors.WithStack(err)
	}

	if c.ScoreHome, err = fields.OptionalInt("score_home"); err != nil {
		return errors.WithStack(err)
	}

	if c.ScoreAway, err = fields.OptionalInt("score_away"); err != nil {
		return errors.WithStack(err)
	}

	if (c.ScoreHome == nil) != (c.ScoreAway == nil) {
		return errors.Wrap(fixture.ErrInvalidField, "'score_home' and 'score_away' must be set together")
	}

	return nil
}

type competitionCollection struct {
	*collection[Competition, *Competition, model.Competition, model.CompetitionInput, model.CompetitionPatch, port.ActivityFilter]
}

// ActivityPage implements port.ActivitySource.
func (c *competitionCollection) ActivityPage(ctx context.Context, filter port.ActivityFilter, after *port.ActivityCursor, limit int) ([]model.ActivityView, error) {
	return activityPage(ctx, c.collection, filter, after, limit, (*Competition).toView)
}

func newCompetitionCollection(store *Store) *competitionCollection {
	return &competitionCollection{
		newCollection[Competition, *Competition](store, collectionSpec[Competition, model.Competition, model.CompetitionInput, model.CompetitionPatch, port.ActivityFilter]{
			Name:      "competition",
			Preloads:  []string{"Venue", "Season"},
			Order:     activityOrder,
			ToEntity:  (*Competition).toEntity,
			ToInput:   (*model.Competition).Input,
			Write:     (*Competition).write,
			Filter:    activityFilter("competitions", competitionCoaches, competitionAthletes),
			Options:   activityOptions,
			Relations: activityLinks[Competition, *Competition]{coaches: competitionCoaches, athletes: competitionAthletes},
		}),
	}
}

var _ port.CompetitionActivityRepository = &competitionCollection{}
