package db

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"topicwheel/internal/domain"
)

type participantRow struct {
	Key          string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Level        string `gorm:"not null"`
	Flow         string
	Topic        string
	OriginalIdea string
	ChosenAt     *time.Time
	DeadlineAt   *time.Time
	CompletedAt  *time.Time
	GitLink      string
}

func (participantRow) TableName() string { return "participants" }

// Timestamps are domain data, so gorm must not manage them.
type submissionRow struct {
	ID                string    `gorm:"primaryKey"`
	Owner             string    `gorm:"not null"`
	OwnerName         string    `gorm:"not null"`
	Text              string    `gorm:"not null"`
	Status            string    `gorm:"not null"`
	AdminComment      string
	ApprovedTopicText string
	CreatedAt         time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (submissionRow) TableName() string { return "submissions" }

type usedTopicsRow struct {
	Pool string `gorm:"primaryKey"`
	IDs  idList `gorm:"column:topic_ids;not null"`
}

func (usedTopicsRow) TableName() string { return "used_topics" }

const stateMetaID = 1

// stateMeta holds the aggregate version used for compare-and-swap saves.
type stateMeta struct {
	ID      uint   `gorm:"primaryKey;autoIncrement:false"`
	Version uint64 `gorm:"not null;default:0"`
}

func (stateMeta) TableName() string { return "state_meta" }

// idList is an ordered list of topic ids: text[] on postgres, the same array
// literal in a text column elsewhere.
type idList pq.StringArray

func (l idList) Value() (driver.Value, error) {
	if l == nil {
		l = idList{}
	}
	return pq.StringArray(l).Value()
}

func (l *idList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}

func (idList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func toParticipantRow(u *domain.User) participantRow {
	return participantRow{
		Key:          u.Key(),
		Name:         u.Name,
		Level:        u.Level.String(),
		Flow:         u.Flow.String(),
		Topic:        u.Topic,
		OriginalIdea: u.OriginalIdea,
		ChosenAt:     utcPtr(u.ChosenAt),
		DeadlineAt:   utcPtr(u.DeadlineAt),
		CompletedAt:  utcPtr(u.CompletedAt),
		GitLink:      u.GitLink,
	}
}

func (r participantRow) toDomain() *domain.User {
	return &domain.User{
		Name:         r.Name,
		Level:        domain.Level(r.Level),
		Flow:         domain.Flow(r.Flow),
		Topic:        r.Topic,
		OriginalIdea: r.OriginalIdea,
		ChosenAt:     utcPtr(r.ChosenAt),
		DeadlineAt:   utcPtr(r.DeadlineAt),
		CompletedAt:  utcPtr(r.CompletedAt),
		GitLink:      r.GitLink,
	}
}

func toSubmissionRow(s *domain.Submission) submissionRow {
	return submissionRow{
		ID:                s.ID,
		Owner:             s.Owner,
		OwnerName:         s.OwnerName,
		Text:              s.Text,
		Status:            s.Status.String(),
		AdminComment:      s.AdminComment,
		ApprovedTopicText: s.ApprovedTopicText,
		CreatedAt:         s.CreatedAt.UTC(),
		UpdatedAt:         s.UpdatedAt.UTC(),
	}
}

func (r submissionRow) toDomain() *domain.Submission {
	return &domain.Submission{
		ID:                r.ID,
		Owner:             r.Owner,
		OwnerName:         r.OwnerName,
		Text:              r.Text,
		Status:            domain.SubmissionStatus(r.Status),
		AdminComment:      r.AdminComment,
		ApprovedTopicText: r.ApprovedTopicText,
		CreatedAt:         r.CreatedAt.UTC(),
		UpdatedAt:         r.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
