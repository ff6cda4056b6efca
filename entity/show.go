package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type ShowStatus string

const (
	ShowStatusPublished ShowStatus = "published"
	ShowStatusCancelled ShowStatus = "cancelled"
	ShowStatusFinished  ShowStatus = "finished"
)

const MaxShowTitleLength = 150

type Show struct {
	ID                string
	Title             string
	Date              time.Time
	MaxTicketsPerUser int
	Status            ShowStatus
	CreatedAt         time.Time

	// Version is bumped by the storage on every write and compared on commit.
	Version int
}

func NewShow(title string, date time.Time, maxTicketsPerUser int, now time.Time) (*Show, error) {
	title = strings.TrimSpace(title)

	v := Validator{}
	v.Check(title != "", "title", "Show title cannot be empty.")
	v.Check(utf8.RuneCountInString(title) <= MaxShowTitleLength, "title", "Show title cannot be longer than 150 characters.")
	if date.IsZero() {
		v.Check(false, "date", "Show date is required.")
	} else {
		v.Check(date.After(now), "date", "Show date must be in the future.")
	}
	v.Check(maxTicketsPerUser > 0, "max_tickets_per_user", "Max tickets per user must be greater than zero.")

	if err := v.Err(); err != nil {
		return nil, err
	}

	return &Show{
		ID:                uuid.NewString(),
		Title:             title,
		Date:              date.UTC(),
		MaxTicketsPerUser: maxTicketsPerUser,
		Status:            ShowStatusPublished,
		CreatedAt:         now.UTC(),
	}, nil
}

func (s *Show) CanSellTickets(now time.Time) bool {
	return s.Status == ShowStatusPublished && s.Date.After(now)
}

// Cancel can be repeated on an already cancelled show.
func (s *Show) Cancel() error {
	if s.Status == ShowStatusFinished {
		return NewConflictError("Cannot cancel a show that has already finished.")
	}

	s.Status = ShowStatusCancelled
	return nil
}

func (s *Show) Finish(now time.Time) error {
	if now.Before(s.Date) {
		return NewValidationError("date", "Cannot finish a show before its date.")
	}

	switch s.Status {
	case ShowStatusCancelled:
		return NewConflictError("Cannot finish a show that has been cancelled.")
	case ShowStatusFinished:
		return nil
	}

	s.Status = ShowStatusFinished
	return nil
}
