package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CardStatus string

const (
	StatusActive   CardStatus = "active"
	StatusComplete CardStatus = "complete"
	StatusStale    CardStatus = "stale"
)

var validStatuses = []CardStatus{StatusActive, StatusComplete, StatusStale}

type CardPriority string

const (
	PriorityLow    CardPriority = "low"
	PriorityMedium CardPriority = "medium"
	PriorityHigh   CardPriority = "high"
)

var validPriorities = []CardPriority{PriorityLow, PriorityMedium, PriorityHigh}

func AllStatuses() []CardStatus {
	return slices.Clone(validStatuses)
}

func AllPriorities() []CardPriority {
	return slices.Clone(validPriorities)
}

type Card struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date"`
	Status      CardStatus   `json:"status"`
	Priority    CardPriority `json:"priority"`
	Tags        []string     `json:"tags"`
	Comments    []string     `json:"comments"`
	CreatedAt   time.Time    `json:"created_at"`
	ModifiedAt  time.Time    `json:"modified_at"`
	CompletedAt *time.Time   `json:"completed_at"`
}

type CardInput struct {
	Name        string
	Description string
	DueDate     string
	Priority    CardPriority
	Tags        []string
}

func NewCard(in CardInput, now time.Time) (Card, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.DueDate = strings.TrimSpace(in.DueDate)

	if in.Name == "" {
		return Card{}, ErrInvalidName
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !slices.Contains(validPriorities, in.Priority) {
		return Card{}, ErrInvalidPriority
	}
	if in.DueDate == "" {
		in.DueDate = FieldNotSet
	}

	return Card{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      StatusActive,
		Priority:    in.Priority,
		Tags:        normalizeTags(in.Tags),
		Comments:    []string{},
		CreatedAt:   now.UTC(),
		ModifiedAt:  now.UTC(),
	}, nil
}

// SetStatus moves the card between statuses. Entering complete stamps the
// completion time; leaving it clears the stamp.
func (c *Card) SetStatus(status CardStatus, now time.Time) error {
	if !slices.Contains(validStatuses, status) {
		return ErrInvalidStatus
	}
	if status == StatusComplete {
		ts := now.UTC()
		c.CompletedAt = &ts
	} else {
		c.CompletedAt = nil
	}
	c.Status = status
	c.ModifiedAt = now.UTC()
	return nil
}

func (c *Card) SetPriority(priority CardPriority, now time.Time) error {
	if !slices.Contains(validPriorities, priority) {
		return ErrInvalidPriority
	}
	c.Priority = priority
	c.ModifiedAt = now.UTC()
	return nil
}

func (c *Card) AddComment(comment string, now time.Time) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return
	}
	c.Comments = append(c.Comments, comment)
	c.ModifiedAt = now.UTC()
}

// HasAnyTag reports whether the card carries at least one of the given tags.
func (c *Card) HasAnyTag(tags []string) bool {
	for _, tag := range tags {
		if slices.Contains(c.Tags, tag) {
			return true
		}
	}
	return false
}

// DueWithin reports whether the card's due date falls inside the next
// delta days. Unset or unparsable dates never warn.
func (c *Card) DueWithin(deltaDays int, format DateTimeFormat, now time.Time) bool {
	due, ok := ParseDueDate(c.DueDate, format)
	if !ok {
		return false
	}
	limit := now.AddDate(0, 0, deltaDays)
	return !due.Before(now.Truncate(24*time.Hour)) && due.Before(limit)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
