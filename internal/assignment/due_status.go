package assignment

import (
	"fmt"
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

// Urgency is the discrete deadline category of a task.
type Urgency string

const (
	UrgencyNone     Urgency = "none"
	UrgencyOverdue  Urgency = "overdue"
	UrgencyDueToday Urgency = "dueToday"
	UrgencyDueSoon  Urgency = "dueSoon"
	UrgencyOnTrack  Urgency = "onTrack"
)

// DueSoonWindow is the largest number of remaining days still reported as due soon.
const DueSoonWindow = 3

const dueLabelLayout = "2006-01-02"

// DueStatus describes how close a deadline is relative to a reference day.
type DueStatus struct {
	Urgency       Urgency    `json:"urgency"`
	Label         string     `json:"label"`
	DaysRemaining *int       `json:"days_remaining,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// DueClassifier buckets deadlines by whole calendar days in a single timezone.
type DueClassifier struct {
	location *time.Location
}

// NewDueClassifier builds a classifier that truncates to midnight in loc.
// A nil location means UTC.
func NewDueClassifier(loc *time.Location) DueClassifier {
	if loc == nil {
		loc = time.UTC
	}
	return DueClassifier{location: loc}
}

// Location returns the timezone used for day boundaries.
func (c DueClassifier) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Classify computes the urgency of due relative to now. Both timestamps are
// truncated to the start of their day before differencing.
func (c DueClassifier) Classify(due *time.Time, now time.Time) DueStatus {
	if due == nil {
		return DueStatus{Urgency: UrgencyNone, Label: "no deadline"}
	}

	days := c.DaysBetween(now, *due)
	dueCopy := *due
	status := DueStatus{DaysRemaining: &days, DueDate: &dueCopy}

	switch {
	case days < 0:
		status.Urgency = UrgencyOverdue
		status.Label = "overdue"
	case days == 0:
		status.Urgency = UrgencyDueToday
		status.Label = "due today"
	case days <= DueSoonWindow:
		status.Urgency = UrgencyDueSoon
		if days == 1 {
			status.Label = "1 day left"
		} else {
			status.Label = fmt.Sprintf("%d days left", days)
		}
	default:
		status.Urgency = UrgencyOnTrack
		status.Label = "due " + due.In(c.Location()).Format(dueLabelLayout)
	}

	return status
}

// DaysBetween returns the number of calendar days from the day of from to the
// day of to, evaluated in the classifier's timezone.
func (c DueClassifier) DaysBetween(from, to time.Time) int {
	return int(civilDay(to, c.Location()).Sub(civilDay(from, c.Location())).Hours() / 24)
}

// civilDay maps t to midnight UTC of its calendar date in loc so that day
// arithmetic is unaffected by DST transitions.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PartitionByDeadline splits tasks into those still open (no deadline or not
// yet overdue) and those past their due day. Order is preserved in both.
func (c DueClassifier) PartitionByDeadline(tasks []models.Task, now time.Time) (active, overdue []models.Task) {
	active = make([]models.Task, 0, len(tasks))
	overdue = make([]models.Task, 0)
	for _, task := range tasks {
		if c.Classify(task.DueDate, now).Urgency == UrgencyOverdue {
			overdue = append(overdue, task)
			continue
		}
		active = append(active, task)
	}
	return active, overdue
}
