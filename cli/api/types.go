package api

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a row of any entity family. Every row the API returns carries a
// numeric id.
type Record interface {
	RecordID() int64
}

// Timestamp keeps the API's timestamp text verbatim so rows round-trip
// unchanged, and parses it on demand for display.
type Timestamp string

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time parses the timestamp. ok is false for empty or unknown formats.
func (t Timestamp) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Flag is a boolean that also accepts the 0/1 integers MySQL-backed APIs
// send for tinyint columns.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	switch string(data) {
	case "true", "1":
		*f = true
	case "false", "0", "null", "":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// ID accepts ids sent either as JSON numbers or numeric strings.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if string(data) == "null" || len(data) == 0 {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n)
	return nil
}

type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	RoleID   ID     `json:"role_id"`
	RoleName string `json:"role_name,omitempty"`
}

func (u User) RecordID() int64 { return int64(u.ID) }

type Student struct {
	ID           ID     `json:"id"`
	UserFullName string `json:"userFullName"`
	Nickname     string `json:"nickname"`
	Gender       string `json:"gender,omitempty"`
	Point        int    `json:"point"`
	Heart        int    `json:"heart"`
	Level        int    `json:"level"`
}

func (s Student) RecordID() int64 { return int64(s.ID) }

type Teacher struct {
	ID           ID     `json:"id"`
	ScheduleDate string `json:"scheduleDate,omitempty"`
	UserID       ID     `json:"user_id"`
}

func (t Teacher) RecordID() int64 { return int64(t.ID) }

type AttendanceList struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	TeacherID ID        `json:"teacher_id"`
	Status    string    `json:"status"`
	CreatedAt Timestamp `json:"created_at"`
}

func (a AttendanceList) RecordID() int64 { return int64(a.ID) }

type AttendanceRecord struct {
	ID        ID   `json:"id"`
	ListID    ID   `json:"list_id"`
	StudentID ID   `json:"student_id"`
	Attended  Flag `json:"attended"`
}

func (a AttendanceRecord) RecordID() int64 { return int64(a.ID) }

type RegistrationList struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

func (r RegistrationList) RecordID() int64 { return int64(r.ID) }

type SalaryList struct {
	ID           ID              `json:"id"`
	Title        string          `json:"title"`
	MonthYear    string          `json:"month_year"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	Status       string          `json:"status"`
	TotalRecords int             `json:"total_records"`
	CreatedAt    Timestamp       `json:"created_at"`
}

func (s SalaryList) RecordID() int64 { return int64(s.ID) }

type SalaryRecord struct {
	ID         ID              `json:"id"`
	ListID     ID              `json:"list_id"`
	TeacherID  ID              `json:"teacher_id"`
	DaysWorked int             `json:"days_worked"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
}

func (s SalaryRecord) RecordID() int64 { return int64(s.ID) }

type VocabList struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	WordCount   int       `json:"word_count"`
	TeacherID   ID        `json:"teacher_id"`
	CreatedAt   Timestamp `json:"created_at"`
}

func (v VocabList) RecordID() int64 { return int64(v.ID) }

type Vocab struct {
	ID              ID        `json:"id"`
	ListID          ID        `json:"list_id"`
	Word            string    `json:"word"`
	Translation     string    `json:"translation"`
	Definition      string    `json:"definition,omitempty"`
	PartOfSpeech    string    `json:"part_of_speech,omitempty"`
	ExampleSentence string    `json:"example_sentence,omitempty"`
	Synonyms        string    `json:"synonyms,omitempty"`
	Antonyms        string    `json:"antonyms,omitempty"`
	CreatedBy       ID        `json:"created_by"`
	CreatedAt       Timestamp `json:"created_at"`
}

func (v Vocab) RecordID() int64 { return int64(v.ID) }

type Role struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

func (r Role) RecordID() int64 { return int64(r.ID) }
