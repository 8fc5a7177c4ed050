package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token authorizes API requests.
type Token struct {
	AccessToken string
	TokenType   string
}

// Authorization returns the value of the Authorization header.
func (t Token) Authorization() string {
	return strings.TrimSpace(t.TokenType + " " + t.AccessToken)
}

// Millis is a timestamp in milliseconds since the Unix epoch.
type Millis int64

// Time converts m to a local time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// IsZero reports whether the timestamp is unset.
func (m Millis) IsZero() bool {
	return m <= 0
}

// MillisOf converts t to a timestamp.
func MillisOf(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Number decodes a JSON number, a numeric string or null. Valid is false
// for null, empty strings and non-numeric strings; Raw keeps the original
// text for display.
type Number struct {
	Value float64
	Valid bool
	Raw   string
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	n.Raw = s
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		n.Value = f
		n.Valid = true
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	switch {
	case n.Valid:
		return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
	case n.Raw != "":
		return json.Marshal(n.Raw)
	default:
		return []byte("null"), nil
	}
}

// String returns the number as sent by the portal.
func (n Number) String() string {
	if n.Valid {
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	}
	return n.Raw
}

// Set reports whether the field carries any value.
func (n Number) Set() bool {
	return n.Valid || n.Raw != ""
}

// Profile is the subset of /me/profile used by the commands.
type Profile struct {
	UID       int64  `json:"uid"`
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Email     string `json:"email,omitempty"`
}

type Absence struct {
	Date          Millis `json:"date"`
	CourseName    string `json:"course_name"`
	Justified     bool   `json:"justified"`
	TrimesterName string `json:"trimester_name"`
	Trimester     int    `json:"trimester"`
	Year          int    `json:"year"`
}

type Grade struct {
	Year             int       `json:"year"`
	Trimester        int       `json:"trimester"`
	TrimesterName    string    `json:"trimester_name"`
	TeacherCivility  string    `json:"teacher_civility"`
	TeacherLastName  string    `json:"teacher_last_name"`
	TeacherFirstName string    `json:"teacher_first_name"`
	Course           string    `json:"course"`
	Coef             Number    `json:"coef"`
	ECTS             Number    `json:"ects"`
	Grades           []float64 `json:"grades"`
	Exam             *float64  `json:"exam"`
	Average          *float64  `json:"average"`
}

type Course struct {
	RCID             int64  `json:"rc_id"`
	Year             int    `json:"year"`
	Trimester        Number `json:"trimester"`
	TrimesterID      int64  `json:"trimester_id"`
	Name             string `json:"name"`
	StudentGroupName string `json:"student_group_name"`
	StudentGroupID   int64  `json:"student_group_id"`
	Teacher          string `json:"teacher"`
	TeacherID        int64  `json:"teacher_id"`
}

type AgendaRoom struct {
	RoomID    int64  `json:"room_id"`
	Name      string `json:"name"`
	Floor     string `json:"floor"`
	Campus    string `json:"campus"`
	Color     string `json:"color"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type AgendaDiscipline struct {
	Name             string `json:"name"`
	Teacher          string `json:"teacher"`
	Trimester        string `json:"trimester"`
	StudentGroupName string `json:"student_group_name"`
	TeacherID        int64  `json:"teacher_id"`
	Coef             Number `json:"coef"`
	ECTS             Number `json:"ects"`
}

type AgendaItem struct {
	ReservationID int64             `json:"reservation_id"`
	Rooms         []AgendaRoom      `json:"rooms"`
	Type          string            `json:"type"`
	Modality      string            `json:"modality"`
	StartDate     Millis            `json:"start_date"`
	EndDate       Millis            `json:"end_date"`
	State         string            `json:"state"`
	Name          string            `json:"name"`
	Discipline    *AgendaDiscipline `json:"discipline"`
	Teacher       string            `json:"teacher"`
	Promotion     string            `json:"promotion"`
}

// ModalityRemote is the modality of remote classes.
const ModalityRemote = "Distanciel"

type GroupStudent struct {
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Promotion string `json:"promotion,omitempty"`
	Classe    string `json:"classe,omitempty"`
	UID       int64  `json:"u_id"`
}

type ProjectGroup struct {
	GroupName        string         `json:"group_name"`
	DatePresentation Millis         `json:"date_presentation"`
	ProjectGroupID   int64          `json:"project_group_id"`
	ProjectID        int64          `json:"project_id"`
	Students         []GroupStudent `json:"project_group_students"`
}

// HasStudent reports whether the user uid belongs to the group.
func (g *ProjectGroup) HasStudent(uid int64) bool {
	for _, s := range g.Students {
		if s.UID == uid {
			return true
		}
	}
	return false
}

type ProjectStep struct {
	ID        int64  `json:"psp_id"`
	Type      string `json:"psp_type"`
	Desc      string `json:"psp_desc"`
	LimitDate Millis `json:"psp_limit_date"`
	ProjectID int64  `json:"pro_id"`
	Number    int    `json:"psp_number"`
}

type Project struct {
	ProjectID  int64          `json:"project_id"`
	Name       string         `json:"name"`
	Author     string         `json:"author"`
	CourseName string         `json:"course_name"`
	RCID       int64          `json:"rc_id"`
	Year       int            `json:"year"`
	Groups     []ProjectGroup `json:"groups"`
	Steps      []ProjectStep  `json:"steps"`

	MinStudentGroup int `json:"project_min_student_group"`
	MaxStudentGroup int `json:"project_max_student_group"`
}

// UserGroup returns the group uid belongs to, or nil.
func (p *Project) UserGroup(uid int64) *ProjectGroup {
	for i := range p.Groups {
		if p.Groups[i].HasStudent(uid) {
			return &p.Groups[i]
		}
	}
	return nil
}

// NextStep is an entry of /me/nextProjectSteps.
type NextStep struct {
	ProjectID   int64  `json:"pro_id"`
	ProjectName string `json:"pro_name"`
	CourseName  string `json:"course_name"`
	GroupID     int64  `json:"group_id"`
	StepID      int64  `json:"psp_id"`
	Type        string `json:"psp_type"`
	Desc        string `json:"psp_desc"`
	LimitDate   Millis `json:"psp_limit_date"`
	Number      int    `json:"psp_number"`
}

// Message is a project group chat message.
type Message struct {
	UID       int64  `json:"uid"`
	Firstname string `json:"firstname"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Date      Millis `json:"date"`
}

// yearList decodes /me/years, which lists years as numbers or strings.
type yearList []int

func (y *yearList) UnmarshalJSON(data []byte) error {
	var raw []Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	years := make([]int, 0, len(raw))
	for _, n := range raw {
		if !n.Valid {
			return fmt.Errorf("invalid year %q", n.Raw)
		}
		years = append(years, int(n.Value))
	}
	*y = years
	return nil
}
