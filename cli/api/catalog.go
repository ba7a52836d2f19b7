package api

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const listPlaceholder = "{list}"

// ColumnKind tells table views how to render a value.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindTime
	KindMoney
	KindFlag
)

// Column is one table column. Key is the JSON field name.
type Column struct {
	Key   string
	Title string
	Width int
	Kind  ColumnKind
}

// Descriptor binds an entity family to its REST paths. Paths of scoped
// families contain {list} and need a parent list id. ListPath is the optional
// per-list listing of a family that is otherwise read in full.
type Descriptor struct {
	Name        string
	Title       string
	AllPath     string
	SortPath    string
	SearchPath  string
	SearchParam string
	ItemPath    string
	CreatePath  string
	Sortable    []string
	Columns     []Column
	Scoped      bool
	ListPath    string
}

func (d Descriptor) CanSort() bool   { return d.SortPath != "" }
func (d Descriptor) CanSearch() bool { return d.SearchPath != "" }
func (d Descriptor) CanCreate() bool { return d.CreatePath != "" }

// IsSortable reports whether column is in the allow-list.
func (d Descriptor) IsSortable(column string) bool {
	return slices.Contains(d.Sortable, column)
}

// ForList narrows the family to the records of one parent list. The per-list
// endpoint is neither sortable nor searchable.
func (d Descriptor) ForList() Descriptor {
	if d.ListPath == "" {
		return d
	}
	d.AllPath = d.ListPath
	d.SortPath, d.SearchPath, d.SearchParam = "", "", ""
	d.Sortable = nil
	d.Scoped = true
	d.ListPath = ""
	return d
}

// resolve fills the {list} placeholder.
func (d Descriptor) resolve(path string, listID int64) (string, error) {
	if !strings.Contains(path, listPlaceholder) {
		return path, nil
	}
	if listID <= 0 {
		return "", fmt.Errorf("%s requires a parent list id", d.Name)
	}
	return strings.ReplaceAll(path, listPlaceholder, strconv.FormatInt(listID, 10)), nil
}

var (
	Users = Descriptor{
		Name:        "users",
		Title:       "Users",
		AllPath:     "/user/all",
		SortPath:    "/user/sort",
		SearchPath:  "/user/search",
		SearchParam: "query",
		ItemPath:    "/user",
		CreatePath:  "/user",
		Sortable:    []string{"id", "username", "role_id"},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "username", Title: "Username", Width: 24},
			{Key: "role_id", Title: "Role ID", Width: 8},
			{Key: "role_name", Title: "Role", Width: 14},
		},
	}
	Students = Descriptor{
		Name:        "students",
		Title:       "Students",
		AllPath:     "/student/all",
		SortPath:    "/student/sort",
		SearchPath:  "/student/search",
		SearchParam: "q",
		ItemPath:    "/student",
		CreatePath:  "/student",
		Sortable:    []string{"id", "nickname", "point", "heart", "level"},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "userFullName", Title: "Full name", Width: 24},
			{Key: "nickname", Title: "Nickname", Width: 14},
			{Key: "gender", Title: "Gender", Width: 8},
			{Key: "point", Title: "Points", Width: 8},
			{Key: "heart", Title: "Hearts", Width: 8},
			{Key: "level", Title: "Level", Width: 6},
		},
	}
	Teachers = Descriptor{
		Name:        "teachers",
		Title:       "Teachers",
		AllPath:     "/teacher/all",
		SortPath:    "/teacher/sort",
		SearchPath:  "/teacher/search",
		SearchParam: "q",
		ItemPath:    "/teacher",
		Sortable:    []string{"id", "user_id"},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "user_id", Title: "User ID", Width: 8},
			{Key: "scheduleDate", Title: "Schedule", Width: 30},
		},
	}
	AttendanceLists = Descriptor{
		Name:        "attendance-lists",
		Title:       "Attendance lists",
		AllPath:     "/attendanceList/all",
		SortPath:    "/attendanceList/sort",
		SearchPath:  "/attendanceList/search",
		SearchParam: "query",
		ItemPath:    "/attendanceList",
		Sortable:    []string{"id", "title", "teacher_id", "status", "created_at"},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "title", Title: "Title", Width: 28},
			{Key: "teacher_id", Title: "Teacher", Width: 8},
			{Key: "status", Title: "Status", Width: 10},
			{Key: "created_at", Title: "Created", Width: 16, Kind: KindTime},
		},
	}
	AttendanceRecords = Descriptor{
		Name:     "attendance-records",
		Title:    "Attendance records",
		AllPath:  "/attendanceRecord/list/" + listPlaceholder,
		ItemPath: "/attendanceRecord",
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "list_id", Title: "List", Width: 6},
			{Key: "student_id", Title: "Student", Width: 8},
			{Key: "attended", Title: "Attended", Width: 9, Kind: KindFlag},
		},
		Scoped: true,
	}
	Registrations = Descriptor{
		Name:        "registrations",
		Title:       "Registrations",
		AllPath:     "/registrationList/all",
		SortPath:    "/registrationList/sort",
		SearchPath:  "/registrationList/search",
		SearchParam: "query",
		ItemPath:    "/registrationList",
		Sortable:    []string{"id", "username"},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "username", Title: "Username", Width: 30},
		},
	}
	SalaryLists = Descriptor{
		Name:        "salary-lists",
		Title:       "Salary lists",
		AllPath:     "/salaryList/all",
		SortPath:    "/salaryList/sort",
		SearchPath:  "/salaryList/search",
		SearchParam: "query",
		ItemPath:    "/salaryList",
		CreatePath:  "/salaryList",
		Sortable:    []string{"id", "title", "month_year", "daily_rate", "status", "total_records", "created_at"},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "title", Title: "Title", Width: 22},
			{Key: "month_year", Title: "Month", Width: 9},
			{Key: "daily_rate", Title: "Daily rate", Width: 12, Kind: KindMoney},
			{Key: "status", Title: "Status", Width: 10},
			{Key: "total_records", Title: "Records", Width: 8},
			{Key: "created_at", Title: "Created", Width: 16, Kind: KindTime},
		},
	}
	SalaryRecords = Descriptor{
		Name:        "salary-records",
		Title:       "Salary records",
		AllPath:     "/salaryRecord/all",
		SortPath:    "/salaryRecord/sort",
		SearchPath:  "/salaryRecord/search",
		SearchParam: "query",
		ItemPath:    "/salaryRecord",
		ListPath:    "/salaryRecord/list/" + listPlaceholder,
		Sortable:    []string{"id", "list_id", "teacher_id", "days_worked", "amount", "status"},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "list_id", Title: "List", Width: 6},
			{Key: "teacher_id", Title: "Teacher", Width: 8},
			{Key: "days_worked", Title: "Days", Width: 6},
			{Key: "amount", Title: "Amount", Width: 14, Kind: KindMoney},
			{Key: "status", Title: "Status", Width: 10},
		},
	}
	VocabLists = Descriptor{
		Name:        "vocab-lists",
		Title:       "Vocabulary lists",
		AllPath:     "/vocabList/all",
		SortPath:    "/vocabList/sort",
		SearchPath:  "/vocabList/search",
		SearchParam: "query",
		ItemPath:    "/vocabList",
		CreatePath:  "/vocabList",
		Sortable:    []string{"id", "title", "description", "category", "word_count", "teacher_id", "created_at"},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "title", Title: "Title", Width: 22},
			{Key: "category", Title: "Category", Width: 12},
			{Key: "word_count", Title: "Words", Width: 6},
			{Key: "teacher_id", Title: "Teacher", Width: 8},
			{Key: "created_at", Title: "Created", Width: 16, Kind: KindTime},
		},
	}
	Vocabs = Descriptor{
		Name:        "vocab",
		Title:       "Vocabulary",
		AllPath:     "/vocab/list/" + listPlaceholder,
		SortPath:    "/vocab/list/" + listPlaceholder + "/sort",
		SearchPath:  "/vocab/list/" + listPlaceholder + "/search",
		SearchParam: "query",
		ItemPath:    "/vocab",
		CreatePath:  "/vocab/list/" + listPlaceholder,
		Sortable: []string{
			"id", "list_id", "word", "translation", "definition", "part_of_speech",
			"example_sentence", "synonyms", "antonyms", "created_by", "created_at",
		},
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "word", Title: "Word", Width: 16},
			{Key: "translation", Title: "Translation", Width: 18},
			{Key: "part_of_speech", Title: "POS", Width: 8},
			{Key: "example_sentence", Title: "Example", Width: 30},
			{Key: "created_at", Title: "Created", Width: 16, Kind: KindTime},
		},
		Scoped: true,
	}
	Roles = Descriptor{
		Name:     "roles",
		Title:    "Roles",
		AllPath:  "/role/all",
		ItemPath: "/role",
		Columns: []Column{
			{Key: "id", Title: "ID", Width: 6},
			{Key: "name", Title: "Name", Width: 20},
		},
	}
)

// Catalog lists the families that get a command group, in help order.
func Catalog() []Descriptor {
	return []Descriptor{
		Users, Students, Teachers,
		AttendanceLists, AttendanceRecords, Registrations,
		SalaryLists, SalaryRecords, VocabLists, Vocabs,
	}
}

// Lookup finds a family by its CLI name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range Catalog() {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
