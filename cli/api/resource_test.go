package api

import (
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/MLinh204/Class-Helper-Admin/internal/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	query  map[string][]string
	body   string
}

func recordingClient(t *testing.T, response string) (*Client, *[]capturedRequest) {
	t.Helper()
	var seen []capturedRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = append(seen, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			body:   string(raw),
		})
		_, _ = io.WriteString(w, response)
	}, &memTokens{token: "t"})
	return client, &seen
}

func TestResource_Paths(t *testing.T) {
	t.Run("Should request the sort endpoint with column and order", func(t *testing.T) {
		client, seen := recordingClient(t, `[]`)
		_, err := NewResource[AttendanceList](client, AttendanceLists).
			FetchSorted(t.Context(), "created_at", collection.Descending)
		require.NoError(t, err)
		require.Len(t, *seen, 1)
		got := (*seen)[0]
		assert.Equal(t, "/attendanceList/sort", got.path)
		assert.Equal(t, []string{"created_at"}, got.query["column"])
		assert.Equal(t, []string{"DESC"}, got.query["order"])
	})

	t.Run("Should use each family's search parameter", func(t *testing.T) {
		client, seen := recordingClient(t, `[]`)
		_, err := NewResource[Student](client, Students).FetchSearch(t.Context(), "an")
		require.NoError(t, err)
		_, err = NewResource[User](client, Users).FetchSearch(t.Context(), "an")
		require.NoError(t, err)
		require.Len(t, *seen, 2)
		assert.Equal(t, "/student/search", (*seen)[0].path)
		assert.Equal(t, []string{"an"}, (*seen)[0].query["q"])
		assert.Equal(t, "/user/search", (*seen)[1].path)
		assert.Equal(t, []string{"an"}, (*seen)[1].query["query"])
	})

	t.Run("Should scope nested families to their list", func(t *testing.T) {
		client, seen := recordingClient(t, `[]`)
		vocab := NewResource[Vocab](client, Vocabs).InList(7)
		_, err := vocab.FetchAll(t.Context())
		require.NoError(t, err)
		_, err = vocab.FetchSearch(t.Context(), "run")
		require.NoError(t, err)
		require.NoError(t, vocab.Remove(t.Context(), 12))
		require.Len(t, *seen, 3)
		assert.Equal(t, "/vocab/list/7", (*seen)[0].path)
		assert.Equal(t, "/vocab/list/7/search", (*seen)[1].path)
		assert.Equal(t, http.MethodDelete, (*seen)[2].method)
		assert.Equal(t, "/vocab/12", (*seen)[2].path)
	})

	t.Run("Should refuse a scoped family without a list id", func(t *testing.T) {
		client, seen := recordingClient(t, `[]`)
		_, err := NewResource[AttendanceRecord](client, AttendanceRecords).FetchAll(t.Context())
		assert.ErrorContains(t, err, "requires a parent list id")
		assert.Empty(t, *seen)
	})

	t.Run("Should refuse sort and search where the API has none", func(t *testing.T) {
		client, seen := recordingClient(t, `[]`)
		res := NewResource[AttendanceRecord](client, AttendanceRecords).InList(1)
		_, err := res.FetchSorted(t.Context(), "id", collection.Ascending)
		assert.ErrorIs(t, err, ErrUnsupported)
		_, err = res.FetchSearch(t.Context(), "x")
		assert.ErrorIs(t, err, ErrUnsupported)
		assert.Empty(t, *seen)
	})
	t.Run("Should read one salary list through its per-list endpoint", func(t *testing.T) {
		client, seen := recordingClient(t, `[{"id":1,"list_id":4,"amount":"1500000"}]`)
		res := NewResource[SalaryRecord](client, SalaryRecords.ForList()).InList(4)
		items, err := res.FetchAll(t.Context())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "/salaryRecord/list/4", (*seen)[0].path)
		_, err = res.FetchSorted(t.Context(), "id", collection.Ascending)
		assert.ErrorIs(t, err, ErrUnsupported)
		assert.Len(t, *seen, 1)
	})
	t.Run("Should keep families without a per-list endpoint unchanged", func(t *testing.T) {
		assert.Equal(t, Students, Students.ForList())
		assert.Equal(t, "/salaryRecord/all", SalaryRecords.AllPath)
	})
}

func TestResource_Mutations(t *testing.T) {
	t.Run("Should send a partial body on update", func(t *testing.T) {
		client, seen := recordingClient(t, `{}`)
		err := NewResource[SalaryList](client, SalaryLists).
			Update(t.Context(), 4, map[string]any{"status": "closed"})
		require.NoError(t, err)
		got := (*seen)[0]
		assert.Equal(t, http.MethodPut, got.method)
		assert.Equal(t, "/salaryList/4", got.path)
		assert.JSONEq(t, `{"status":"closed"}`, got.body)
	})

	t.Run("Should refuse an empty update", func(t *testing.T) {
		client, seen := recordingClient(t, `{}`)
		err := NewResource[SalaryList](client, SalaryLists).Update(t.Context(), 4, nil)
		assert.Error(t, err)
		assert.Empty(t, *seen)
	})

	t.Run("Should post vocab to its list", func(t *testing.T) {
		client, seen := recordingClient(t, `{}`)
		err := NewResource[Vocab](client, Vocabs).InList(3).
			Create(t.Context(), NewVocab{Word: "run", Translation: "chạy"})
		require.NoError(t, err)
		got := (*seen)[0]
		assert.Equal(t, http.MethodPost, got.method)
		assert.Equal(t, "/vocab/list/3", got.path)
		assert.JSONEq(t, `{"word":"run","translation":"chạy"}`, got.body)
	})

	t.Run("Should put to action paths", func(t *testing.T) {
		client, seen := recordingClient(t, `{}`)
		err := NewResource[Student](client, Students).
			Put(t.Context(), "add point", "/student/updatePoint", 9, map[string]int{"point": 5})
		require.NoError(t, err)
		assert.Equal(t, "/student/updatePoint/9", (*seen)[0].path)
		assert.JSONEq(t, `{"point":5}`, (*seen)[0].body)
	})
}

func TestResource_WithController(t *testing.T) {
	t.Run("Should re-filter search results the server did not filter", func(t *testing.T) {
		client, _ := recordingClient(t,
			`[{"id":1,"title":"Foo","status":"open"},{"id":2,"title":"Bar","status":"open"}]`)
		ctrl := collection.New("attendance-lists",
			NewResource[AttendanceList](client, AttendanceLists), KeyOf[AttendanceList])
		state := ctrl.Search(t.Context(), "foo")
		require.Equal(t, collection.StatusReady, state.Status)
		require.Len(t, state.Items, 1)
		assert.Equal(t, "Foo", state.Items[0].Title)
	})

	t.Run("Should refetch after a confirmed delete", func(t *testing.T) {
		var deletes, lists atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodDelete:
				deletes.Add(1)
				assert.Equal(t, "/registrationList/2", r.URL.Path)
			default:
				lists.Add(1)
				_, _ = io.WriteString(w, `[{"id":1,"username":"a"},{"id":2,"username":"b"}]`)
			}
		}, &memTokens{})
		ctrl := collection.New("registrations",
			NewResource[RegistrationList](client, Registrations), KeyOf[RegistrationList])
		ctrl.Load(t.Context())
		require.True(t, ctrl.RequestDelete(2))
		state := ctrl.ConfirmDelete(t.Context())
		assert.Equal(t, collection.StatusReady, state.Status)
		assert.Nil(t, state.PendingDeleteID)
		assert.Equal(t, int32(1), deletes.Load())
		assert.Equal(t, int32(2), lists.Load())
	})
}
