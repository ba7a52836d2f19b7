package models

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/internal/collection"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vocabSource struct {
	items    []api.Vocab
	fetchErr error
	sorted   []string
	searched []string
	removed  []int64
}

func (s *vocabSource) FetchAll(context.Context) ([]api.Vocab, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return slices.Clone(s.items), nil
}

func (s *vocabSource) FetchSorted(_ context.Context, column string, dir collection.Direction) ([]api.Vocab, error) {
	s.sorted = append(s.sorted, column+" "+dir.String())
	return slices.Clone(s.items), nil
}

func (s *vocabSource) FetchSearch(_ context.Context, query string) ([]api.Vocab, error) {
	s.searched = append(s.searched, query)
	return slices.Clone(s.items), nil
}

func (s *vocabSource) Remove(_ context.Context, id int64) error {
	s.removed = append(s.removed, id)
	s.items = slices.DeleteFunc(s.items, func(v api.Vocab) bool { return int64(v.ID) == id })
	return nil
}

func newVocabScreen(t *testing.T, src *vocabSource) *CollectionModel[api.Vocab] {
	t.Helper()
	ctrl := collection.New("vocab", collection.Source[int64, api.Vocab](src), api.KeyOf[api.Vocab])
	m := NewCollectionModel(context.Background(), ctrl, api.Vocabs, CollectionOptions{Scope: "list 3"})
	m.Update(m.run(m.initial)())
	return m
}

func press(t *testing.T, m *CollectionModel[api.Vocab], keys string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func sampleVocab() []api.Vocab {
	return []api.Vocab{
		{ID: 1, ListID: 3, Word: "apple", Translation: "táo"},
		{ID: 2, ListID: 3, Word: "pear", Translation: "lê"},
	}
}

func TestCollectionModel_Load(t *testing.T) {
	t.Run("Should render the loaded rows with title and scope", func(t *testing.T) {
		m := newVocabScreen(t, &vocabSource{items: sampleVocab()})
		view := m.View()
		assert.Contains(t, view, "Vocabulary › list 3")
		assert.Contains(t, view, "apple")
		assert.Contains(t, view, "2 rows")
		assert.Equal(t, collection.StatusReady, m.State().Status)
	})
	t.Run("Should show the failure message inline", func(t *testing.T) {
		m := newVocabScreen(t, &vocabSource{fetchErr: errors.New("list: server unavailable (status 503)")})
		assert.True(t, m.State().Failed())
		assert.Contains(t, m.View(), "server unavailable")
	})
	t.Run("Should run a custom initial request", func(t *testing.T) {
		src := &vocabSource{items: sampleVocab()}
		ctrl := collection.New("vocab", collection.Source[int64, api.Vocab](src), api.KeyOf[api.Vocab])
		m := NewCollectionModel(context.Background(), ctrl, api.Vocabs, CollectionOptions{
			Initial: func(ctx context.Context) { ctrl.SortBy(ctx, "word") },
		})
		m.Update(m.run(m.initial)())
		assert.Equal(t, []string{"word ASC"}, src.sorted)
		assert.Contains(t, m.View(), "Sort: word ASC")
	})
}

func TestCollectionModel_Delete(t *testing.T) {
	t.Run("Should ask for confirmation and cancel without a request", func(t *testing.T) {
		src := &vocabSource{items: sampleVocab()}
		m := newVocabScreen(t, src)
		press(t, m, "d")
		require.NotNil(t, m.State().PendingDeleteID)
		assert.Contains(t, m.View(), "Delete vocabulary #1?")
		press(t, m, "n")
		assert.Nil(t, m.State().PendingDeleteID)
		assert.Empty(t, src.removed)
	})
	t.Run("Should remove the selected row after confirming", func(t *testing.T) {
		src := &vocabSource{items: sampleVocab()}
		m := newVocabScreen(t, src)
		press(t, m, "d")
		cmd := press(t, m, "y")
		require.NotNil(t, cmd)
		m.Update(cmd())
		assert.Equal(t, []int64{1}, src.removed)
		assert.Len(t, m.State().Items, 1)
		assert.Nil(t, m.State().PendingDeleteID)
		assert.Contains(t, m.View(), "1 row")
	})
}

func TestCollectionModel_SortAndSearch(t *testing.T) {
	t.Run("Should sort by the nth sortable column", func(t *testing.T) {
		src := &vocabSource{items: sampleVocab()}
		m := newVocabScreen(t, src)
		m.Update(press(t, m, "3")())
		m.Update(press(t, m, "3")())
		assert.Equal(t, []string{"word ASC", "word DESC"}, src.sorted)
	})
	t.Run("Should submit the typed query on enter", func(t *testing.T) {
		src := &vocabSource{items: sampleVocab()}
		m := newVocabScreen(t, src)
		press(t, m, "/")
		press(t, m, "pear")
		cmd := press(t, m, "enter")
		require.NotNil(t, cmd)
		m.Update(cmd())
		assert.Equal(t, []string{"pear"}, src.searched)
		assert.Len(t, m.State().Items, 1)
		assert.Contains(t, m.View(), `Search: "pear"`)
	})
	t.Run("Should leave search mode on esc without a request", func(t *testing.T) {
		src := &vocabSource{items: sampleVocab()}
		m := newVocabScreen(t, src)
		press(t, m, "/")
		press(t, m, "x")
		assert.Nil(t, press(t, m, "esc"))
		assert.Empty(t, src.searched)
	})
}

func TestCollectionModel_Copy(t *testing.T) {
	t.Run("Should copy the selected row as JSON", func(t *testing.T) {
		m := newVocabScreen(t, &vocabSource{items: sampleVocab()})
		var copied string
		m.copy = func(s string) error {
			copied = s
			return nil
		}
		cmd := press(t, m, "c")
		require.NotNil(t, cmd)
		m.Update(cmd())
		assert.True(t, strings.Contains(copied, `"word": "apple"`))
		assert.Contains(t, m.View(), "Copied row 1")
	})
}
