package state

import (
	"testing"

	"financehub/entities"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestFilterPosts(t *testing.T) {
	posts := []entities.Post{
		{ID: "1", Content: "Selic decision tomorrow", Hashtags: pq.StringArray{"copom"}},
		{ID: "2", Content: "Long PETR4", Hashtags: pq.StringArray{"Petrobras", "oil"}},
		{ID: "3", Content: "No tags here"},
	}

	cases := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3"}},
		{"   ", []string{"1", "2", "3"}},
		{"selic", []string{"1"}},
		{"PETRO", []string{"2"}},
		{"COP", []string{"1"}},
		{"o", []string{"1", "2", "3"}},
		{"gold", nil},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			var got []string
			for _, p := range FilterPosts(posts, tc.term) {
				got = append(got, p.ID)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFilterPolls(t *testing.T) {
	polls := []entities.Poll{
		{ID: "a", Question: "Rate cut in March?", Hashtags: pq.StringArray{"fed"}},
		{ID: "b", Question: "Best ETF for 2025?"},
	}

	got := FilterPolls(polls, "FED")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "a", got[0].ID)
	}
	assert.Len(t, FilterPolls(polls, "etf"), 1)
	assert.Empty(t, FilterPolls(polls, "crypto"))
	assert.Len(t, FilterPolls(polls, ""), 2)
}
