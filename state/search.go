package state

import (
	"strings"

	"financehub/entities"
)

// FilterPosts keeps posts whose content or any hashtag contains term,
// ignoring case. An empty term keeps everything.
func FilterPosts(posts []entities.Post, term string) []entities.Post {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return posts
	}
	out := make([]entities.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Content), term) || anyContains(p.Hashtags, term) {
			out = append(out, p)
		}
	}
	return out
}

// FilterPolls is FilterPosts for poll questions.
func FilterPolls(polls []entities.Poll, term string) []entities.Poll {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return polls
	}
	out := make([]entities.Poll, 0, len(polls))
	for _, p := range polls {
		if strings.Contains(strings.ToLower(p.Question), term) || anyContains(p.Hashtags, term) {
			out = append(out, p)
		}
	}
	return out
}

func anyContains(tags []string, lowered string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), lowered) {
			return true
		}
	}
	return false
}
