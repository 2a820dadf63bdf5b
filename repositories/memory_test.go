package repositories

import (
	"fmt"
	"testing"
	"time"

	"financehub/entities"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repos Repositories, name string) *entities.User {
	t.Helper()
	u := &entities.User{Email: name + "@example.com", Username: name, PasswordHash: "x"}
	require.NoError(t, repos.Users.Create(u))
	return u
}

func TestMemoryUsersUniqueness(t *testing.T) {
	repos := NewMemoryStore(entities.ReactionOnce).Repositories()
	ana := seedUser(t, repos, "ana")

	err := repos.Users.Create(&entities.User{Email: "ana@example.com", Username: "other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repos.Users.GetByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	_, err = repos.Users.GetByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPostsFilterAndOrder(t *testing.T) {
	repos := NewMemoryStore(entities.ReactionOnce).Repositories()
	ana := seedUser(t, repos, "ana")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, c := range []string{"stocks", "crypto", "stocks", "funds"} {
		p := &entities.Post{
			UserID:    ana.ID,
			Content:   fmt.Sprintf("post %d", i),
			Category:  c,
			Hashtags:  pq.StringArray{"tag" + c},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repos.Posts.Create(p))
		require.NotNil(t, p.User)
		assert.Equal(t, "ana", p.User.Username)
	}

	all, err := repos.Posts.List(PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	stocks, err := repos.Posts.List(PostFilter{Category: "stocks"})
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.Equal(t, "post 2", stocks[0].Content)
	assert.Equal(t, "post 0", stocks[1].Content)

	tagged, err := repos.Posts.List(PostFilter{Hashtag: "tagfunds"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "funds", tagged[0].Category)
}

func TestMemoryLikesPolicy(t *testing.T) {
	for _, tt := range []struct {
		policy entities.ReactionPolicy
		want   int
	}{
		{entities.ReactionOnce, 1},
		{entities.ReactionUnlimited, 3},
	} {
		t.Run(string(tt.policy), func(t *testing.T) {
			store := NewMemoryStore(tt.policy)
			repos := store.Repositories()
			ana := seedUser(t, repos, "ana")
			p := &entities.Post{UserID: ana.ID, Content: "hi", Category: "crypto"}
			require.NoError(t, repos.Posts.Create(p))

			for i := 0; i < 3; i++ {
				err := repos.Posts.IncrementLikes(p.ID, ana.ID)
				if i > 0 && tt.policy == entities.ReactionOnce {
					assert.ErrorIs(t, err, ErrAlreadyReacted)
				} else {
					assert.NoError(t, err)
				}
			}

			got, err := repos.Posts.GetByID(p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.LikesCount)
			assert.Len(t, store.Likes(), tt.want)
		})
	}
}

func TestMemoryCommentsOldestFirst(t *testing.T) {
	repos := NewMemoryStore(entities.ReactionOnce).Repositories()
	ana := seedUser(t, repos, "ana")
	p := &entities.Post{UserID: ana.ID, Content: "hi", Category: "crypto"}
	require.NoError(t, repos.Posts.Create(p))

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		c := &entities.Comment{PostID: p.ID, UserID: ana.ID, Content: fmt.Sprint(i), CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, repos.Posts.AddComment(c))
	}
	assert.ErrorIs(t, repos.Posts.AddComment(&entities.Comment{PostID: "nope", UserID: ana.ID, Content: "x"}), ErrNotFound)

	comments, err := repos.Posts.ListComments(p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []string{"0", "1", "2"}, []string{comments[0].Content, comments[1].Content, comments[2].Content})

	got, err := repos.Posts.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CommentsCount)
}

func TestMemoryVoteKeepsTotals(t *testing.T) {
	store := NewMemoryStore(entities.ReactionUnlimited)
	repos := store.Repositories()
	ana := seedUser(t, repos, "ana")

	poll := &entities.Poll{
		UserID:   ana.ID,
		Question: "Where is BTC in a year?",
		Category: "crypto",
		Options:  []entities.PollOption{{Text: "up"}, {Text: "down"}, {Text: "flat"}},
	}
	require.NoError(t, repos.Polls.Create(poll))
	require.Len(t, poll.Options, 3)

	picks := []int{0, 2, 2, 1, 0, 0, 2}
	for _, i := range picks {
		require.NoError(t, repos.Polls.Vote(poll.ID, poll.Options[i].ID, ana.ID))
	}

	got, err := repos.Polls.GetByID(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, len(picks), got.TotalVotes)
	assert.Equal(t, got.TotalVotes, got.VoteSum())
	assert.Equal(t, 3, got.Options[0].Votes)
	assert.Equal(t, 1, got.Options[1].Votes)
	assert.Equal(t, 3, got.Options[2].Votes)

	assert.ErrorIs(t, repos.Polls.Vote(poll.ID, "not-an-option", ana.ID), ErrNotFound)
	assert.ErrorIs(t, repos.Polls.Vote("missing", poll.Options[0].ID, ana.ID), ErrNotFound)
}

func TestMemoryVoteOncePerPoll(t *testing.T) {
	repos := NewMemoryStore(entities.ReactionOnce).Repositories()
	ana := seedUser(t, repos, "ana")
	bob := seedUser(t, repos, "bob")

	poll := &entities.Poll{
		UserID:   ana.ID,
		Question: "Rates?",
		Category: "economy",
		Options:  []entities.PollOption{{Text: "hike"}, {Text: "hold"}},
	}
	require.NoError(t, repos.Polls.Create(poll))

	require.NoError(t, repos.Polls.Vote(poll.ID, poll.Options[0].ID, ana.ID))
	assert.ErrorIs(t, repos.Polls.Vote(poll.ID, poll.Options[1].ID, ana.ID), ErrAlreadyReacted)
	require.NoError(t, repos.Polls.Vote(poll.ID, poll.Options[1].ID, bob.ID))

	got, err := repos.Polls.GetByID(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalVotes)
	assert.Equal(t, 2, got.VoteSum())
}
