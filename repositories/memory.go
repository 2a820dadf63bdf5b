package repositories

import (
	"sort"
	"sync"

	"financehub/entities"

	"github.com/lib/pq"
)

// MemoryStore keeps every table in process memory. It backs STORAGE=memory
// and the handler tests; one mutex serialises all writes, which makes the
// counter updates atomic.
type MemoryStore struct {
	mu       sync.RWMutex
	policy   entities.ReactionPolicy
	users    map[string]*entities.User
	posts    []*entities.Post
	polls    []*entities.Poll
	comments []*entities.Comment
	likes    []entities.PostLike
	votes    []entities.PollVote
}

func NewMemoryStore(policy entities.ReactionPolicy) *MemoryStore {
	return &MemoryStore{
		policy: policy,
		users:  make(map[string]*entities.User),
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *MemoryStore) Repositories() Repositories {
	return Repositories{
		Users: &memUsers{s},
		Posts: &memPosts{s},
		Polls: &memPolls{s},
	}
}

// Likes returns a copy of the like ledger.
func (s *MemoryStore) Likes() []entities.PostLike {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.PostLike(nil), s.likes...)
}

// Votes returns a copy of the vote ledger.
func (s *MemoryStore) Votes() []entities.PollVote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.PollVote(nil), s.votes...)
}

func (s *MemoryStore) userCopy(id string) *entities.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	c := *u
	return &c
}

func (s *MemoryStore) postCopy(p *entities.Post) entities.Post {
	c := *p
	c.Hashtags = append(pq.StringArray{}, p.Hashtags...)
	c.User = s.userCopy(p.UserID)
	return c
}

func (s *MemoryStore) pollCopy(p *entities.Poll) entities.Poll {
	c := *p
	c.Hashtags = append(pq.StringArray{}, p.Hashtags...)
	c.Options = append([]entities.PollOption{}, p.Options...)
	c.User = s.userCopy(p.UserID)
	return c
}

func (s *MemoryStore) findPost(id string) *entities.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *MemoryStore) findPoll(id string) *entities.Poll {
	for _, p := range s.polls {
		if p.ID == id {
			return p
		}
	}
	return nil
}

type memUsers struct{ s *MemoryStore }

func (r *memUsers) Create(user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return ErrDuplicate
		}
	}
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r *memUsers) GetByID(id string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.s.userCopy(id); u != nil {
		return u, nil
	}
	return nil, ErrNotFound
}

func (r *memUsers) GetByEmail(email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for id, u := range r.s.users {
		if u.Email == email {
			return r.s.userCopy(id), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUsers) Update(user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return ErrNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && (u.Email == user.Email || u.Username == user.Username) {
			return ErrDuplicate
		}
	}
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

type memPosts struct{ s *MemoryStore }

func (r *memPosts) Create(post *entities.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := post.BeforeCreate(nil); err != nil {
		return err
	}
	stored := *post
	stored.User = nil
	stored.Hashtags = append(pq.StringArray{}, post.Hashtags...)
	r.s.posts = append(r.s.posts, &stored)
	*post = r.s.postCopy(&stored)
	return nil
}

func (r *memPosts) GetByID(id string) (*entities.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p := r.s.findPost(id)
	if p == nil {
		return nil, ErrNotFound
	}
	c := r.s.postCopy(p)
	return &c, nil
}

func (r *memPosts) List(filter PostFilter) ([]entities.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entities.Post{}
	// Walk backwards so equal timestamps keep newest-inserted first.
	for i := len(r.s.posts) - 1; i >= 0; i-- {
		p := r.s.posts[i]
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Hashtag != "" && !p.HasHashtag(filter.Hashtag) {
			continue
		}
		out = append(out, r.s.postCopy(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPosts) IncrementLikes(postID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.findPost(postID)
	if p == nil {
		return ErrNotFound
	}
	if r.s.policy == entities.ReactionOnce {
		for _, l := range r.s.likes {
			if l.PostID == postID && l.UserID == userID {
				return ErrAlreadyReacted
			}
		}
	}
	like := entities.PostLike{PostID: postID, UserID: userID}
	if err := like.BeforeCreate(nil); err != nil {
		return err
	}
	r.s.likes = append(r.s.likes, like)
	p.LikesCount++
	return nil
}

func (r *memPosts) AddComment(comment *entities.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.findPost(comment.PostID)
	if p == nil {
		return ErrNotFound
	}
	if err := comment.BeforeCreate(nil); err != nil {
		return err
	}
	stored := *comment
	stored.User = nil
	r.s.comments = append(r.s.comments, &stored)
	p.CommentsCount++
	comment.User = r.s.userCopy(comment.UserID)
	return nil
}

func (r *memPosts) ListComments(postID string) ([]entities.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entities.Comment{}
	for _, c := range r.s.comments {
		if c.PostID != postID {
			continue
		}
		cc := *c
		cc.User = r.s.userCopy(c.UserID)
		out = append(out, cc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memPolls struct{ s *MemoryStore }

func (r *memPolls) Create(poll *entities.Poll) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := poll.BeforeCreate(nil); err != nil {
		return err
	}
	for i := range poll.Options {
		if err := poll.Options[i].BeforeCreate(nil); err != nil {
			return err
		}
	}
	stored := r.s.pollCopy(poll)
	stored.User = nil
	r.s.polls = append(r.s.polls, &stored)
	*poll = r.s.pollCopy(&stored)
	return nil
}

func (r *memPolls) GetByID(id string) (*entities.Poll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p := r.s.findPoll(id)
	if p == nil {
		return nil, ErrNotFound
	}
	c := r.s.pollCopy(p)
	return &c, nil
}

func (r *memPolls) List(filter PollFilter) ([]entities.Poll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entities.Poll{}
	for i := len(r.s.polls) - 1; i >= 0; i-- {
		p := r.s.polls[i]
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, r.s.pollCopy(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPolls) Vote(pollID, optionID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.findPoll(pollID)
	if p == nil {
		return ErrNotFound
	}
	opt, ok := p.Option(optionID)
	if !ok {
		return ErrNotFound
	}
	if r.s.policy == entities.ReactionOnce {
		for _, v := range r.s.votes {
			if v.PollID == pollID && v.UserID == userID {
				return ErrAlreadyReacted
			}
		}
	}
	vote := entities.PollVote{PollID: pollID, OptionID: optionID, UserID: userID}
	if err := vote.BeforeCreate(nil); err != nil {
		return err
	}
	r.s.votes = append(r.s.votes, vote)
	opt.Votes++
	p.TotalVotes++
	return nil
}
