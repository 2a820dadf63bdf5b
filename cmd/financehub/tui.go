package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"financehub/entities"
	"financehub/state"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type screen int

const (
	screenChecking screen = iota
	screenForm
	screenFeed
	screenSearch
	screenComments
)

type tab int

const (
	tabPosts tab = iota
	tabPolls
)

type initDoneMsg struct{}

// opDoneMsg reports a finished controller call. On success the model moves
// to next, replacing the form when nextForm is set.
type opDoneMsg struct {
	err      error
	next     screen
	nextForm *form
}

type commentsMsg struct {
	comments []entities.Comment
	err      error
}

type noticeMsg state.Notice

type model struct {
	ctx     context.Context
	ctrl    *state.Controller
	notices <-chan state.Notice

	screen   screen
	tab      tab
	cursor   int
	option   int
	form     form
	postID   string
	comments []entities.Comment
	notice   state.Notice
	busy     bool
	quitting bool
}

func newModel(ctx context.Context, ctrl *state.Controller, notices <-chan state.Notice) model {
	return model{
		ctx:     ctx,
		ctrl:    ctrl,
		notices: notices,
		screen:  screenChecking,
		busy:    true,
	}
}

func runTUI(ctx context.Context, a *app) error {
	notices := make(chan state.Notice, 16)
	if !a.configured {
		notices <- state.Notice{Level: state.Error, Text: notConfiguredHint}
	}
	ctrl := state.New(a.auth, a.posts, a.polls, state.NotifierFunc(func(n state.Notice) {
		slog.Info("notice", "error", n.Level == state.Error, "text", n.Text)
		select {
		case notices <- n:
		default:
		}
	}))

	p := tea.NewProgram(newModel(ctx, ctrl, notices), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func waitNotice(ch <-chan state.Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return noticeMsg(<-ch)
	}
}

func (m model) Init() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return tea.Batch(
		func() tea.Msg {
			ctrl.Init(ctx)
			return initDoneMsg{}
		},
		waitNotice(m.notices),
	)
}

func run(next screen, nextForm *form, op func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: op(), next: next, nextForm: nextForm}
	}
}

func (m model) loadComments() tea.Cmd {
	ctx, ctrl, postID := m.ctx, m.ctrl, m.postID
	return func() tea.Msg {
		comments, err := ctrl.Comments(ctx, postID)
		return commentsMsg{comments: comments, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		m.notice = state.Notice(msg)
		return m, waitNotice(m.notices)

	case initDoneMsg:
		m.busy = false
		m.syncSession()

	case opDoneMsg:
		m.busy = false
		var cmd tea.Cmd
		if msg.err == nil {
			m.screen = msg.next
			if msg.nextForm != nil {
				m.form = *msg.nextForm
			}
			if msg.next == screenComments {
				m.busy = true
				cmd = m.loadComments()
			}
		}
		m.syncSession()
		m.clamp()
		return m, cmd

	case commentsMsg:
		m.busy = false
		if msg.err == nil {
			m.comments = msg.comments
		}

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.screen {
		case screenForm:
			return m.updateForm(msg)
		case screenSearch:
			return m.updateSearch(msg)
		case screenComments:
			return m.updateComments(msg)
		case screenFeed:
			return m.updateFeed(msg)
		}
	}
	return m, nil
}

// syncSession moves to the sign-in form when the session is gone and to the
// feed once it exists.
func (m *model) syncSession() {
	switch m.ctrl.Session() {
	case state.Anonymous:
		if m.screen != screenForm || !m.form.auth() {
			m.screen = screenForm
			m.form = newForm(formSignIn, "")
		}
	case state.Authenticated:
		if m.screen == screenChecking || (m.screen == screenForm && m.form.auth()) {
			m.screen = screenFeed
		}
	}
}

func (m *model) clamp() {
	n := len(m.ctrl.VisiblePosts())
	if m.tab == tabPolls {
		n = len(m.ctrl.VisiblePolls())
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if poll, ok := m.selectedPoll(); ok && m.option >= len(poll.Options) {
		m.option = 0
	}
}

func (m model) selectedPost() (entities.Post, bool) {
	posts := m.ctrl.VisiblePosts()
	if m.cursor < len(posts) {
		return posts[m.cursor], true
	}
	return entities.Post{}, false
}

func (m model) selectedPoll() (entities.Poll, bool) {
	polls := m.ctrl.VisiblePolls()
	if m.cursor < len(polls) {
		return polls[m.cursor], true
	}
	return entities.Poll{}, false
}

func typed(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.form.kind == formRegister {
			m.form = newForm(formSignIn, "")
		} else if !m.form.auth() {
			m.screen = screenFeed
			if m.form.kind == formComment {
				m.screen = screenComments
			}
		}
		return m, nil
	case tea.KeyCtrlN:
		if m.form.kind == formSignIn {
			m.form = newForm(formRegister, "")
		}
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.form.next()
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.prev()
		return m, nil
	case tea.KeyBackspace:
		m.form.backspace()
		return m, nil
	case tea.KeyEnter:
		if !m.form.last() {
			m.form.next()
			return m, nil
		}
		return m.submit()
	}
	if s, ok := typed(msg); ok {
		m.form.insert(s)
	}
	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	f := m.form
	ctx, ctrl := m.ctx, m.ctrl
	m.busy = true

	switch f.kind {
	case formSignIn:
		return m, run(screenFeed, nil, func() error {
			return ctrl.SignIn(ctx, f.value(0), f.fields[1].value)
		})
	case formRegister:
		next := newForm(formSignIn, "")
		next.fields[0].value = f.value(0)
		return m, run(screenForm, &next, func() error {
			return ctrl.Register(ctx, f.value(0), f.fields[2].value, f.value(1))
		})
	case formPost:
		return m, run(screenFeed, nil, func() error {
			return ctrl.CreatePost(ctx, f.value(0), f.value(1), f.value(2), f.value(3))
		})
	case formPoll:
		return m, run(screenFeed, nil, func() error {
			return ctrl.CreatePoll(ctx, f.value(0), splitOptions(f.value(1)), f.value(2), f.value(3))
		})
	case formComment:
		postID := m.postID
		return m, run(screenComments, nil, func() error {
			return ctrl.AddComment(ctx, postID, f.value(0))
		})
	case formProfile:
		return m, run(screenFeed, nil, func() error {
			return ctrl.UpdateProfile(ctx, f.profileUpdate())
		})
	}
	m.busy = false
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	term := m.ctrl.Search()
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.screen = screenFeed
		m.clamp()
		return m, nil
	case tea.KeyBackspace:
		if r := []rune(term); len(r) > 0 {
			term = string(r[:len(r)-1])
		}
	default:
		s, ok := typed(msg)
		if !ok {
			return m, nil
		}
		term += s
	}
	m.ctrl.SetSearch(term)
	m.cursor = 0
	return m, nil
}

func (m model) updateComments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.screen = screenFeed
		m.comments = nil
	case "a":
		m.screen = screenForm
		m.form = newForm(formComment, "")
	case "r":
		m.busy = true
		return m, m.loadComments()
	}
	return m, nil
}

func nextCategory(current string) string {
	if current == entities.CategoryAll {
		return entities.Categories[0].ID
	}
	for i, c := range entities.Categories {
		if c.ID == current && i+1 < len(entities.Categories) {
			return entities.Categories[i+1].ID
		}
	}
	return entities.CategoryAll
}

func (m model) updateFeed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx, ctrl := m.ctx, m.ctrl

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.tab = 1 - m.tab
		m.cursor, m.option = 0, 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.option = 0
		}
	case "down", "j":
		m.cursor++
		m.option = 0
		m.clamp()
	case "left", "h":
		if m.option > 0 {
			m.option--
		}
	case "right", "l":
		if poll, ok := m.selectedPoll(); ok && m.tab == tabPolls && m.option < len(poll.Options)-1 {
			m.option++
		}
	case "c":
		category := nextCategory(ctrl.Category())
		m.busy = true
		m.cursor, m.option = 0, 0
		return m, run(screenFeed, nil, func() error { return ctrl.SetCategory(ctx, category) })
	case "/":
		m.screen = screenSearch
	case "r":
		m.busy = true
		return m, run(screenFeed, nil, func() error { return ctrl.ReloadAll(ctx) })
	case "n":
		m.screen = screenForm
		if m.tab == tabPolls {
			m.form = newForm(formPoll, ctrl.Category())
		} else {
			m.form = newForm(formPost, ctrl.Category())
		}
	case "p":
		m.screen = screenForm
		m.form = newForm(formProfile, "")
	case "+":
		if post, ok := m.selectedPost(); ok && m.tab == tabPosts {
			m.busy = true
			return m, run(screenFeed, nil, func() error { return ctrl.LikePost(ctx, post.ID) })
		}
	case "enter":
		if m.tab == tabPosts {
			if post, ok := m.selectedPost(); ok {
				m.postID = post.ID
				m.comments = nil
				m.screen = screenComments
				m.busy = true
				return m, m.loadComments()
			}
			return m, nil
		}
		if poll, ok := m.selectedPoll(); ok && m.option < len(poll.Options) {
			optionID := poll.Options[m.option].ID
			m.busy = true
			return m, run(screenFeed, nil, func() error { return ctrl.Vote(ctx, poll.ID, optionID) })
		}
	case "o":
		m.busy = true
		signIn := newForm(formSignIn, "")
		return m, run(screenForm, &signIn, func() error {
			ctrl.SignOut(ctx)
			return nil
		})
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("FinanceHub"))
	s.WriteString("\n")

	switch m.screen {
	case screenChecking:
		s.WriteString("Checking session...\n")
	case screenForm:
		m.viewForm(&s)
	case screenFeed, screenSearch:
		m.viewFeed(&s)
	case screenComments:
		m.viewComments(&s)
	}

	if m.notice.Text != "" {
		s.WriteString("\n")
		if m.notice.Level == state.Error {
			s.WriteString(errorStyle.Render("✗ " + m.notice.Text))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.notice.Text))
		}
		s.WriteString("\n")
	}
	if m.busy && m.screen != screenChecking {
		s.WriteString(dimStyle.Render("working...") + "\n")
	}
	return s.String()
}

func (m model) viewForm(s *strings.Builder) {
	s.WriteString(promptStyle.Render(m.form.title) + "\n\n")
	for i, f := range m.form.fields {
		value := f.value
		if f.secret {
			value = strings.Repeat("•", len([]rune(value)))
		}
		label := f.label + ":"
		if i == m.form.focus {
			s.WriteString(selectedStyle.Render("> "+label) + " " + inputStyle.Render(value+"_") + "\n")
		} else {
			s.WriteString("  " + label + " " + value + "\n")
		}
	}
	s.WriteString("\n")
	switch m.form.kind {
	case formSignIn:
		s.WriteString(dimStyle.Render("tab next field • enter sign in • ctrl+n create account • ctrl+c quit"))
	case formRegister:
		s.WriteString(dimStyle.Render("tab next field • enter create account • esc back to sign in"))
	default:
		s.WriteString(dimStyle.Render("tab next field • enter submit • esc cancel"))
	}
	s.WriteString("\n")
}

func categoryTag(id string) string {
	c, ok := entities.LookupCategory(id)
	if !ok {
		return dimStyle.Render(id)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(c.Label)
}

func (m model) viewFeed(s *strings.Builder) {
	if u := m.ctrl.User(); u != nil {
		s.WriteString(dimStyle.Render("@"+u.Username) + "  ")
	}
	category := m.ctrl.Category()
	if category == entities.CategoryAll {
		s.WriteString("All categories")
	} else {
		s.WriteString(categoryTag(category))
	}
	if term := m.ctrl.Search(); term != "" || m.screen == screenSearch {
		search := "search: " + term
		if m.screen == screenSearch {
			search = inputStyle.Render(search + "_")
		}
		s.WriteString("  " + search)
	}
	s.WriteString("\n\n")

	posts, polls := "Posts", "Polls"
	if m.tab == tabPosts {
		posts = selectedStyle.Render("[Posts]")
	} else {
		polls = selectedStyle.Render("[Polls]")
	}
	s.WriteString(posts + "  " + polls + "\n\n")

	if m.tab == tabPosts {
		m.viewPosts(s)
		s.WriteString("\n" + dimStyle.Render("↑/↓ move • + like • enter comments • n new post • c category • / search • tab polls • p profile • o sign out • q quit"))
	} else {
		m.viewPolls(s)
		s.WriteString("\n" + dimStyle.Render("↑/↓ poll • ←/→ option • enter vote • n new poll • c category • / search • tab posts • o sign out • q quit"))
	}
	s.WriteString("\n")
}

func (m model) viewPosts(s *strings.Builder) {
	posts := m.ctrl.VisiblePosts()
	if len(posts) == 0 {
		s.WriteString(dimStyle.Render("No posts here yet.") + "\n")
		return
	}
	for i, p := range posts {
		marker := "  "
		content := truncate(p.Content, 80)
		if i == m.cursor {
			marker = selectedStyle.Render("> ")
			content = selectedStyle.Render(content)
		}
		s.WriteString(fmt.Sprintf("%s%s %s %s\n", marker, authorName(p.User), categoryTag(p.Category), dimStyle.Render(p.CreatedAt.Local().Format(timeLayout))))
		s.WriteString("    " + content + "\n")
		if len(p.Hashtags) > 0 {
			s.WriteString("    " + inputStyle.Render(tagList(p.Hashtags)) + "\n")
		}
		s.WriteString(dimStyle.Render(fmt.Sprintf("    ♥ %d  💬 %d", p.LikesCount, p.CommentsCount)) + "\n")
	}
}

func (m model) viewPolls(s *strings.Builder) {
	polls := m.ctrl.VisiblePolls()
	if len(polls) == 0 {
		s.WriteString(dimStyle.Render("No polls here yet.") + "\n")
		return
	}
	for i, p := range polls {
		selected := i == m.cursor
		marker := "  "
		question := p.Question
		if selected {
			marker = selectedStyle.Render("> ")
			question = selectedStyle.Render(question)
		}
		s.WriteString(fmt.Sprintf("%s%s %s\n", marker, question, categoryTag(p.Category)))
		for j, o := range p.Options {
			pct := 0
			if p.TotalVotes > 0 {
				pct = o.Votes * 100 / p.TotalVotes
			}
			bar := strings.Repeat("█", pct/5) + strings.Repeat("░", 20-pct/5)
			line := fmt.Sprintf("%-24s %s %3d%% (%d)", truncate(o.Text, 24), bar, pct, o.Votes)
			if selected && j == m.option {
				s.WriteString("    " + selectedStyle.Render("• "+line) + "\n")
			} else {
				s.WriteString("      " + line + "\n")
			}
		}
		s.WriteString(dimStyle.Render(fmt.Sprintf("    %d votes", p.TotalVotes)) + "\n")
	}
}

func (m model) viewComments(s *strings.Builder) {
	if post, ok := m.findPost(m.postID); ok {
		s.WriteString(authorName(post.User) + " " + categoryTag(post.Category) + "\n")
		s.WriteString(post.Content + "\n\n")
	}
	if len(m.comments) == 0 && !m.busy {
		s.WriteString(dimStyle.Render("No comments yet.") + "\n")
	}
	for _, c := range m.comments {
		s.WriteString(fmt.Sprintf("  %s %s\n", authorName(c.User), dimStyle.Render(c.CreatedAt.Local().Format(timeLayout))))
		s.WriteString("    " + c.Content + "\n")
	}
	s.WriteString("\n" + dimStyle.Render("a add comment • r reload • esc back") + "\n")
}

func (m model) findPost(id string) (entities.Post, bool) {
	for _, p := range m.ctrl.Posts() {
		if p.ID == id {
			return p, true
		}
	}
	return entities.Post{}, false
}
