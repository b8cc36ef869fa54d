// Package chat provides the conversation view for the chat UI.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driving"
)

// turnState tracks the in-flight question between submission and the
// final stream fragment.
type turnState struct {
	turn      domain.ChatTurn
	results   []domain.RetrievalResult
	fragments <-chan string
	started   time.Time
}

// View represents the conversation view with transcript, question
// input, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	viewport  viewport.Model
	spinner   spinner.Model
	statusbar *status.Bar

	answerService  driving.AnswerService
	libraryService driving.LibraryService
	ctx            context.Context

	session *domain.ChatSession
	current *turnState

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new conversation view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	answerService driving.AnswerService,
	libraryService driving.LibraryService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &View{
		styles:         s,
		keymap:         km,
		input:          input.NewQuestionInput(s),
		viewport:       viewport.New(80, 20),
		spinner:        sp,
		statusbar:      status.NewBar(s, km),
		answerService:  answerService,
		libraryService: libraryService,
		ctx:            context.Background(),
		session:        domain.NewChatSession(uuid.NewString()),
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadLibrary())
}

// Update handles messages for the conversation view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.LibraryLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.statusbar.SetCollection(msg.Documents, msg.Chunks)
		return v, nil

	case messages.RetrievalCompleted:
		return v.handleRetrievalCompleted(msg)

	case messages.StreamStarted:
		return v.handleStreamStarted(msg)

	case messages.FragmentReceived:
		return v.handleFragment(msg)

	case spinner.TickMsg:
		if v.current == nil {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.refreshTranscript()
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, v.keymap.ScrollUp) || keymap.Matches(keyStr, v.keymap.ScrollDown) {
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	if keymap.Matches(keyStr, v.keymap.Submit) {
		return v.submitQuestion()
	}

	// One turn at a time: typing resumes when the stream closes.
	if v.current != nil {
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submitQuestion starts a turn for the typed question.
func (v *View) submitQuestion() (*View, tea.Cmd) {
	if v.current != nil {
		return v, nil
	}
	question := v.input.Value()
	if question == "" {
		return v, nil
	}

	v.current = &turnState{
		turn: domain.ChatTurn{
			ID:       uuid.NewString(),
			Question: question,
			AskedAt:  time.Now(),
		},
		started: time.Now(),
	}
	v.input.Reset()
	v.input.Blur()
	v.statusbar.SetState(status.StateRetrieving)
	v.refreshTranscript()

	return v, tea.Batch(v.spinner.Tick, v.retrieve(question))
}

// retrieve runs context retrieval off the UI goroutine.
func (v *View) retrieve(question string) tea.Cmd {
	return func() tea.Msg {
		results, err := v.answerService.Retrieve(v.ctx, question, 0)
		return messages.RetrievalCompleted{Results: results, Err: err}
	}
}

func (v *View) handleRetrievalCompleted(msg messages.RetrievalCompleted) (*View, tea.Cmd) {
	if v.current == nil {
		return v, nil
	}
	if msg.Err != nil {
		v.failTurn(msg.Err)
		return v, nil
	}

	v.current.results = msg.Results
	v.current.turn.LowConfidence = domain.AverageSimilarity(msg.Results) < domain.LowConfidenceThreshold
	v.statusbar.SetState(status.StateAnswering)

	return v, v.startStream(v.current.turn.Question, msg.Results)
}

// startStream opens the answer stream for the retrieved context.
func (v *View) startStream(question string, results []domain.RetrievalResult) tea.Cmd {
	return func() tea.Msg {
		stream, err := v.answerService.AnswerStream(v.ctx, question, results)
		return messages.StreamStarted{Stream: stream, Err: err}
	}
}

func (v *View) handleStreamStarted(msg messages.StreamStarted) (*View, tea.Cmd) {
	if v.current == nil {
		return v, nil
	}
	if msg.Err != nil {
		v.failTurn(msg.Err)
		return v, nil
	}

	v.current.turn.Model = msg.Stream.Model
	v.current.turn.Sources = msg.Stream.Sources
	v.current.fragments = msg.Stream.Fragments

	return v, waitForFragment(msg.Stream.Fragments)
}

func (v *View) handleFragment(msg messages.FragmentReceived) (*View, tea.Cmd) {
	if v.current == nil {
		return v, nil
	}
	if msg.Closed {
		v.finishTurn()
		return v, nil
	}

	v.current.turn.Answer += msg.Fragment
	v.refreshTranscript()
	return v, waitForFragment(v.current.fragments)
}

// waitForFragment pulls the next answer increment. Yield order is
// preserved because each receive schedules exactly one successor.
func waitForFragment(fragments <-chan string) tea.Cmd {
	return func() tea.Msg {
		fragment, ok := <-fragments
		return messages.FragmentReceived{Fragment: fragment, Closed: !ok}
	}
}

// finishTurn moves the in-flight turn into session history.
func (v *View) finishTurn() {
	v.current.turn.Elapsed = time.Since(v.current.started)
	v.session.AddTurn(v.current.turn)
	v.current = nil
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.input.Focus()
	v.refreshTranscript()
}

// failTurn records the failure in the transcript so the exchange is
// not silently lost.
func (v *View) failTurn(err error) {
	v.current.turn.Answer = "⚠ " + err.Error()
	v.current.turn.Elapsed = time.Since(v.current.started)
	v.session.AddTurn(v.current.turn)
	v.current = nil
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
	v.input.Focus()
	v.refreshTranscript()
}

// refreshTranscript re-renders the conversation and keeps the viewport
// pinned to the newest text.
func (v *View) refreshTranscript() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if v.session.Len() == 0 && v.current == nil {
		return v.styles.Muted.Render("Ask a question to get started.")
	}

	sections := make([]string, 0, v.session.Len()+1)
	for i := range v.session.Turns {
		sections = append(sections, v.renderTurn(&v.session.Turns[i], true))
	}
	if v.current != nil {
		sections = append(sections, v.renderTurn(&v.current.turn, false))
	}

	return strings.Join(sections, "\n\n")
}

func (v *View) renderTurn(turn *domain.ChatTurn, done bool) string {
	lines := []string{
		v.styles.UserLabel.Render("You: ") + v.styles.Normal.Render(turn.Question),
	}

	answer := turn.Answer
	if !done && answer == "" {
		answer = v.spinner.View() + " thinking..."
	}
	lines = append(lines, v.styles.AssistantLabel.Render("Grimoire: ")+v.styles.Normal.Render(answer))

	if done {
		if turn.LowConfidence {
			lines = append(lines, v.styles.Warning.Render("Note: weakly grounded answer (low retrieval confidence)"))
		}
		if len(turn.Sources) > 0 {
			refs := make([]string, 0, len(turn.Sources))
			for _, c := range turn.Sources {
				refs = append(refs, fmt.Sprintf("%s #%d", c.Source, c.ChunkIndex))
			}
			lines = append(lines, v.styles.Muted.Render("Sources: "+strings.Join(refs, ", ")))
		}
		if turn.Model != "" {
			lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("%s, %.1fs", turn.Model, turn.Elapsed.Seconds())))
		}
	}

	return strings.Join(lines, "\n")
}

// loadLibrary fetches the collection summary for the status bar.
func (v *View) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		docs, err := v.libraryService.Documents(v.ctx)
		if err != nil {
			return messages.LibraryLoaded{Err: err}
		}
		chunks := 0
		for _, d := range docs {
			chunks += d.ChunkCount
		}
		return messages.LibraryLoaded{Documents: len(docs), Chunks: chunks}
	}
}

// View renders the conversation view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Grimoire Chat"),
		"",
		v.viewport.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	// Header, spacing, bordered input, status line.
	transcriptHeight := height - 8
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.viewport.Width = width
	v.viewport.Height = transcriptHeight
	v.refreshTranscript()
}

// Session returns the conversation history.
func (v *View) Session() *domain.ChatSession {
	return v.session
}

// Busy returns whether a turn is in flight.
func (v *View) Busy() bool {
	return v.current != nil
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the question input has focus.
func (v *View) InputFocused() bool {
	return v.input.Focused()
}
