package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// App is the root chat application model following the Elm
// architecture. It implements tea.Model for use with Bubbletea.
type App struct {
	ports    *Ports
	ctx      context.Context
	styles   *styles.Styles
	chatView *chat.View

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating chat app: %w", err)
	}

	s := styles.DefaultStyles()
	chatView := chat.NewView(s, nil, ports.Answer, ports.Library)

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		chatView: chatView,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("grimoire chat"),
		a.chatView.Init(),
	)
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			return a, tea.Quit
		}

	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// View renders the application.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.chatView.View()
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
}

// Session returns the conversation history.
func (a *App) Session() *domain.ChatSession {
	return a.chatView.Session()
}

// Busy returns whether a question is being answered.
func (a *App) Busy() bool {
	return a.chatView.Busy()
}

// Ready returns whether the application is ready to render.
func (a *App) Ready() bool {
	return a.ready
}

// Err returns the last error surfaced by the chat view.
func (a *App) Err() error {
	return a.chatView.Err()
}
