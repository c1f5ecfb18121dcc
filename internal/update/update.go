package update

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/internal/dispatcher"
	"github.com/Rorical/LeafDesk/internal/gateway"
	"github.com/Rorical/LeafDesk/internal/models"
)

// Deps are the collaborators the update handlers drive.
type Deps struct {
	Bindings   *bindings.Bindings
	Dispatcher *dispatcher.EventDispatcher
	Keys       KeyMap
	Logger     *slog.Logger
}

// Wire connects the widgets of appModel to their bindings.
func Wire(appModel *models.AppModel, b *bindings.Bindings) {
	appModel.Calendar.OnEventClick = func(ev gateway.CalendarEvent) tea.Cmd {
		return b.DeleteEvent(appModel.Calendar, ev.ID, ev.Title, appModel.Tasks.Remove)
	}
}

func HandleUpdate(appModel *models.AppModel, msg tea.Msg, d Deps) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(appModel, msg, d)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil
	case TickMsg:
		return HandleTickMsg(appModel)
	case dialog.ClosedMsg:
		appModel.Dialog.HandleClosed(msg)
		return nil
	case dispatcher.CoreEventMsg:
		return HandleCoreEvent(appModel, msg, d)
	}
	return nil
}
