package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/models"
	"github.com/Rorical/LeafDesk/internal/widgets"
	"github.com/Rorical/LeafDesk/ui/styles"
)

func RenderTabs(active models.View, width int) string {
	tabs := make([]string, 0, len(models.Views()))
	for i, v := range models.Views() {
		tabs = append(tabs, styles.TabStyle(v == active).Render(fmt.Sprintf("%d %s", i+1, v)))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func RenderSidebar(active models.View, profile string, height int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("LeafDesk") + "\n\n")
	for _, v := range models.Views() {
		marker := "  "
		if v == active {
			marker = "> "
		}
		b.WriteString(marker + v.String() + "\n")
	}
	if profile != "" {
		b.WriteString("\n" + styles.MutedStyle().Render("profile: "+profile))
	}
	return styles.SidebarStyle(height).Render(b.String())
}

func RenderTasks(rows []bindings.TaskRow, cursor int) string {
	if len(rows) == 0 {
		return styles.EmptyStyle().Render("No tasks for today.")
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Today's Tasks") + "\n")
	for i, r := range rows {
		box := "[ ]"
		if r.Completed {
			box = "[x]"
		}
		when := "all day"
		if !r.AllDay && !r.Due.IsZero() {
			when = r.Due.Format("15:04")
		}
		title := r.Title
		if r.Completed {
			title = styles.DoneStyle().Render(title)
		}
		line := fmt.Sprintf("%s %s  %s", box, title, styles.MutedStyle().Render(when))
		b.WriteString(styles.RowStyle(i == cursor, r.Busy).Render(line) + "\n")
	}
	return b.String()
}

func RenderCalendar(cal *widgets.Calendar) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render(cal.Month().Format("January 2006")) + "\n")

	days := cal.Days()
	if len(days) == 0 {
		b.WriteString(styles.EmptyStyle().Render("No tasks this month."))
		return b.String()
	}
	selected, hasSelection := cal.Selected()
	for _, day := range days {
		b.WriteString(styles.MutedStyle().Render(day.Date.Format("Mon 02")) + "\n")
		for _, ev := range day.Events {
			title := ev.Title
			if ev.Completed {
				title = styles.DoneStyle().Render(title)
			}
			if !ev.AllDay {
				title = ev.Start.Format("15:04") + " " + title
			}
			isSel := hasSelection && ev.ID == selected.ID
			b.WriteString(styles.RowStyle(isSel, false).Render("  "+title) + "\n")
		}
	}
	return b.String()
}

func RenderAdmin(appModel *models.AppModel, width int) string {
	var b strings.Builder
	b.WriteString(RenderCharts(appModel.Charts, appModel.ChartsLoaded, width) + "\n")

	for _, s := range []models.AdminSection{models.SectionUsers, models.SectionLogbook} {
		b.WriteString(styles.TabStyle(s == appModel.Section).Render(s.String()))
	}
	b.WriteString("\n")

	if appModel.Section == models.SectionUsers {
		users := appModel.Users.Items()
		if len(users) == 0 {
			b.WriteString(styles.EmptyStyle().Render("No users."))
		}
		for i, u := range users {
			line := fmt.Sprintf("%-20s %-28s %-8s %s", u.Name, u.Email, u.Role, u.CropLocation)
			b.WriteString(styles.RowStyle(i == appModel.AdminCursor, u.Busy).Render(line) + "\n")
		}
		return b.String()
	}

	entries := appModel.Logbook.Items()
	if len(entries) == 0 {
		b.WriteString(styles.EmptyStyle().Render("Logbook is empty."))
	}
	for i, e := range entries {
		b.WriteString(styles.RowStyle(i == appModel.AdminCursor, false).Render(e.Title) + "\n")
	}
	return b.String()
}
