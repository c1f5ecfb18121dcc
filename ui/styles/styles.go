package styles

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("62")
	colorMuted  = lipgloss.Color("241")
	colorLeaf   = lipgloss.Color("71")
	colorDanger = lipgloss.Color("160")
	colorBar    = lipgloss.Color("174")
)

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(max(width-4, 10))
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(colorMuted).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(colorLeaf).
		Bold(true).
		Padding(0, 1)
}

func TabStyle(active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 2)
	if active {
		return s.Foreground(lipgloss.Color("230")).Background(colorAccent).Bold(true)
	}
	return s.Foreground(colorMuted)
}

func SidebarStyle(height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(colorMuted).
		Padding(0, 1).
		Height(max(height, 1))
}

func RowStyle(selected, busy bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	switch {
	case busy:
		return s.Foreground(colorMuted).Italic(true)
	case selected:
		return s.Foreground(lipgloss.Color("39")).Bold(true)
	}
	return s
}

func DoneStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
}

func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func EmptyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted).Italic(true).Padding(1, 2)
}

func ButtonStyle(disabled bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1).MarginRight(1)
	if disabled {
		return s.Foreground(colorMuted).Background(lipgloss.Color("236"))
	}
	return s.Foreground(lipgloss.Color("230")).Background(colorLeaf)
}

// DialogStyle dims the border while the dialog is closing.
func DialogStyle(width int, closing bool) lipgloss.Style {
	border := colorAccent
	if closing {
		border = colorMuted
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(min(max(width-8, 30), 64))
}

func DialogButtonStyle(danger, focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 2).MarginRight(2)
	bg := lipgloss.Color("238")
	if danger {
		bg = colorDanger
	} else if focused {
		bg = colorAccent
	}
	s = s.Background(bg).Foreground(lipgloss.Color("230"))
	if focused {
		s = s.Bold(true).Underline(true)
	}
	return s
}

func SubjectStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
}

func BarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorBar)
}

func SliceStyle(i int) lipgloss.Style {
	palette := []lipgloss.Color{colorLeaf, colorDanger, colorAccent, colorBar}
	return lipgloss.NewStyle().Foreground(palette[i%len(palette)])
}
