package tui

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pensieve-md/pensieve/pkg/journal"
)

type model struct {
	dates   []string
	entries []journal.Entry

	currentDate string // Date key of the day whose entries are loaded

	columnFocus int // 0 = dates, 1 = entries
	width       int // Current terminal width (for layout)
	height      int // Current terminal height
	err         error

	store *journal.Store
	db    *sql.DB

	journalDir string
	dbFilename string

	quitting bool

	dateCursor    int    // Index of selected date
	pendingSelect string // Date key to re-select after a dates reload

	entryCursor           int // Index of selected entry
	entryCreating         bool
	entryCreatingError    string
	entryInput            textinput.Model
	entryDeleting         bool
	entryDeleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"
}

// Initialize TUI model
func initModel(store *journal.Store, db *sql.DB, journalDir, dbPath string) model {
	// Initialize the text input field for the new entry form
	input := textinput.New()
	input.Placeholder = "What happened?"
	input.CharLimit = 1024

	dbFilename := ""
	if db != nil {
		dbFilename = filepath.Base(dbPath)
	}

	return model{
		dates:   []string{},
		entries: []journal.Entry{},

		columnFocus: 0,
		width:       0,
		height:      0,

		store: store,
		db:    db,

		journalDir: journalDir,
		dbFilename: dbFilename,

		dateCursor:  0,
		entryCursor: 0,
		entryInput:  input,
	}
}

func (m model) Init() tea.Cmd {
	return loadDates(m.store)
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Save the new window size in the model for responsive layout
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case datesMsg:
		// When dates are loaded from the journal directory, store them in model
		m.dates = msg
		if len(m.dates) == 0 {
			m.entries = []journal.Entry{}
			m.currentDate = ""
			return m, nil
		}
		// Re-select a freshly written day, otherwise keep the cursor in range
		m.dateCursor = 0
		if m.pendingSelect != "" {
			for i, key := range m.dates {
				if key == m.pendingSelect {
					m.dateCursor = i
					break
				}
			}
			m.pendingSelect = ""
		}
		return m, loadEntries(m.store, m.dates[m.dateCursor])

	case entriesMsg:
		// Store loaded entries for the currently selected day
		m.entries = msg.entries
		m.currentDate = msg.dateKey
		// Keep the entry selection in range after reloads
		if m.entryCursor >= len(m.entries) {
			m.entryCursor = len(m.entries) - 1
		}
		if m.entryCursor < 0 {
			m.entryCursor = 0
		}
		if len(m.entries) == 0 {
			m.columnFocus = 0
		}
		return m, nil

	case dayChangedMsg:
		// A write went through; refresh the dates list and the changed day
		m.pendingSelect = msg.dateKey
		return m, loadDates(m.store)

	// Handle key presses for navigation and input
	case tea.KeyMsg:
		if m.entryCreating {
			// Creating New Entry Mode
			switch msg.Type {
			case tea.KeyEnter:
				// Validate that the entry content is not empty
				if strings.TrimSpace(m.entryInput.Value()) == "" {
					m.entryCreatingError = "Entry content cannot be empty"
					return m, nil
				}
				content := strings.TrimSpace(m.entryInput.Value())
				target := m.targetDateKey()

				// Exit create mode and reset the form input
				m.entryCreating = false
				m.entryCreatingError = ""
				m.entryInput.Reset()
				return m, appendEntry(m.store, target, content)

			case tea.KeyEsc:
				// Cancel entry creation and reset the form input
				m.entryCreating = false
				m.entryCreatingError = ""
				m.entryInput.Reset()
				return m, nil
			}

			// Route character input to the text field
			var cmd tea.Cmd
			m.entryInput, cmd = m.entryInput.Update(msg)
			return m, cmd
		}

		if m.entryDeleting {
			// Deleting Entry Mode
			switch msg.String() {
			case "up", "k":
				m.entryDeleteConfirmIdx = 0

			case "down", "j":
				m.entryDeleteConfirmIdx = 1

			case "enter":
				m.entryDeleting = false
				if m.entryDeleteConfirmIdx == 0 {
					// Confirmed deletion of selected entry
					return m, deleteEntry(m.store, m.db, m.currentDate, m.entries, m.entryCursor)
				}
				// Chosen No, cancel deletion
				return m, nil

			case "esc":
				// Cancel deletion on Escape
				m.entryDeleting = false
				return m, nil
			}
			return m, nil
		}

		// Root Navigation Mode
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			// Exit alt screen before quitting so the goodbye message displays
			return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

		case "up", "k":
			// Move selection up (stop at top)
			if m.columnFocus == 0 && m.dateCursor > 0 {
				m.dateCursor--
				m.entryCursor = 0
				return m, loadEntries(m.store, m.dates[m.dateCursor])
			}
			if m.columnFocus == 1 && m.entryCursor > 0 {
				m.entryCursor--
			}

		case "down", "j":
			// Move selection down (stop at last item)
			if m.columnFocus == 0 && m.dateCursor < len(m.dates)-1 {
				m.dateCursor++
				m.entryCursor = 0
				return m, loadEntries(m.store, m.dates[m.dateCursor])
			}
			if m.columnFocus == 1 && m.entryCursor < len(m.entries)-1 {
				m.entryCursor++
			}

		case "right", "l":
			// Move selection right to the entries column
			if m.columnFocus < 1 && len(m.entries) > 0 {
				m.columnFocus++
				m.entryCursor = 0
			}
			return m, nil

		case "left", "h":
			// Move selection left to the dates column
			if m.columnFocus > 0 {
				m.columnFocus--
			}
			return m, nil

		case "n":
			m.entryCreatingError = ""
			m.entryInput.Reset()
			m.entryInput.Focus()
			m.entryCreating = true
			return m, nil

		case "i":
			// Toggle the important marker on the selected entry
			if m.columnFocus == 1 && len(m.entries) > 0 {
				return m, toggleImportant(m.store, m.currentDate, m.entries, m.entryCursor)
			}

		case "d":
			if m.columnFocus == 1 && len(m.entries) > 0 {
				m.entryDeleteConfirmIdx = 1
				m.entryDeleting = true
			}
			return m, nil
		}
	}

	return m, nil
}

// The day new entries are written to: the selected one, or today when the
// journal is still empty.
func (m model) targetDateKey() string {
	if len(m.dates) > 0 {
		return m.dates[m.dateCursor]
	}
	return journal.DateKey(time.Now())
}

// Human-readable label for a date key, falling back to the raw key
func dateLabel(key string) string {
	day, err := journal.ParseDateKey(key)
	if err != nil {
		return key
	}
	return day.Format("Jan 02, 2006")
}

// One-line label for an entry in the middle column
func entryLabel(e journal.Entry) string {
	label := "- " + e.Content
	if e.HasTime {
		label = e.Timestamp.Format("15:04") + " " + e.Content
	}
	if e.Important {
		label = "* " + label
	}
	return label
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Closing the pensieve... Everything is written down.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	// Render the title bar (full width)
	titleBar := titleStyle.Width(m.width).Render("Pensieve - Markdown journal")

	// Calculate column widths (left ~25%, middle ~25%, right ~50%)
	halfWidth := m.width / 2
	leftWidth := halfWidth / 2
	middleWidth := halfWidth - leftWidth
	rightWidth := m.width - (leftWidth + middleWidth)

	bordersAndPaddingWidth := 4

	// Update input width to match right pane
	m.entryInput.Width = rightWidth - bordersAndPaddingWidth

	// Left column: Dates list and Info
	var datesBuilder, infoBuilder strings.Builder

	// Calculate heights for the split panels (subtract 4 for borders and padding)
	quarterHeight := (m.height - bordersAndPaddingWidth) / 4

	// Build dates section
	datesBuilder.WriteString(subtitleStyle.Width(leftWidth - bordersAndPaddingWidth).Render("  Days"))
	datesBuilder.WriteString("\n\n")

	if len(m.dates) == 0 {
		datesBuilder.WriteString("No days yet. Press 'n' to write the first entry.\n")
	} else {
		for i, key := range m.dates {
			pointer := "  "
			itemStyle := inactiveStyle
			if m.dateCursor == i {
				pointer = "> "
				itemStyle = selectedStyle
			}
			availableWidth := leftWidth - len(pointer) - bordersAndPaddingWidth - 1
			label := clipLine(dateLabel(key), availableWidth)
			datesBuilder.WriteString(pointer + itemStyle.Render(label) + "\n")
		}
	}

	// Build info section
	var databaseStatus int
	dbLabel := "disabled"
	if m.dbFilename != "" {
		databaseStatus = 1
		dbLabel = m.dbFilename
	}
	infoBuilder.WriteString(fmt.Sprintf("Journal directory: %v\nSidecar database: %v\n",
		TextStatusColorize(filepath.Base(m.journalDir), 1),
		TextStatusColorize(dbLabel, databaseStatus)))

	// Style and render the dates panel (top)
	datesPanelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2)
	datesPanel := datesPanelStyle.Width(leftWidth).Height(quarterHeight * 3).
		Render(datesBuilder.String())

	// Style and render the info panel (bottom)
	infoPanelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(1, 2)
	infoPanel := infoPanelStyle.Width(leftWidth).Height(quarterHeight).
		Render(infoBuilder.String())

	// Combine the panels vertically
	leftPanel := lipgloss.JoinVertical(lipgloss.Left, datesPanel, infoPanel)

	// Middle column: Entries of the selected day
	var middleBuilder strings.Builder
	middleBuilder.WriteString(subtitleStyle.Width(middleWidth - bordersAndPaddingWidth).Render("  Entries"))
	middleBuilder.WriteString("\n\n")

	if len(m.dates) == 0 {
		middleBuilder.WriteString("  No day selected.\n")
	} else if len(m.entries) == 0 {
		middleBuilder.WriteString("  No entries yet.\n")
	} else {
		for i, entry := range m.entries {
			pointer := "  "
			itemStyle := inactiveStyle
			if entry.Important {
				itemStyle = importantStyle
			}
			if i == m.entryCursor && m.columnFocus == 1 {
				pointer = "> "
				itemStyle = selectedStyle
			}
			availableWidth := middleWidth - len(pointer) - bordersAndPaddingWidth - 1
			label := clipLine(entryLabel(entry), availableWidth)
			middleBuilder.WriteString(pointer + itemStyle.Render(label) + "\n")
		}
	}

	// Right column: Entry preview, New Entry form, or delete confirmation
	var rightBuilder strings.Builder

	rightBuilderSubtitleText := "Entry"
	if m.entryCreating {
		rightBuilderSubtitleText = "New Entry"
	}
	if m.entryDeleting {
		rightBuilderSubtitleText = "Delete Entry"
	}
	rightBuilder.WriteString(subtitleStyle.Width(rightWidth - bordersAndPaddingWidth).Render(rightBuilderSubtitleText))
	rightBuilder.WriteString("\n\n")

	if m.entryCreating {
		// Show the form for writing a new entry
		rightBuilder.WriteString("Day: " + textStyle.Render(dateLabel(m.targetDateKey())) + "\n")
		rightBuilder.WriteString("Content: " + m.entryInput.View() + "\n\n")
		rightBuilder.WriteString("(enter to submit, esc to cancel)")

		if m.entryCreatingError != "" {
			rightBuilder.WriteString("\n\n" + textRedStyle.Render(m.entryCreatingError) + "\n")
		}
	} else if m.entryDeleting {
		// Show delete confirmation prompt; the entry goes to the trash
		rightBuilder.WriteString("Content: " + textRedStyle.Render(
			clipLine(m.entries[m.entryCursor].Content, rightWidth-bordersAndPaddingWidth-10)) + "\n\n")
		yesOpt, noOpt := "Yes", "No"
		if m.entryDeleteConfirmIdx == 0 {
			yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
			noOpt = inactiveStyle.Render("  " + noOpt)
		} else {
			yesOpt = inactiveStyle.Render("  " + yesOpt)
			noOpt = selectedStyle.Render(" >" + noOpt)
		}
		rightBuilder.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
		rightBuilder.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
	} else if m.columnFocus == 1 && m.entryCursor < len(m.entries) {
		entry := m.entries[m.entryCursor]

		timeLine := "-"
		if entry.HasTime {
			timeLine = entry.Timestamp.Format("15:04")
		}
		rightBuilder.WriteString(fieldHeaderStyle.Render("Day: ") + textStyle.Render(dateLabel(m.currentDate)) + "\n")
		rightBuilder.WriteString(fieldHeaderStyle.Render("Time: ") + textStyle.Render(timeLine) + "\n")
		rightBuilder.WriteString(fieldHeaderStyle.Render("Source: ") + textStyle.Render(string(entry.Source)) + "\n")
		if entry.Important {
			rightBuilder.WriteString(fieldHeaderStyle.Render("Important: ") + importantStyle.Render("yes") + "\n")
		}
		rightBuilder.WriteString("\n" + textStyle.Render(entry.Content))
	} else {
		rightBuilder.WriteString("Select an entry to view details.")
	}

	panelHeightPadding := 3

	// Middle panel: border on the right side only
	middlePanelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2)
	middlePanel := middlePanelStyle.Width(middleWidth).Height(m.height - panelHeightPadding).
		Render(middleBuilder.String())

	// Right panel: no border (open content area)
	rightPanelStyle := lipgloss.NewStyle().Padding(0, 2)
	rightPanel := rightPanelStyle.Width(rightWidth).Height(m.height - panelHeightPadding).
		Render(rightBuilder.String())

	// Join the three panels horizontally (top aligned)
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)

	// Footer with usage instructions
	footerText := "\n↑/↓ to navigate • ←/→ to switch columns • n to write • i to mark important • d to delete • q to quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	// Assemble final UI string
	return titleBar + "\n\n" + columns + footerBar
}

// Create and start the Bubble Tea TUI
func ShowTUI(store *journal.Store, db *sql.DB, journalDir, dbPath string) error {
	p := tea.NewProgram(initModel(store, db, journalDir, dbPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
