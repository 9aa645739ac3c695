package tasks

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer — канал наблюдения: превращает результаты операций реестра
// в человекочитаемые статусные строки.
//
// Реестр ничего не печатает сам, поэтому ядро тестируется без перехвата вывода,
// а формат сообщений живёт только здесь.
type Printer struct {
	out   io.Writer
	color bool

	doneStyle    lipgloss.Style
	pendingStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewPrinter создаёт Printer. При color=true метки статуса и ошибки
// раскрашиваются через lipgloss (если вывод это поддерживает).
func NewPrinter(out io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:          out,
		color:        color,
		doneStyle:    r.NewStyle().Foreground(lipgloss.Color("42")),
		pendingStyle: r.NewStyle().Foreground(lipgloss.Color("214")),
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Added печатает подтверждение добавления задачи.
// Описание выводится как есть, без экранирования.
func (p *Printer) Added(t Task) {
	p.println(fmt.Sprintf("Added: \"%s\"", t.Description))
}

// Completed печатает подтверждение выполнения задачи.
func (p *Printer) Completed(t Task) {
	p.println(fmt.Sprintf("Completed: \"%s\"", t.Description))
}

// Removed печатает описание удалённой задачи.
func (p *Printer) Removed(t Task) {
	p.println(fmt.Sprintf("Removed: \"%s\"", t.Description))
}

// Updated печатает новое описание задачи вместе с её ID.
func (p *Printer) Updated(t Task) {
	p.println(fmt.Sprintf("Updated ID %d: \"%s\"", t.ID, t.Description))
}

// Cleared печатает, сколько выполненных задач удалено.
func (p *Printer) Cleared(n int) {
	p.println(fmt.Sprintf("Cleared %d completed task(s).", n))
}

// Tasks печатает список задач: заголовок и строку на задачу.
// Пустой список печатается как "No tasks available.".
func (p *Printer) Tasks(ts []Task) {
	if len(ts) == 0 {
		p.println(Message(ErrEmptyRegistry))
		return
	}
	p.println("Your Task List:")
	for _, t := range ts {
		p.println(p.line(t))
	}
}

// Filtered печатает результат фильтра: только строки задач, без заголовка.
// Пустой результат ничего не печатает.
func (p *Printer) Filtered(ts []Task) {
	for _, t := range ts {
		p.println(p.line(t))
	}
}

// Error печатает сообщение об ошибке операции.
func (p *Printer) Error(err error) {
	msg := Message(err)
	if p.color {
		msg = p.errorStyle.Render(msg)
	}
	p.println(msg)
}

func (p *Printer) line(t Task) string {
	label := t.StatusLabel()
	if p.color {
		if t.Done {
			label = p.doneStyle.Render(label)
		} else {
			label = p.pendingStyle.Render(label)
		}
	}
	return fmt.Sprintf("%d. %s - %s (Due: %s)", t.ID, t.Description, label, FormatDeadline(t.Deadline))
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.out, s)
}

// Message переводит ошибку реестра в текст статусной строки.
func Message(err error) string {
	var te *TaskError
	hasPayload := errors.As(err, &te)

	switch {
	case errors.Is(err, ErrEmptyDescription):
		return "Error: Task description cannot be empty."
	case errors.Is(err, ErrInvalidDeadline):
		return "Error: Invalid deadline."
	case errors.Is(err, ErrDuplicateDescription) && hasPayload:
		return fmt.Sprintf("Error: Task \"%s\" already exists.", te.Description)
	case errors.Is(err, ErrTaskNotFound) && hasPayload:
		return fmt.Sprintf("Error: Task with ID %d not found.", te.ID)
	case errors.Is(err, ErrAlreadyCompleted) && hasPayload:
		return fmt.Sprintf("Error: Task \"%s\" is already completed.", te.Description)
	case errors.Is(err, ErrNoCompletedTasks):
		return "No completed tasks to clear."
	case errors.Is(err, ErrEmptyRegistry):
		return "No tasks available."
	default:
		return "Error: " + err.Error()
	}
}
