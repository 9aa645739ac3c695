package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"task-list/internal/tasks"
)

const helpText = `Commands:
  add <deadline> <description>   add a task; deadline is one of
                                 2006-01-02, 2006-01-02 15:04,
                                 2006-01-02T15:04, 2006-01-02T15:04:05Z07:00
  done <id>                      mark a task as completed
  delete <id>                    remove a task
  edit <id> <description>        change a task description
  list                           show all tasks
  pending                        show pending tasks
  completed                      show completed tasks
  clear                          remove all completed tasks
  help                           show this help
  quit                           leave the shell`

// Session — одна интерактивная сессия поверх реестра.
// Реестр принадлежит сессии и живёт, пока живёт процесс.
type Session struct {
	reg    *tasks.Registry
	out    io.Writer
	print  *tasks.Printer
	prompt string
}

// NewSession создаёт сессию, пишущую статусные строки в out.
func NewSession(reg *tasks.Registry, out io.Writer, color bool) *Session {
	return &Session{
		reg:   reg,
		out:   out,
		print: tasks.NewPrinter(out, color),
	}
}

// Run читает команды построчно, пока не встретит quit или конец ввода.
func (s *Session) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !scanner.Scan() {
			break
		}
		if !s.Exec(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

// Exec выполняет одну команду. Возвращает false, если сессию пора закрыть.
func (s *Session) Exec(line string) bool {
	name, rest := splitWord(line)

	switch strings.ToLower(name) {
	case "":
		// пустая строка
	case "add":
		s.add(rest)
	case "done":
		if id, ok := s.parseID(rest); ok {
			t, err := s.reg.MarkDone(id)
			s.report(t, err, s.print.Completed)
		}
	case "delete", "rm":
		if id, ok := s.parseID(rest); ok {
			t, err := s.reg.Delete(id)
			s.report(t, err, s.print.Removed)
		}
	case "edit":
		rawID, desc := splitWord(rest)
		if id, ok := s.parseID(rawID); ok {
			t, err := s.reg.Edit(id, desc)
			s.report(t, err, s.print.Updated)
		}
	case "list", "ls":
		list, err := s.reg.List()
		if err != nil {
			s.print.Error(err)
			return true
		}
		s.print.Tasks(list)
	case "pending":
		s.print.Filtered(s.reg.Filter(false))
	case "completed":
		s.print.Filtered(s.reg.Filter(true))
	case "clear":
		n, err := s.reg.ClearFinished()
		if err != nil {
			s.print.Error(err)
			return true
		}
		s.print.Cleared(n)
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type \"help\" for commands.\n", name)
	}
	return true
}

// add разбирает "<deadline> <description>" и добавляет задачу.
//
// Сначала пробуем дедлайн из двух слов ("2006-01-02 15:04"), потом из одного.
// Ошибку разбора отдаёт реестру нулевым временем, чтобы пустое описание
// по-прежнему проверялось первым.
func (s *Session) add(args string) {
	first, rest := splitWord(args)
	second, tail := splitWord(rest)

	deadline, err := tasks.ParseDeadline(first + " " + second)
	description := tail
	if second == "" || err != nil {
		deadline, _ = tasks.ParseDeadline(first)
		description = rest
	}

	t, err := s.reg.Add(description, deadline)
	s.report(t, err, s.print.Added)
}

// report печатает ошибку либо передаёт задачу в функцию вывода успеха.
func (s *Session) report(t tasks.Task, err error, ok func(tasks.Task)) {
	if err != nil {
		s.print.Error(err)
		return
	}
	ok(t)
}

// splitWord отрезает первое слово по любому пробельному символу.
// Хвост возвращается без пробелов по краям, внутренние пробелы сохраняются.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func (s *Session) parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintf(s.out, "Error: Invalid ID %q.\n", raw)
		return 0, false
	}
	return id, true
}
