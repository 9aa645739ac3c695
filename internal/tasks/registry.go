// Package tasks содержит реестр задач и всё, что его обслуживает:
// разбор дедлайнов, вывод статусных строк и HTTP-слой.
package tasks

import (
	"strings"
	"sync"
	"time"
)

// Registry — реестр задач: упорядоченный список и счётчик ID.
//
// Все операции берут один эксклюзивный мьютекс целиком: поиск, проверка и
// изменение должны выполняться атомарно (например, lookup-then-mutate
// или инкремент nextID).
//
// Неудачная операция оставляет реестр ровно в том состоянии, в котором он был.
type Registry struct {
	mu     sync.Mutex
	tasks  []Task
	nextID int
}

// NewRegistry создаёт пустой реестр. ID начинаются с 1.
func NewRegistry() *Registry {
	return &Registry{
		tasks:  []Task{},
		nextID: 1,
	}
}

// Add добавляет задачу.
//
// Порядок проверок фиксирован, первая неудачная побеждает:
// пустое описание, невалидный дедлайн, дубликат (без учёта регистра).
// Описание сохраняется как есть, без trim.
func (r *Registry) Add(description string, deadline time.Time) (Task, error) {
	if strings.TrimSpace(description) == "" {
		return Task{}, ErrEmptyDescription
	}
	if deadline.IsZero() {
		return Task{}, ErrInvalidDeadline
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		if strings.EqualFold(t.Description, description) {
			return Task{}, &TaskError{Err: ErrDuplicateDescription, Description: description}
		}
	}

	created := Task{
		ID:          r.nextID,
		Description: description,
		Deadline:    deadline,
	}
	r.tasks = append(r.tasks, created)
	r.nextID++
	return created, nil
}

// MarkDone переводит задачу в выполненные. Обратного перехода нет.
func (r *Registry) MarkDone(id int) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx == -1 {
		return Task{}, notFound(id)
	}
	if r.tasks[idx].Done {
		return Task{}, &TaskError{Err: ErrAlreadyCompleted, ID: id, Description: r.tasks[idx].Description}
	}

	r.tasks[idx].Done = true
	return r.tasks[idx], nil
}

// Delete удаляет одну задачу по id и возвращает удалённую.
// Остальные задачи сохраняют порядок и свои ID.
func (r *Registry) Delete(id int) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx == -1 {
		return Task{}, notFound(id)
	}

	removed := r.tasks[idx]

	candidate := make([]Task, 0, len(r.tasks)-1)
	candidate = append(candidate, r.tasks[:idx]...)
	candidate = append(candidate, r.tasks[idx+1:]...)
	r.tasks = candidate

	return removed, nil
}

// Edit перезаписывает описание задачи.
//
// Пустое описание отклоняется до поиска по id. Уникальность описания
// при редактировании не проверяется, два одинаковых описания после Edit допустимы.
func (r *Registry) Edit(id int, description string) (Task, error) {
	if strings.TrimSpace(description) == "" {
		return Task{}, ErrEmptyDescription
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx == -1 {
		return Task{}, notFound(id)
	}

	r.tasks[idx].Description = description
	return r.tasks[idx], nil
}

// Get возвращает копию задачи по id.
func (r *Registry) Get(id int) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx == -1 {
		return Task{}, notFound(id)
	}
	return r.tasks[idx], nil
}

// List возвращает снимок всех задач в порядке добавления.
// Для пустого реестра возвращает пустой срез и ErrEmptyRegistry.
func (r *Registry) List() ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.tasks) == 0 {
		return []Task{}, ErrEmptyRegistry
	}

	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

// Filter возвращает снимок задач с заданным статусом. Пустой результат не ошибка.
func (r *Registry) Filter(done bool) []Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Task{}
	for _, t := range r.tasks {
		if t.Done == done {
			out = append(out, t)
		}
	}
	return out
}

// ClearFinished удаляет все выполненные задачи и возвращает их количество.
func (r *Registry) ClearFinished() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	remaining := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if !t.Done {
			remaining = append(remaining, t)
		}
	}

	cleared := len(r.tasks) - len(remaining)
	if cleared == 0 {
		return 0, ErrNoCompletedTasks
	}

	r.tasks = remaining
	return cleared, nil
}

// Len возвращает число задач в реестре.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// indexOf ищет задачу по id. Вызывать под мьютексом.
func (r *Registry) indexOf(id int) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
