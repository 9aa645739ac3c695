package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	appMiddleware "task-list/internal/middleware" // алиас, чтобы не путать с chi/middleware

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler — HTTP слой модуля задач.
//
// Здесь лежит всё, что относится к HTTP:
// роуты, парсинг JSON, коды ответов, middleware.
// Состояние и бизнес-правила живут в Registry: handler -> registry.
type Handler struct {
	reg      *Registry
	validate *validator.Validate

	timeout time.Duration
	guard   func(http.Handler) http.Handler
}

// HandlerOption настраивает Handler.
type HandlerOption func(*Handler)

// WithRequestTimeout задаёт таймаут на каждый запрос tasks API.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) { h.timeout = d }
}

// WithAdminAuth закрывает удаляющие роуты Basic Auth.
// Пустой user отключает проверку.
func WithAdminAuth(user, password string) HandlerOption {
	return func(h *Handler) {
		if user == "" {
			return
		}
		h.guard = appMiddleware.BasicAuthMiddleware(user, password)
	}
}

// NewHandler создаёт Handler поверх уже созданного реестра.
func NewHandler(reg *Registry, opts ...HandlerOption) *Handler {
	h := &Handler{
		reg:      reg,
		validate: validator.New(),
		timeout:  2 * time.Second,
		guard:    func(next http.Handler) http.Handler { return next },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router собирает HTTP-роутер для задач.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Use(appMiddleware.JSONHeaderMiddleware)
		r.Use(appMiddleware.RequestTimeoutMiddleware(h.timeout))

		r.Get("/", h.listTasks)
		r.Post("/", h.createTask)

		// Статический путь chi матчит раньше, чем /{id}.
		r.With(h.guard).Delete("/completed", h.clearFinished)

		r.Get("/{id}", h.getTask)
		r.Put("/{id}", h.updateTask)
		r.Post("/{id}/done", h.markDone)
		r.With(h.guard).Delete("/{id}", h.deleteTask)
	})
	return r
}

// listTasks обрабатывает GET /api/v1/tasks/
//
// Без параметров возвращает все задачи, с ?done=true|false — отфильтрованные.
// Пустой реестр для HTTP не ошибка: отдаём [].
func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	if h.contextDone(w, r) {
		return
	}

	raw := r.URL.Query().Get("done")
	if raw == "" {
		list, _ := h.reg.List()
		h.writeJSON(w, http.StatusOK, list)
		return
	}

	if err := h.validate.Var(raw, "boolean"); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid done filter. Use ?done=true or ?done=false")
		return
	}
	done, _ := strconv.ParseBool(raw)
	h.writeJSON(w, http.StatusOK, h.reg.Filter(done))
}

// createTask обрабатывает POST /api/v1/tasks/
func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	if h.contextDone(w, r) {
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	// Ошибку разбора не возвращаем сразу: нулевой дедлайн отклонит реестр,
	// но только после проверки описания.
	deadline, _ := ParseDeadline(req.Deadline)

	created, err := h.reg.Add(req.Description, deadline)
	if err != nil {
		h.writeError(w, err)
		return
	}

	log.Printf("task %d created", created.ID)
	h.writeJSON(w, http.StatusCreated, created)
}

// getTask обрабатывает GET /api/v1/tasks/{id}
func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	if h.contextDone(w, r) {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	task, err := h.reg.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

// updateTask обрабатывает PUT /api/v1/tasks/{id}
//
// Меняет только описание. Статус меняется отдельным роутом /{id}/done.
func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	if h.contextDone(w, r) {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	updated, err := h.reg.Edit(id, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// markDone обрабатывает POST /api/v1/tasks/{id}/done
func (h *Handler) markDone(w http.ResponseWriter, r *http.Request) {
	if h.contextDone(w, r) {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	task, err := h.reg.MarkDone(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

// deleteTask обрабатывает DELETE /api/v1/tasks/{id} и возвращает удалённую задачу.
func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if h.contextDone(w, r) {
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	removed, err := h.reg.Delete(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	log.Printf("task %d deleted", removed.ID)
	h.writeJSON(w, http.StatusOK, removed)
}

// clearFinished обрабатывает DELETE /api/v1/tasks/completed
func (h *Handler) clearFinished(w http.ResponseWriter, r *http.Request) {
	if h.contextDone(w, r) {
		return
	}

	n, err := h.reg.ClearFinished()
	if err != nil {
		h.writeError(w, err)
		return
	}

	log.Printf("cleared %d completed task(s)", n)
	h.writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

// contextDone проверяет контекст запроса до обращения к реестру.
// Незачем менять состояние, если клиент ушёл или таймаут уже истёк.
func (h *Handler) contextDone(w http.ResponseWriter, r *http.Request) bool {
	if err := r.Context().Err(); err != nil {
		h.writeError(w, err)
		return true
	}
	return false
}

// parseID достаёт {id} из пути. При ошибке сам отвечает 400.
func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

// writeError переводит ошибку реестра (или контекста) в HTTP-код.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// Клиент ушёл, отвечать уже некому.
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeMessage(w, http.StatusRequestTimeout, "Request timeout")
	case errors.Is(err, ErrEmptyDescription), errors.Is(err, ErrInvalidDeadline):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTaskNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateDescription),
		errors.Is(err, ErrAlreadyCompleted),
		errors.Is(err, ErrNoCompletedTasks):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		log.Printf("unexpected error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	// Content-Type выставляет JSONHeaderMiddleware
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// validationMessage собирает текст из ошибок валидатора.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	return fe.Field() + " failed on '" + fe.Tag() + "' (" + fe.Param() + ")"
}
