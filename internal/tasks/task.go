package tasks

import "time"

// Task — модель задачи.
//
// Хранится в памяти реестра и сериализуется в JSON для HTTP API.
// Наружу реестр отдаёт только копии, поэтому правка полученной Task
// никак не влияет на состояние реестра.
type Task struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	Deadline    time.Time `json:"deadline"`
}

// StatusLabel возвращает метку статуса для вывода пользователю.
func (t Task) StatusLabel() string {
	if t.Done {
		return "Completed"
	}
	return "Pending"
}

// CreateTaskRequest описывает контракт входящего JSON для создания задачи.
//
// Пустое описание и кривой deadline здесь НЕ ловим: это делает реестр,
// чтобы порядок проверок был одинаковым для CLI и HTTP.
// Валидатор только ограничивает размер входных данных.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"max=500"`
	Deadline    string `json:"deadline" validate:"max=64"`
}

// UpdateTaskRequest — тело PUT /{id}. Меняется только описание.
type UpdateTaskRequest struct {
	Description string `json:"description" validate:"max=500"`
}
