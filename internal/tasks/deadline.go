package tasks

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout — формат дедлайна в списке задач, например "Sat Mar 01 2025".
const DisplayLayout = "Mon Jan 02 2006"

// deadlineLayouts — форматы, которые принимает ParseDeadline, в порядке перебора.
var deadlineLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseDeadline разбирает дедлайн из строки.
//
// Даты без часового пояса считаются в UTC.
// При ошибке вызывающий код передаёт в Registry.Add нулевое время,
// и реестр сам вернёт ErrInvalidDeadline (после проверки описания).
func ParseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse deadline %q: %w", raw, ErrInvalidDeadline)
}

// FormatDeadline рендерит дедлайн в человекочитаемом виде.
func FormatDeadline(t time.Time) string {
	return t.Format(DisplayLayout)
}
