// Package middleware содержит HTTP‑middleware: функции-обёртки над http.Handler,
// которые добавляют общий функционал (логирование, авторизация, заголовки, таймауты)
// вокруг основного обработчика без изменения его кода.
package middleware

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingMiddleware измеряет время обработки запроса и пишет запись в лог
// после того, как основной обработчик завершил работу.
//
// Статус берём из chi WrapResponseWriter, request id — из chi RequestID (если он навешен).
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Printf("[%s] %s %s -> %d in %v",
			chiMiddleware.GetReqID(r.Context()), r.Method, r.URL, ww.Status(), time.Since(start))
	})
}

// BasicAuthMiddleware защищает эндпоинт HTTP Basic Auth.
//
// Если аутентификация не пройдена, middleware выставляет WWW-Authenticate,
// возвращает 401 Unauthorized и НЕ вызывает next.
func BasicAuthMiddleware(user, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(name), []byte(user)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized) // 401
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// JSONHeaderMiddleware проставляет заголовок Content-Type для JSON‑ответов.
//
// Заголовки нужно выставлять ДО записи тела ответа.
func JSONHeaderMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// RequestTimeoutMiddleware выставляет таймаут на обработку запроса через context.WithTimeout.
//
// Таймаут сработает только там, где нижние слои проверяют ctx.Err().
// d <= 0 отключает таймаут.
func RequestTimeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
