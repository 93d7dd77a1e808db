package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ulyantsev/tg-takeout-parser/internal/cache"
	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
	"github.com/ulyantsev/tg-takeout-parser/internal/pkg/config"
)

const (
	defaultPageSize = 500
	taskTTL         = config.DefaultTaskTTL
)

// TakeoutProcessor определяет интерфейс варианта использования,
// который обрабатывает файлы выгрузки.
type TakeoutProcessor interface {
	ProcessTakeout(ctx context.Context, filePath string) (*domain.Table, error)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	taskStore  *TaskStore
	cacheStore *cache.CacheStore
	processor  TakeoutProcessor
}

// New создает новый экземпляр Server
func New(cfg *config.Config, processor TakeoutProcessor, taskStore *TaskStore, cacheStore *cache.CacheStore) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		taskStore:  taskStore,
		cacheStore: cacheStore,
		processor:  processor,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	// Конечная точка для проверки работоспособности
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	})

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		r.Post("/flatten", s.handleFlatten)
		r.Get("/tasks/{taskID}", s.handleTaskStatus)
		r.Get("/tasks/{taskID}/result", s.handleTaskResult)
	})

	s.HTTPServer = &http.Server{
		Addr:    cfg.Address(),
		Handler: chiRouter,
	}
	return s, nil
}

// handleFlatten принимает файл выгрузки и запускает асинхронную задачу
// разворачивания сообщений в таблицу.
func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	maxUpload := int64(s.cfg.Server.MaxUploadSizeMB) << 20
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "Не удалось разобрать форму", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Не удалось получить файл из формы", http.StatusBadRequest)
		return
	}
	defer file.Close()

	taskID := uuid.NewString()

	// Сохранение загруженных данных во временный файл
	tempFilePath := filepath.Join(os.TempDir(), fmt.Sprintf("takeout_%s.json", taskID))
	out, err := os.Create(tempFilePath)
	if err != nil {
		http.Error(w, "Не удалось создать временный файл", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		http.Error(w, "Не удалось сохранить загруженный файл", http.StatusInternalServerError)
		return
	}

	s.taskStore.CreateTask(taskID, taskTTL)

	// Запуск обработки в горутине
	go func() {
		s.taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

		// Контекст задачи с таймаутом из конфигурации
		taskCtx := context.Background()
		if timeout := s.cfg.TaskTimeout(); timeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(taskCtx, timeout)
			defer cancel()
		}

		defer os.Remove(tempFilePath)

		table, err := s.processor.ProcessTakeout(taskCtx, tempFilePath)
		if err != nil {
			slog.Error("Обработка выгрузки завершилась ошибкой", "task_id", taskID, "error", err)
			s.taskStore.UpdateTaskError(taskID, err.Error())
			return
		}

		s.taskStore.UpdateTaskResult(taskID, table)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
}

// handleTaskStatus возвращает текущий статус задачи.
func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.taskStore.GetTask(taskID)
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"task_id":       task.ID,
		"status":        task.Status,
		"error_message": task.ErrorMessage,
	})
}

// resultResponse — страница результата задачи.
type resultResponse struct {
	Columns    []string     `json:"columns"`
	Rows       []domain.Row `json:"rows"`
	Pagination pagination   `json:"pagination"`
}

type pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalRows  int `json:"total_rows"`
	TotalPages int `json:"total_pages"`
}

// handleTaskResult возвращает страницу строк готовой таблицы.
func (s *Server) handleTaskResult(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.taskStore.GetTask(taskID)
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	if task.Status != TaskStatusCompleted {
		http.Error(w, "Задача не завершена", http.StatusBadRequest)
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	table := task.Result
	totalRows := len(table.Rows)
	totalPages := (totalRows + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > totalRows {
		start = totalRows
	}
	end := start + pageSize
	if end > totalRows {
		end = totalRows
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resultResponse{
		Columns: table.Columns,
		Rows:    table.Rows[start:end],
		Pagination: pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalRows:  totalRows,
			TotalPages: totalPages,
		},
	})
}

// ListenAndServe запускает HTTP-сервер.
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Shutdown останавливает HTTP-сервер.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTPServer.Shutdown(ctx)
}

// StartCleanup запускает периодическую очистку задач и кэша.
func (s *Server) StartCleanup(ctx context.Context) {
	s.taskStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)
	s.cacheStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)
}

// queryInt разбирает целочисленный параметр запроса со значением по умолчанию.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
