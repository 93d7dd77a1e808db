package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ulyantsev/tg-takeout-parser/internal/cache"
	"github.com/ulyantsev/tg-takeout-parser/internal/domain"
	"github.com/ulyantsev/tg-takeout-parser/internal/pkg/config"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) ProcessTakeout(ctx context.Context, filePath string) (*domain.Table, error) {
	args := m.Called(ctx, filePath)
	if res := args.Get(0); res != nil {
		return res.(*domain.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Server: config.Server{Host: "localhost", Port: 8080, MaxUploadSizeMB: 10},
	}
	return cfg
}

func uploadRequest(t *testing.T, content string) *http.Request {
	t.Helper()

	var b bytes.Buffer
	writer := multipart.NewWriter(&b)
	fw, err := writer.CreateFormFile("file", "result.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/flatten", &b)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func waitForStatus(t *testing.T, srv *Server, taskID string, status TaskStatus) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		task, err := srv.taskStore.GetTask(taskID)
		require.NoError(t, err)
		if task.Status == status {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Задача %s не достигла статуса %s", taskID, status)
}

func TestServer(t *testing.T) {
	t.Run("Health Check", func(t *testing.T) {
		srv, err := New(testConfig(), new(mockProcessor), NewTaskStore(), cache.NewCacheStore())
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/health", nil)
		rr := httptest.NewRecorder()
		srv.HTTPServer.Handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "ok", resp["status"])
	})

	t.Run("Загрузка файла создает задачу", func(t *testing.T) {
		mockProc := new(mockProcessor)
		srv, err := New(testConfig(), mockProc, NewTaskStore(), cache.NewCacheStore())
		require.NoError(t, err)

		table := domain.NewTable(domain.FieldSpec{"id"})
		table.Append(domain.Row{float64(1)})
		mockProc.On("ProcessTakeout", mock.Anything, mock.AnythingOfType("string")).Return(table, nil).Once()

		rr := httptest.NewRecorder()
		srv.HTTPServer.Handler.ServeHTTP(rr, uploadRequest(t, `{"messages": []}`))

		assert.Equal(t, http.StatusAccepted, rr.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotEmpty(t, resp["task_id"])

		waitForStatus(t, srv, resp["task_id"], TaskStatusCompleted)
		mockProc.AssertExpectations(t)
	})

	t.Run("Ошибка обработки помечает задачу проваленной", func(t *testing.T) {
		mockProc := new(mockProcessor)
		srv, err := New(testConfig(), mockProc, NewTaskStore(), cache.NewCacheStore())
		require.NoError(t, err)

		mockProc.On("ProcessTakeout", mock.Anything, mock.AnythingOfType("string")).
			Return(nil, fmt.Errorf("файл выгрузки не содержит списка сообщений")).Once()

		rr := httptest.NewRecorder()
		srv.HTTPServer.Handler.ServeHTTP(rr, uploadRequest(t, `{"not": "a takeout"}`))
		require.Equal(t, http.StatusAccepted, rr.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		waitForStatus(t, srv, resp["task_id"], TaskStatusFailed)

		task, err := srv.taskStore.GetTask(resp["task_id"])
		require.NoError(t, err)
		assert.Contains(t, task.ErrorMessage, "не содержит списка сообщений")
	})

	t.Run("Статус несуществующей задачи — 404", func(t *testing.T) {
		srv, err := New(testConfig(), new(mockProcessor), NewTaskStore(), cache.NewCacheStore())
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/tasks/missing", nil)
		rr := httptest.NewRecorder()
		srv.HTTPServer.Handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Результат незавершенной задачи — 400", func(t *testing.T) {
		taskStore := NewTaskStore()
		srv, err := New(testConfig(), new(mockProcessor), taskStore, cache.NewCacheStore())
		require.NoError(t, err)

		taskStore.CreateTask("pending-task", time.Hour)

		req := httptest.NewRequest("GET", "/api/v1/tasks/pending-task/result", nil)
		rr := httptest.NewRecorder()
		srv.HTTPServer.Handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Пагинация результата", func(t *testing.T) {
		taskStore := NewTaskStore()
		srv, err := New(testConfig(), new(mockProcessor), taskStore, cache.NewCacheStore())
		require.NoError(t, err)

		table := domain.NewTable(domain.FieldSpec{"id"})
		for i := 0; i < 5; i++ {
			table.Append(domain.Row{float64(i)})
		}
		taskStore.CreateTask("done-task", time.Hour)
		require.NoError(t, taskStore.UpdateTaskResult("done-task", table))

		req := httptest.NewRequest("GET", "/api/v1/tasks/done-task/result?page=2&page_size=2", nil)
		rr := httptest.NewRecorder()
		srv.HTTPServer.Handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Columns    []string `json:"columns"`
			Rows       [][]any  `json:"rows"`
			Pagination struct {
				Page       int `json:"page"`
				PageSize   int `json:"page_size"`
				TotalRows  int `json:"total_rows"`
				TotalPages int `json:"total_pages"`
			} `json:"pagination"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

		assert.Equal(t, []string{"id"}, resp.Columns)
		require.Len(t, resp.Rows, 2)
		assert.Equal(t, float64(2), resp.Rows[0][0])
		assert.Equal(t, 2, resp.Pagination.Page)
		assert.Equal(t, 5, resp.Pagination.TotalRows)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
	})

	t.Run("Запрос без файла — 400", func(t *testing.T) {
		srv, err := New(testConfig(), new(mockProcessor), NewTaskStore(), cache.NewCacheStore())
		require.NoError(t, err)

		var b bytes.Buffer
		writer := multipart.NewWriter(&b)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest("POST", "/api/v1/flatten", &b)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()
		srv.HTTPServer.Handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
