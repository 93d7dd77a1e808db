package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type taskStatusResponse struct {
	TaskID       string `json:"task_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type taskResultResponse struct {
	Columns    []string `json:"columns"`
	Rows       [][]any  `json:"rows"`
	Pagination struct {
		Page       int `json:"page"`
		PageSize   int `json:"page_size"`
		TotalRows  int `json:"total_rows"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

func main() {
	var serverAddr string
	var outPath string
	flag.StringVar(&serverAddr, "server", "http://localhost:8080", "Server address")
	flag.StringVar(&outPath, "out", "table.json", "Path to save the resulting table")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("Usage: client [flags] <result.json>")
	}
	filePath := flag.Arg(0)

	taskID, err := uploadTakeout(serverAddr, filePath)
	if err != nil {
		log.Fatalf("Не удалось загрузить файл: %v", err)
	}
	log.Printf("Задача создана: %s", taskID)

	if err := waitForTask(serverAddr, taskID); err != nil {
		log.Fatalf("Задача завершилась ошибкой: %v", err)
	}

	result, err := fetchResult(serverAddr, taskID)
	if err != nil {
		log.Fatalf("Не удалось получить результат: %v", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Не удалось сериализовать результат: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("Не удалось сохранить результат: %v", err)
	}
	log.Printf("Таблица сохранена: %s (%d строк, %d колонок)", outPath, len(result.Rows), len(result.Columns))
}

// uploadTakeout отправляет файл выгрузки на сервер и возвращает ID задачи.
func uploadTakeout(serverAddr, filePath string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("не удалось открыть файл %s: %w", filePath, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("не удалось создать файл формы: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("не удалось записать данные файла: %w", err)
	}

	// Важно закрыть writer, чтобы записать завершающую границу
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("не удалось закрыть multipart writer: %w", err)
	}

	resp, err := http.Post(serverAddr+"/api/v1/flatten", writer.FormDataContentType(), &body)
	if err != nil {
		return "", fmt.Errorf("не удалось отправить запрос: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	var created map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("не удалось декодировать ответ: %w", err)
	}
	return created["task_id"], nil
}

// waitForTask опрашивает статус задачи до завершения.
func waitForTask(serverAddr, taskID string) error {
	for {
		resp, err := http.Get(fmt.Sprintf("%s/api/v1/tasks/%s", serverAddr, taskID))
		if err != nil {
			return fmt.Errorf("не удалось запросить статус: %w", err)
		}

		var status taskStatusResponse
		err = json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("не удалось декодировать статус: %w", err)
		}

		switch status.Status {
		case "completed":
			return nil
		case "failed":
			return fmt.Errorf("%s", status.ErrorMessage)
		}

		time.Sleep(time.Second)
	}
}

// fetchResult собирает все страницы результата задачи.
func fetchResult(serverAddr, taskID string) (*taskResultResponse, error) {
	var combined *taskResultResponse

	page := 1
	for {
		url := fmt.Sprintf("%s/api/v1/tasks/%s/result?page=%d", serverAddr, taskID, page)
		resp, err := http.Get(url)
		if err != nil {
			return nil, fmt.Errorf("не удалось запросить результат: %w", err)
		}

		var result taskResultResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("не удалось декодировать результат: %w", err)
		}

		if combined == nil {
			combined = &result
		} else {
			combined.Rows = append(combined.Rows, result.Rows...)
		}

		if page >= result.Pagination.TotalPages {
			return combined, nil
		}
		page++
	}
}
