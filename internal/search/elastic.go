package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/ruvim24/task-tracker-api/internal/model"
)

const taskIndex = "tasks"

// TaskDocument - документ задачи в индексе tasks
type TaskDocument struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type ElasticIndexer struct {
	client *elasticsearch.Client
}

func NewElasticIndexer(url string) (*ElasticIndexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticIndexer{client: client}, nil
}

func (i *ElasticIndexer) IndexTask(ctx context.Context, t model.Task) error {
	body, err := json.Marshal(TaskDocument{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
	})
	if err != nil {
		return err
	}

	res, err := i.client.Index(taskIndex, bytes.NewReader(body),
		i.client.Index.WithDocumentID(strconv.FormatInt(t.ID, 10)),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index task %d: %w", t.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index task %d: %s", t.ID, res.Status())
	}
	return nil
}

func (i *ElasticIndexer) DeleteTask(ctx context.Context, id int64) error {
	res, err := i.client.Delete(taskIndex, strconv.FormatInt(id, 10),
		i.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("deindex task %d: %w", id, err)
	}
	defer res.Body.Close()

	// Документа может уже не быть, это не ошибка
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("deindex task %d: %s", id, res.Status())
	}
	return nil
}
