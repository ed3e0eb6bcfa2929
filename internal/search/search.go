// Package search keeps the course catalog in an Elasticsearch index and
// serves full-text queries against it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/edubridge/university-lms/internal/models"
)

type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func (ix *Indexer) IndexCourse(ctx context.Context, course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}
	res, err := ix.ES.Index(
		ix.Index,
		bytes.NewReader(data),
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(course.ID), 10)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index course %d: %w", course.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index course %d: %s", course.ID, res.Status())
	}
	return nil
}

func (ix *Indexer) DeleteCourse(ctx context.Context, id uint) error {
	res, err := ix.ES.Delete(
		ix.Index,
		strconv.FormatUint(uint64(id), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete course %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete course %d: %s", id, res.Status())
	}
	return nil
}

func (ix *Indexer) SearchCourses(ctx context.Context, query string, from, size int) (int64, []models.Course, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description", "instructor"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: query failed: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Course `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	courses := make([]models.Course, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		courses[i] = hit.Source
	}
	return r.Hits.Total.Value, courses, nil
}
