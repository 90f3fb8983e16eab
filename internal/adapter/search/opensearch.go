package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	requestsigner "github.com/opensearch-project/opensearch-go/v2/signer/awsv2"
	"github.com/sirupsen/logrus"

	"osindexer/internal/domain"
	"osindexer/internal/port"
)

// Client talks to an OpenSearch (or OpenSearch Serverless) endpoint
// with SigV4-signed requests.
type Client struct {
	os  *opensearch.Client
	log *logrus.Entry
}

func NewClient(awsCfg aws.Config, endpoint string) (*Client, error) {
	signer, err := requestsigner.NewSignerWithService(awsCfg, serviceForEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create request signer: %w", err)
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{endpoint},
		Signer:    signer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	return &Client{
		os:  client,
		log: logrus.WithField("component", "opensearch"),
	}, nil
}

// serviceForEndpoint picks the SigV4 service name: serverless
// collections sign as "aoss", managed domains as "es".
func serviceForEndpoint(endpoint string) string {
	if strings.Contains(endpoint, ".aoss.") {
		return "aoss"
	}
	return "es"
}

// indexMapping builds the index body with a knn_vector field of the
// embedder's dimension.
func indexMapping(dimension int) ([]byte, error) {
	mapping := map[string]any{
		"settings": map[string]any{
			"index": map[string]any{
				"knn": true,
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"text": map[string]any{
					"type": "text",
				},
				"vector_field": map[string]any{
					"type":      "knn_vector",
					"dimension": dimension,
				},
				"source": map[string]any{
					"type": "keyword",
				},
				"ordinal": map[string]any{
					"type": "integer",
				},
			},
		},
	}
	return json.Marshal(mapping)
}

func (c *Client) EnsureIndex(ctx context.Context, name string, dimension int) error {
	existsReq := opensearchapi.IndicesExistsRequest{Index: []string{name}}
	res, err := existsReq.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", name, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	body, err := indexMapping(dimension)
	if err != nil {
		return fmt.Errorf("failed to build index mapping: %w", err)
	}

	createReq := opensearchapi.IndicesCreateRequest{
		Index: name,
		Body:  bytes.NewReader(body),
	}
	res, err = createReq.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		// Another run may have created it between the exists check and now.
		if strings.Contains(string(raw), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("index creation returned %s: %s", res.Status(), string(raw))
	}

	c.log.WithFields(logrus.Fields{"index": name, "dimension": dimension}).Info("created index")
	return nil
}

type bulkItemError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int            `json:"status"`
		Error  *bulkItemError `json:"error,omitempty"`
	} `json:"items"`
}

// buildBulkBody renders records as bulk-API NDJSON, one index action
// per record keyed by the record's deterministic ID.
func buildBulkBody(name string, records []domain.IndexRecord) ([]byte, error) {
	var buf bytes.Buffer
	for _, record := range records {
		action := map[string]any{
			"index": map[string]any{
				"_index": name,
				"_id":    record.ID,
			},
		}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return nil, err
		}

		doc := map[string]any{
			"text":         record.Text,
			"vector_field": record.Vector,
			"source":       record.Source,
			"ordinal":      record.Ordinal,
		}
		docLine, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}

		buf.Write(actionLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (c *Client) Upsert(ctx context.Context, name string, records []domain.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}

	body, err := buildBulkBody(name, records)
	if err != nil {
		return fmt.Errorf("failed to build bulk body: %w", err)
	}

	req := opensearchapi.BulkRequest{Body: bytes.NewReader(body)}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("bulk upsert failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return fmt.Errorf("bulk upsert returned %s: %s", res.Status(), string(raw))
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to parse bulk response: %w", err)
	}
	if parsed.Errors {
		for _, item := range parsed.Items {
			for _, result := range item {
				if result.Error != nil {
					return fmt.Errorf("bulk item failed: %s: %s", result.Error.Type, result.Error.Reason)
				}
			}
		}
		return fmt.Errorf("bulk upsert reported item errors")
	}

	c.log.WithFields(logrus.Fields{"index": name, "records": len(records)}).Debug("upserted records")
	return nil
}

func (c *Client) Count(ctx context.Context, name string) (int, error) {
	req := opensearchapi.CountRequest{Index: []string{name}}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return 0, fmt.Errorf("count request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return 0, fmt.Errorf("count %s: %w", name, port.ErrIndexNotFound)
	}
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("count returned %s: %s", res.Status(), string(raw))
	}

	var parsed struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to parse count response: %w", err)
	}
	return parsed.Count, nil
}

func (c *Client) Info(ctx context.Context, pattern string) ([]domain.IndexInfo, error) {
	req := opensearchapi.IndicesGetRequest{Index: []string{pattern}}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, fmt.Errorf("indices get failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("indices get returned %s: %s", res.Status(), string(raw))
	}

	var parsed map[string]struct {
		Settings json.RawMessage `json:"settings"`
		Mappings json.RawMessage `json:"mappings"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse indices response: %w", err)
	}

	infos := make([]domain.IndexInfo, 0, len(parsed))
	for name, entry := range parsed {
		infos = append(infos, domain.IndexInfo{
			Name:     name,
			Settings: entry.Settings,
			Mappings: entry.Mappings,
		})
	}
	return infos, nil
}
