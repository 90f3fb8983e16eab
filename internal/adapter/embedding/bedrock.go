package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/sirupsen/logrus"
)

// BedrockEmbedder calls an Amazon Bedrock embedding model, one text
// per InvokeModel request.
type BedrockEmbedder struct {
	client    *bedrockruntime.Client
	modelID   string
	dimension int
	log       *logrus.Entry
}

type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize,omitempty"`
}

type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

func NewBedrockEmbedder(awsCfg aws.Config, modelID string) *BedrockEmbedder {
	return &BedrockEmbedder{
		client:    bedrockruntime.NewFromConfig(awsCfg),
		modelID:   modelID,
		dimension: modelDimension(modelID),
		log:       logrus.WithField("component", "bedrock"),
	}
}

func modelDimension(modelID string) int {
	switch {
	case strings.HasPrefix(modelID, "amazon.titan-embed-text-v1"):
		return 1536
	case strings.HasPrefix(modelID, "amazon.titan-embed-text-v2"):
		return 1024
	case strings.HasPrefix(modelID, "cohere.embed-"):
		return 1024
	}
	return 1024
}

// buildRequestBody builds the model-specific JSON payload. Only Titan
// v2 accepts the dimensions/normalize parameters.
func buildRequestBody(modelID, text string, dimension int) ([]byte, error) {
	req := titanRequest{InputText: text}
	if strings.HasPrefix(modelID, "amazon.titan-embed-text-v2") {
		req.Dimensions = dimension
		req.Normalize = true
	}
	return json.Marshal(req)
}

func (e *BedrockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func (e *BedrockEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := buildRequestBody(e.modelID, text, e.dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke failed for model %s: %w", e.modelID, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}

	if len(resp.Embedding) != e.dimension {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(resp.Embedding), e.dimension)
	}

	e.log.WithField("tokens", resp.InputTextTokenCount).Debug("embedded text")
	return resp.Embedding, nil
}

func (e *BedrockEmbedder) Dimension() int {
	return e.dimension
}

func (e *BedrockEmbedder) ModelName() string {
	return e.modelID
}

type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = make([]float32, e.dimension)

		for j, r := range []rune(texts[i]) {
			if j < e.dimension {
				embeddings[i][j] = float32(r) / 1000.0
			}
		}
	}
	return embeddings, nil
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
