package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client     *openai.Client
	model      openai.ChatModel
	modelName  string
	imageModel openai.ImageModel
}

func NewOpenAIClient(apiKey string, opts ...option.RequestOption) *OpenAIClient {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIClient{
		client:     &client,
		model:      openai.ChatModelGPT4oMini,
		modelName:  "gpt-4o-mini",
		imageModel: openai.ImageModelDallE3,
	}
}

func (c *OpenAIClient) Name() string {
	return c.modelName
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai: %w", ErrEmptyResult)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (*Image, error) {
	size, quality, err := openAIImageSize(opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          c.imageModel,
		N:              openai.Int(1),
		Size:           size,
		Quality:        quality,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image error: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("no image from openai: %w", ErrEmptyResult)
	}

	return &Image{MIMEType: "image/png", Data: resp.Data[0].B64JSON}, nil
}

func openAIImageSize(opts ImageOptions) (openai.ImageGenerateParamsSize, openai.ImageGenerateParamsQuality, error) {
	var size openai.ImageGenerateParamsSize
	switch opts.AspectRatio {
	case "1:1", "":
		size = openai.ImageGenerateParamsSize1024x1024
	case "16:9", "4:3":
		size = openai.ImageGenerateParamsSize1792x1024
	case "9:16", "3:4":
		size = openai.ImageGenerateParamsSize1024x1792
	default:
		return "", "", fmt.Errorf("aspect ratio %q: %w", opts.AspectRatio, ErrInvalidImageOptions)
	}

	var quality openai.ImageGenerateParamsQuality
	switch opts.Resolution {
	case "1K", "":
		quality = openai.ImageGenerateParamsQualityStandard
	case "2K":
		quality = openai.ImageGenerateParamsQualityHD
	default:
		return "", "", fmt.Errorf("resolution %q: %w", opts.Resolution, ErrInvalidImageOptions)
	}

	return size, quality, nil
}
