package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ImageGenerator produces product shots for equipment.
type ImageGenerator struct {
	gen   Generator
	model string
}

// NewImageGenerator returns a generator using the given image model.
func NewImageGenerator(gen Generator, modelName string) *ImageGenerator {
	return &ImageGenerator{gen: gen, model: modelName}
}

// Generate returns the raw image bytes for a picture of equipmentName.
// A response without an image yields nil, nil.
func (g *ImageGenerator) Generate(ctx context.Context, equipmentName string) ([]byte, error) {
	contents := []*genai.Content{genai.NewContentFromText(ImagePrompt(equipmentName), genai.RoleUser)}

	resp, err := g.gen.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generating image: %w", err)
	}

	for _, part := range firstCandidateParts(resp) {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, nil
}
