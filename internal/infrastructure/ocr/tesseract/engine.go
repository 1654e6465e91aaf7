package tesseract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes page images with a local tesseract installation. A fresh
// gosseract client is created per call; the client is not safe for reuse
// across goroutines.
type Engine struct {
	language string
	dpi      int
}

func New(language string, dpi int) *Engine {
	if language == "" {
		language = "eng"
	}
	return &Engine{language: language, dpi: dpi}
}

func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set page image: %w", err)
	}
	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("set language %s: %w", e.language, err)
	}
	if e.dpi > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(e.dpi)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text) + "\n", nil
}
