package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
)

// TesseractEngine shells out to the tesseract binary. The binary cannot
// read from stdin for all input formats, so each call writes the image to
// a temp PNG first.
type TesseractEngine struct {
	// Binary is the tesseract executable; empty means "tesseract" on PATH.
	Binary string
}

func NewTesseractEngine(binary string) *TesseractEngine {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractEngine{Binary: binary}
}

// Available reports whether the tesseract binary can be executed.
func (t *TesseractEngine) Available() bool {
	return exec.Command(t.Binary, "--version").Run() == nil
}

func (t *TesseractEngine) Recognize(ctx context.Context, img image.Image, opts Options) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pyqhub-ocr-*")
	if err != nil {
		return "", &RecognitionError{Engine: "tesseract", Err: fmt.Errorf("create temp dir: %w", err)}
	}
	defer os.RemoveAll(tmpDir)

	imgPath := filepath.Join(tmpDir, "page.png")
	f, err := os.Create(imgPath)
	if err != nil {
		return "", &RecognitionError{Engine: "tesseract", Err: fmt.Errorf("create temp image: %w", err)}
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", &RecognitionError{Engine: "tesseract", Err: fmt.Errorf("encode png: %w", err)}
	}
	f.Close()

	cmd := exec.CommandContext(ctx, t.Binary, tesseractArgs(imgPath, opts)...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", &RecognitionError{Engine: "tesseract", Err: ctx.Err()}
		}
		return "", &RecognitionError{Engine: "tesseract", Err: fmt.Errorf("%w: %s", err, stderr.String())}
	}
	return out.String(), nil
}

func tesseractArgs(imgPath string, opts Options) []string {
	lang := opts.Language
	if lang == "" {
		lang = "eng"
	}
	args := []string{imgPath, "stdout", "-l", lang}
	if opts.Whitelist != "" {
		args = append(args, "-c", "tessedit_char_whitelist="+opts.Whitelist)
	}
	if opts.PreserveSpaces {
		args = append(args, "-c", "preserve_interword_spaces=1")
	}
	return args
}
