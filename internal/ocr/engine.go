// Package ocr reads text out of war screenshot crops: tesseract behind a
// small engine, digit coercion for rank reads, and fuzzy matching of name
// reads against the known rosters.
package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// DigitGlyphs is the recognition whitelist for rank crops: digits plus the
// glyphs tesseract shows instead of them.
const DigitGlyphs = "0123456789lLiIoOsSzZ|"

// Engine wraps a tesseract client. Not safe for concurrent use; the
// session reads crops sequentially.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates the OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set ocr language: %w", err)
	}

	// Player names are gamer tags, not dictionary words; stop tesseract
	// from "correcting" them toward English.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")

	return &Engine{client: client}, nil
}

// Close releases the tesseract client.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Line reads a single line of text from a crop.
func (e *Engine) Line(img gocv.Mat) (string, error) {
	return e.recognize(img, gosseract.PSM_SINGLE_LINE, "")
}

// Digits reads a rank crop with single-character segmentation, restricted
// to DigitGlyphs.
func (e *Engine) Digits(img gocv.Mat) (string, error) {
	return e.recognize(img, gosseract.PSM_SINGLE_CHAR, DigitGlyphs)
}

func (e *Engine) recognize(img gocv.Mat, psm gosseract.PageSegMode, whitelist string) (string, error) {
	if img.Empty() {
		return "", errors.New("empty crop")
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(psm); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}
	if err := e.client.SetWhitelist(whitelist); err != nil && whitelist != "" {
		// Clearing an unset whitelist may fail on some builds; only a
		// real restriction is required to stick.
		return "", fmt.Errorf("set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
