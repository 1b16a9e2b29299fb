// internal/services/recognition_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/config"
	"github.com/smartadega/smartadega-api/internal/utils"
)

const recognitionTimeout = 30 * time.Second

// LabelImage is an uploaded wine label.
type LabelImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// WineSummary is what recognition can tell about a label. Price, quantity and
// rating are never supplied by the upstream service and stay empty.
type WineSummary struct {
	Name     string `json:"name"`
	Grape    string `json:"grape"`
	Region   string `json:"region"`
	Year     string `json:"year"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Rating   string `json:"rating"`
}

func mockWineSummary() *WineSummary {
	return &WineSummary{
		Name:   "Château Test 2020",
		Grape:  "Cabernet Sauvignon",
		Region: "Bordeaux",
		Year:   "2020",
	}
}

// SummaryCache remembers summaries by image hash.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*WineSummary, bool)
	Set(ctx context.Context, key string, summary *WineSummary)
}

// LabelArchiver keeps a copy of uploaded labels.
type LabelArchiver interface {
	Archive(ctx context.Context, image LabelImage) (string, error)
}

type RecognitionService struct {
	config  config.RecognitionConfig
	client  *http.Client
	cache   SummaryCache
	archive LabelArchiver
}

// NewRecognitionService builds the proxy. cache and archive may be nil.
func NewRecognitionService(cfg config.RecognitionConfig, cache SummaryCache, archive LabelArchiver) *RecognitionService {
	return &RecognitionService{
		config:  cfg,
		client:  &http.Client{Timeout: recognitionTimeout},
		cache:   cache,
		archive: archive,
	}
}

// AnalyzeLabel sends image to the recognition service and maps the best match
// into a summary. No match, or a body that cannot be read, yields an empty
// summary. Transport failures and non-2xx answers are upstream errors.
func (s *RecognitionService) AnalyzeLabel(ctx context.Context, image LabelImage) (*WineSummary, error) {
	if s.config.Mock {
		return mockWineSummary(), nil
	}

	if s.config.APIKey == "" {
		return nil, apperrors.Internal("recognition API key not configured", nil)
	}

	if s.archive != nil {
		if _, err := s.archive.Archive(ctx, image); err != nil {
			logrus.WithError(err).Warn("Failed to archive label image")
		}
	}

	cacheKey := "recognition:label:" + utils.HashBytes(image.Data)
	if s.cache != nil {
		if summary, ok := s.cache.Get(ctx, cacheKey); ok {
			return summary, nil
		}
	}

	summary, err := s.callUpstream(ctx, image)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, summary)
	}
	return summary, nil
}

func (s *RecognitionService) callUpstream(ctx context.Context, image LabelImage) (*WineSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, recognitionTimeout)
	defer cancel()

	body, contentType, err := encodeLabel(image)
	if err != nil {
		return nil, apperrors.Internal("failed to encode label image", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL, body)
	if err != nil {
		return nil, apperrors.Internal("failed to build recognition request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-API-KEY", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Upstream(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, apperrors.Upstream(resp.StatusCode, fmt.Errorf("recognition service returned %s", resp.Status))
	}

	var parsed alcoRecResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logrus.WithError(err).Warn("Unreadable recognition response")
		return &WineSummary{}, nil
	}

	return parsed.summary(), nil
}

func encodeLabel(image LabelImage) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := image.Filename
	if filename == "" {
		filename = "label"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type alcoRecResponse struct {
	Results []struct {
		Entities []struct {
			Array []alcoRecMatch `json:"array"`
		} `json:"entities"`
	} `json:"results"`
}

type alcoRecMatch struct {
	Name    string          `json:"name"`
	Winery  string          `json:"winery"`
	Variety string          `json:"variety"`
	Region  string          `json:"region"`
	Vintage json.RawMessage `json:"vintage"`
}

// summary maps the first match of the first entity of the first result.
func (r alcoRecResponse) summary() *WineSummary {
	if len(r.Results) == 0 || len(r.Results[0].Entities) == 0 || len(r.Results[0].Entities[0].Array) == 0 {
		return &WineSummary{}
	}
	match := r.Results[0].Entities[0].Array[0]

	summary := &WineSummary{
		Name:   match.Name,
		Region: match.Region,
		Year:   vintageString(match.Vintage),
	}
	if summary.Name == "" {
		summary.Name = match.Winery
	}
	if match.Variety != "N/A" {
		summary.Grape = match.Variety
	}
	return summary
}

func vintageString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
