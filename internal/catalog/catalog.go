package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/searchapi/prodsearch/internal/model"
	apperrors "github.com/searchapi/prodsearch/internal/pkg/errors"
)

// Loader reads the product catalog from a CSV source, either a local path or
// an http(s) URL. The parsed catalog is memoized for the process lifetime;
// a failed load is retried on the next call.
type Loader struct {
	source string
	client *http.Client

	mu       sync.Mutex
	products []model.Product
	loaded   bool
}

func NewLoader(source string) *Loader {
	return &Loader{
		source: source,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Products returns the catalog in source order. Callers must treat the
// returned slice as read-only.
func (l *Loader) Products(ctx context.Context) ([]model.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.products, nil
	}
	products, err := l.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalog, err)
	}
	l.products = products
	l.loaded = true
	logutil.GetLogger(ctx).Info("catalog loaded", zap.Int("products", len(products)), zap.String("source", l.source))
	return l.products, nil
}

func (l *Loader) load(ctx context.Context) ([]model.Product, error) {
	body, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return parseCSV(body)
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			resp.Body.Close()
			return nil, fmt.Errorf("catalog request failed: %s", resp.Status)
		}
		return resp.Body, nil
	}
	file, err := os.Open(l.source)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return file, nil
}

func parseCSV(r io.Reader) ([]model.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	var products []model.Product
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		products = append(products, model.Product{
			ID:          field(row, "PRODUCT_ID"),
			Name:        field(row, "NAME"),
			CreatedBy:   field(row, "CREATEDBY"),
			Description: field(row, "DESCRIPTION"),
		})
	}
	return products, nil
}
