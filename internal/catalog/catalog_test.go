package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/searchapi/prodsearch/internal/pkg/errors"
)

const sampleCSV = `PRODUCT_ID,NAME,CREATEDBY,DESCRIPTION
1,Runner,alice,red shoes
2,Topper,bob,blue hat
3,Mystery,carol,
`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	loader := NewLoader(path)
	products, err := loader.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	require.Equal(t, "1", products[0].ID)
	require.Equal(t, "red shoes", products[0].Description)
	require.Equal(t, "alice", products[0].CreatedBy)
	// Missing description parses as the empty string.
	require.Equal(t, "", products[2].Description)
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL)
	products, err := loader.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
}

func TestLoadMemoized(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL)
	_, err := loader.Products(context.Background())
	require.NoError(t, err)
	_, err = loader.Products(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, hits)
}

func TestLoadFailureIsRetriable(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL)
	_, err := loader.Products(context.Background())
	require.ErrorIs(t, err, apperrors.ErrCatalog)

	products, err := loader.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
}

func TestLoadUnknownColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("FOO,BAR\n1,2\n"), 0o644))

	loader := NewLoader(path)
	products, err := loader.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "", products[0].Description)
}
