package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReturnsFirstImage(t *testing.T) {
	var got txt2imgRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sdapi/v1/txt2img", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"images": ["aGVsbG8=", "c2Vjb25k"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sd-xl", 30)
	img, err := c.Generate(context.Background(), "Chipmakers rally")
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", img)

	assert.Equal(t, "Chipmakers rally", got.Prompt)
	assert.Equal(t, "sd-xl", got.Model)
	assert.Equal(t, 30, got.Steps)
	assert.Equal(t, 512, got.Width)
	assert.Equal(t, 512, got.Height)
}

func TestGenerateEmptyPayloadIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	_, err := c.Generate(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty image payload")
}

func TestGenerateNon200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("cuda out of memory"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	_, err := c.Generate(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "cuda out of memory")
}

func TestNewClientDefaultSteps(t *testing.T) {
	c := NewClient("http://localhost:7860", "", -5)
	assert.Equal(t, 20, c.steps)
}
