package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/netlayer/pkg/decoder"
	"github.com/samvad-hq/netlayer/pkg/request"
)

func TestNewDefaultUsesConfiguration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "netlayer-default-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("id: 3\nname: cfg\n"))
	}))
	defer srv.Close()

	t.Setenv("NETLAYER_USER_AGENT", "netlayer-default-test")
	t.Setenv("NETLAYER_DEFAULT_DECODER", "yaml")
	t.Setenv("NETLAYER_LOG_LEVEL", "error")

	d, err := NewDefault(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, decoder.FormatYAML, d.Decoder.Format())

	base := requestFor(t, srv, "/user")
	req := d.NewRequest(base.Host(), base.Path(), request.WithScheme(base.Scheme()))
	assert.Equal(t, decoder.FormatYAML, req.Decoder().Format())

	got, err := Execute[user](context.Background(), d, req)
	require.NoError(t, err)
	assert.Equal(t, user{ID: 3, Name: "cfg"}, got)

	override := d.NewRequest("api.example.com", "/x", request.WithDecoder(decoder.NewXML()))
	assert.Equal(t, decoder.FormatXML, override.Decoder().Format())
}

func TestNewDefaultRejectsInvalidConfig(t *testing.T) {
	t.Setenv("NETLAYER_HTTP_TIMEOUT_SECONDS", "0")

	_, err := NewDefault(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestDefaultCloseStopsService(t *testing.T) {
	d, err := NewDefault(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	require.NoError(t, d.Close())
	_, err = d.DownloadData(context.Background(), request.New("api.example.com", "/x"))
	require.ErrorIs(t, err, ErrClosed)
}
