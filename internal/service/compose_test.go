package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/shotctl/internal/domain"
)

type fakeComposeAPI struct {
	result      *domain.ComposeResult
	data        []byte
	downloadErr error
	submitted   *domain.ComposeRequest
	downloads   []string
}

func (f *fakeComposeAPI) Compose(ctx context.Context, req domain.ComposeRequest) (*domain.ComposeResult, error) {
	f.submitted = &req
	return f.result, nil
}

func (f *fakeComposeAPI) Download(ctx context.Context, url string) ([]byte, error) {
	f.downloads = append(f.downloads, url)
	return f.data, f.downloadErr
}

func composeRequest(t *testing.T) domain.ComposeRequest {
	t.Helper()
	req, err := domain.NewComposeRequest([]string{"a.com", "b.com"}, "", false, domain.ComposeOutput{Layout: domain.LayoutGrid})
	require.NoError(t, err)
	return req
}

func TestComposeWithoutOutputOrDisplaySkipsDownload(t *testing.T) {
	api := &fakeComposeAPI{result: &domain.ComposeResult{URL: "https://cdn.example.com/c.png", Width: 800, Height: 600}}
	svc := NewComposeService(api, NewMaterializer(newMemFiles(), nil, testLogger()), testLogger())

	out, err := svc.Compose(context.Background(), composeRequest(t), ComposeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 800, out.Result.Width)
	assert.Nil(t, out.Local)
	assert.Empty(t, api.downloads)
	require.NotNil(t, api.submitted)
	assert.Len(t, api.submitted.Captures, 2)
}

func TestComposeSavesAndRecordsResult(t *testing.T) {
	img := pngBytes(t, 6, 4)
	api := &fakeComposeAPI{result: &domain.ComposeResult{URL: "https://cdn.example.com/c.png"}, data: img}
	files := newMemFiles()
	hist := &memHistory{}
	disp := &fakeDisplay{}
	svc := NewComposeService(api, NewMaterializer(files, disp, testLogger(), WithHistory(hist)), testLogger())

	out, err := svc.Compose(context.Background(), composeRequest(t), ComposeOptions{OutputPath: "grid.png", Display: true})
	require.NoError(t, err)
	require.NotNil(t, out.Local)
	assert.Equal(t, "grid.png", out.Local.Outcome.Path)
	assert.Equal(t, 6, out.Local.Outcome.Width)
	assert.True(t, out.Local.Displayed)
	assert.Equal(t, img, files.files["grid.png"])
	assert.Equal(t, []string{"https://cdn.example.com/c.png"}, api.downloads)

	require.Len(t, hist.records, 1)
	assert.Equal(t, domain.CaptureKindCompose, hist.records[0].Kind)
	assert.True(t, hist.records[0].Success)
}

func TestComposeDownloadFailureKeepsRemoteResult(t *testing.T) {
	api := &fakeComposeAPI{
		result:      &domain.ComposeResult{URL: "https://cdn.example.com/c.png"},
		downloadErr: errors.New("gone"),
	}
	hist := &memHistory{}
	svc := NewComposeService(api, NewMaterializer(newMemFiles(), nil, testLogger(), WithHistory(hist)), testLogger())

	out, err := svc.Compose(context.Background(), composeRequest(t), ComposeOptions{OutputPath: "grid.png"})
	require.Error(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "https://cdn.example.com/c.png", out.Result.URL)
	require.Len(t, hist.records, 1)
	assert.False(t, hist.records[0].Success)
	assert.Equal(t, "gone", hist.records[0].Error)
}
