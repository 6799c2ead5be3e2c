package media

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"github.com/iceymoss/sentinelpost/pkg/db/objects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	failFor map[string]bool
	calls   []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls = append(f.calls, prompt)
	if f.failFor[prompt] {
		return "", errors.New("cuda out of memory")
	}
	return base64.StdEncoding.EncodeToString([]byte("png-bytes")), nil
}

type fakeStorage struct {
	filenames []string
	err       error
}

func (f *fakeStorage) UploadFile(ctx context.Context, file io.Reader, filename, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.filenames = append(f.filenames, filename)
	return "http://localhost:8080/static/" + folder + "/" + filename, nil
}

func (f *fakeStorage) DeleteFile(ctx context.Context, url string) error { return nil }
func (f *fakeStorage) GetFileURL(path string) string                    { return path }

type fakeAttacher struct {
	attached map[string]string
	err      error
}

func (f *fakeAttacher) AttachImage(ctx context.Context, url, imageURL string) error {
	if f.err != nil {
		return f.err
	}
	if f.attached == nil {
		f.attached = make(map[string]string)
	}
	f.attached[url] = imageURL
	return nil
}

func mkArticle(title, url string) objects.Article {
	return objects.Article{Title: title, Summary: "untouched summary", URL: url}
}

func TestSweepFailedArticleDoesNotStopTheRest(t *testing.T) {
	gen := &fakeGenerator{failFor: map[string]bool{"First": true}}
	attacher := &fakeAttacher{}
	articles := []objects.Article{
		mkArticle("First", "https://a.example/1"),
		mkArticle("Second", "https://a.example/2"),
		mkArticle("Third", "https://a.example/3"),
	}

	task := &ImageAttachTask{}
	attached := task.sweep(context.Background(), gen, &fakeStorage{}, attacher, articles)

	assert.Equal(t, 2, attached)
	assert.Equal(t, []string{"First", "Second", "Third"}, gen.calls, "every article is attempted")

	assert.NotContains(t, attacher.attached, "https://a.example/1")
	assert.Contains(t, attacher.attached, "https://a.example/2")
	assert.Contains(t, attacher.attached, "https://a.example/3")

	// the sweep only ever links an image URL, text fields stay untouched
	for _, a := range articles {
		assert.Equal(t, "untouched summary", a.Summary)
	}
}

func TestSweepStorageFailureSkipsArticleOnly(t *testing.T) {
	gen := &fakeGenerator{}
	attacher := &fakeAttacher{}
	store := &fakeStorage{err: errors.New("disk full")}

	task := &ImageAttachTask{}
	attached := task.sweep(context.Background(), gen, store, attacher,
		[]objects.Article{mkArticle("Only", "https://a.example/1")})

	assert.Equal(t, 0, attached)
	assert.Empty(t, attacher.attached)
}

func TestAttachOneUsesTitleHashFilename(t *testing.T) {
	gen := &fakeGenerator{}
	attacher := &fakeAttacher{}
	store := &fakeStorage{}

	task := &ImageAttachTask{}
	err := task.attachOne(context.Background(), gen, store, attacher, "Chipmakers rally", "https://a.example/1")
	require.NoError(t, err)

	sum := md5.Sum([]byte("Chipmakers rally"))
	require.Len(t, store.filenames, 1)
	assert.Equal(t, hex.EncodeToString(sum[:])+".png", store.filenames[0])
}

func TestAttachOneRejectsBadImagePayload(t *testing.T) {
	badGen := badPayloadGenerator{}
	attacher := &fakeAttacher{}

	task := &ImageAttachTask{}
	err := task.attachOne(context.Background(), badGen, &fakeStorage{}, attacher, "Title", "https://a.example/1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image payload")
	assert.Empty(t, attacher.attached)
}

type badPayloadGenerator struct{}

func (badPayloadGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "not-base64!!!", nil
}
