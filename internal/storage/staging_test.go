package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/folio/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestStager(t *testing.T, cfg StagerConfig) (*Stager, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewStager(NewAferoStore(fs), cfg), fs
}

func TestStager_StageAndPreview(t *testing.T) {
	stager, fs := newTestStager(t, StagerConfig{})
	ctx := context.Background()
	data := pngBytes(t)

	file, err := stager.Stage(ctx, "scope-a", "../../shot.png", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "shot.png", file.Filename, "client paths are reduced to the base name")
	assert.Equal(t, "image/png", file.ContentType)
	assert.Equal(t, int64(len(data)), file.Size)

	exists, err := afero.Exists(fs, "scope-a/"+file.ID+".png")
	require.NoError(t, err)
	assert.True(t, exists)

	preview, err := stager.Preview(ctx, "scope-a", file.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(preview, "data:image/png;base64,"))

	rc, err := stager.Open(ctx, "scope-a", file.ID)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = stager.Preview(ctx, "scope-b", file.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "scopes do not see each other's files")
}

func TestStager_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("not an image", func(t *testing.T) {
		stager, _ := newTestStager(t, StagerConfig{})
		_, err := stager.Stage(ctx, "s", "notes.png", strings.NewReader("plain text pretending to be a png"))
		assert.ErrorIs(t, err, ErrUnsupportedType)
		assert.Empty(t, stager.List("s"))
	})

	t.Run("too large", func(t *testing.T) {
		data := pngBytes(t)
		stager, _ := newTestStager(t, StagerConfig{MaxBytes: int64(len(data) - 1)})
		_, err := stager.Stage(ctx, "s", "big.png", bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("too many files", func(t *testing.T) {
		stager, _ := newTestStager(t, StagerConfig{MaxFiles: 1})
		_, err := stager.Stage(ctx, "s", "one.png", bytes.NewReader(pngBytes(t)))
		require.NoError(t, err)
		_, err = stager.Stage(ctx, "s", "two.png", bytes.NewReader(pngBytes(t)))
		assert.ErrorIs(t, err, ErrTooManyFiles)
	})
}

// gatedStore holds every Save until the gate opens.
type gatedStore struct {
	Store
	gate chan struct{}
}

func (g *gatedStore) Save(ctx context.Context, path string, r io.Reader) (int64, error) {
	<-g.gate
	return g.Store.Save(ctx, path, r)
}

func TestStager_ConcurrentStagesRespectLimit(t *testing.T) {
	const maxFiles, extra = 2, 3
	store := &gatedStore{Store: NewAferoStore(afero.NewMemMapFs()), gate: make(chan struct{})}
	stager := NewStager(store, StagerConfig{MaxFiles: maxFiles})
	ctx := context.Background()
	data := pngBytes(t)

	var once sync.Once
	open := func() { once.Do(func() { close(store.gate) }) }
	t.Cleanup(open)

	results := make(chan error, maxFiles+extra)
	for i := 0; i < maxFiles+extra; i++ {
		go func() {
			_, err := stager.Stage(ctx, "s", "shot.png", bytes.NewReader(data))
			results <- err
		}()
	}

	// While the first saves are blocked, every other call must already be turned away.
	for i := 0; i < extra; i++ {
		select {
		case err := <-results:
			assert.ErrorIs(t, err, ErrTooManyFiles)
		case <-time.After(2 * time.Second):
			t.Fatal("uploads in flight did not count towards the limit")
		}
	}

	open()
	for i := 0; i < maxFiles; i++ {
		assert.NoError(t, <-results)
	}
	assert.Len(t, stager.List("s"), maxFiles)
}

func TestStager_RejectedFilesFreeTheirSlot(t *testing.T) {
	stager, _ := newTestStager(t, StagerConfig{MaxFiles: 1})
	ctx := context.Background()

	_, err := stager.Stage(ctx, "s", "notes.txt", strings.NewReader("plain text"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = stager.Stage(ctx, "s", "shot.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.Len(t, stager.List("s"), 1)
}

func TestStager_RemoveKeepsOrder(t *testing.T) {
	stager, fs := newTestStager(t, StagerConfig{})
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		f, err := stager.Stage(ctx, "s", name, bytes.NewReader(pngBytes(t)))
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}

	require.NoError(t, stager.Remove(ctx, "s", ids[1]))
	files := stager.List("s")
	require.Len(t, files, 2)
	assert.Equal(t, "a.png", files[0].Filename)
	assert.Equal(t, "c.png", files[1].Filename)

	exists, _ := afero.Exists(fs, "s/"+ids[1]+".png")
	assert.False(t, exists)

	assert.ErrorIs(t, stager.Remove(ctx, "s", ids[1]), domain.ErrNotFound)

	stager.Clear(ctx, "s")
	assert.Empty(t, stager.List("s"))
}

func TestStager_Sweep(t *testing.T) {
	clk := &clock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	stager, _ := newTestStager(t, StagerConfig{TTL: time.Minute, Now: clk.Now})
	ctx := context.Background()

	_, err := stager.Stage(ctx, "s", "old.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	clk.now = clk.now.Add(45 * time.Second)
	_, err = stager.Stage(ctx, "s", "new.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	clk.now = clk.now.Add(30 * time.Second)
	assert.Equal(t, 1, stager.Sweep(ctx))

	files := stager.List("s")
	require.Len(t, files, 1)
	assert.Equal(t, "new.png", files[0].Filename)
}
