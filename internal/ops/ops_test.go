package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mgeller/clipvault/internal/capture"
	"github.com/mgeller/clipvault/internal/config"
	"github.com/mgeller/clipvault/internal/content"
	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/item"
	"github.com/mgeller/clipvault/internal/store"
)

type fakeClip struct {
	text  string
	image *capture.RawImage
}

func (f *fakeClip) ReadText() (string, error)             { return f.text, nil }
func (f *fakeClip) ReadImage() (*capture.RawImage, error) { return f.image, nil }
func (f *fakeClip) WriteText(text string) error {
	f.text = text
	return nil
}
func (f *fakeClip) WriteImage(img *capture.RawImage) error {
	f.image = img
	return nil
}

type fakeEcho struct {
	digests []string
}

func (f *fakeEcho) SetLastCopiedDigest(d string) { f.digests = append(f.digests, d) }

type fakeCaptureCfg struct {
	exclusions     []string
	autoExclude    *bool
	maxImageSizeMB *int
}

func (f *fakeCaptureCfg) SetExclusions(apps []string) { f.exclusions = apps }
func (f *fakeCaptureCfg) SetAutoExcludeSensitive(on bool) {
	f.autoExclude = &on
}
func (f *fakeCaptureCfg) SetMaxImageSizeMB(mb int) { f.maxImageSizeMB = &mb }

func openTestService(t *testing.T) (*Service, *fakeClip, *store.Store) {
	t.Helper()
	s, err := store.Open(t.TempDir(), config.DefaultConfig())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	clip := &fakeClip{}
	return New(s, clip), clip, s
}

func insertText(t *testing.T, s *store.Store, text string, capturedAt int64) int64 {
	t.Helper()
	id, err := s.Insert(item.CaptureEvent{
		Content:     text,
		ContentKind: item.KindText,
		Category:    "misc",
		SourceApp:   "Tests",
		Digest:      content.DigestText(text),
		Preview:     content.Preview(text),
		CapturedAt:  capturedAt,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	return id
}

// insertImage stores a real 2x2 PNG under the store's images directory and
// inserts the matching item row.
func insertImage(t *testing.T, s *store.Store, seed byte, capturedAt int64) (int64, string) {
	t.Helper()
	pix := make([]byte, 2*2*4)
	for i := range pix {
		pix[i] = 255
	}
	pix[0] = seed
	data, err := content.EncodeRGBA(pix, 2, 2)
	if err != nil {
		t.Fatalf("EncodeRGBA failed: %v", err)
	}
	digest := content.Digest(pix)
	path := filepath.Join(s.ImagesDir(), content.ImageFilename(int64(capturedAt)*1e9, digest))
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	id, err := s.Insert(item.CaptureEvent{
		Content:     "Image 2x2",
		ContentKind: item.KindImage,
		ImagePath:   path,
		Category:    "misc",
		SourceApp:   "Tests",
		Digest:      digest,
		Preview:     "Image 2x2",
		CapturedAt:  capturedAt,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	return id, path
}

func TestList_Pagination(t *testing.T) {
	svc, _, s := openTestService(t)
	for i := int64(0); i < 25; i++ {
		insertText(t, s, "entry "+string(rune('a'+i)), i+1)
	}

	out, err := svc.List(ListInput{Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 10 {
		t.Errorf("item count = %d, want 10", len(out.Items))
	}
	if !out.Pagination.HasMore {
		t.Error("HasMore = false, want true")
	}

	out, err = svc.List(ListInput{Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 5 {
		t.Errorf("item count at tail = %d, want 5", len(out.Items))
	}
	if out.Pagination.HasMore {
		t.Error("HasMore = true at tail, want false")
	}
}

func TestList_ClampsLimit(t *testing.T) {
	svc, _, s := openTestService(t)
	insertText(t, s, "one", 1)

	out, err := svc.List(ListInput{Limit: 100000})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want %d", out.Pagination.Limit, MaxListLimit)
	}

	out, err = svc.List(ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Limit != DefaultListLimit {
		t.Errorf("default Limit = %d, want %d", out.Pagination.Limit, DefaultListLimit)
	}
}

func TestSearch_Validation(t *testing.T) {
	svc, _, _ := openTestService(t)

	if _, err := svc.Search(SearchInput{Query: "  "}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Error("blank query should be INVALID_INPUT")
	}

	from, to := int64(100), int64(50)
	_, err := svc.Search(SearchInput{
		Query:   "x",
		Filters: item.SearchFilters{DateFrom: &from, DateTo: &to},
	})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Error("inverted date range should be INVALID_INPUT")
	}
}

func TestSearch_Finds(t *testing.T) {
	svc, _, s := openTestService(t)
	insertText(t, s, "rotate the api key", 1)
	insertText(t, s, "weekend plans", 2)

	out, err := svc.Search(SearchInput{Query: "api"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].Content != "rotate the api key" {
		t.Errorf("search results = %v", out.Items)
	}
}

func TestCopy_Text(t *testing.T) {
	svc, clip, s := openTestService(t)
	echo := &fakeEcho{}
	svc.WithCapture(echo, &fakeCaptureCfg{})
	id := insertText(t, s, "copy me", 1)

	out, err := svc.Copy(id)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if clip.text != "copy me" {
		t.Errorf("clipboard text = %q", clip.text)
	}
	if out.ContentKind != item.KindText {
		t.Errorf("ContentKind = %q", out.ContentKind)
	}
	if len(echo.digests) != 1 || echo.digests[0] != content.DigestText("copy me") {
		t.Errorf("echo digests = %v", echo.digests)
	}
}

func TestCopy_Image(t *testing.T) {
	svc, clip, s := openTestService(t)
	id, _ := insertImage(t, s, 1, 1)

	if _, err := svc.Copy(id); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if clip.image == nil {
		t.Fatal("clipboard image not written")
	}
	if clip.image.Width != 2 || clip.image.Height != 2 {
		t.Errorf("image dims = %dx%d, want 2x2", clip.image.Width, clip.image.Height)
	}
}

func TestCopy_NotFound(t *testing.T) {
	svc, _, _ := openTestService(t)
	if _, err := svc.Copy(999); !errors.Is(err, errors.ErrNotFound) {
		t.Error("missing id should be NOT_FOUND")
	}
}

func TestCopy_NoClipboard(t *testing.T) {
	s, err := store.Open(t.TempDir(), config.DefaultConfig())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()
	svc := New(s, nil)
	id := insertText(t, s, "unreachable", 1)

	if _, err := svc.Copy(id); !errors.Is(err, errors.ErrClipboardUnavailable) {
		t.Error("nil clipboard should be CLIPBOARD_UNAVAILABLE")
	}
}

func TestUpdateSettings_ValidatesAndPushes(t *testing.T) {
	svc, _, s := openTestService(t)
	cfg := &fakeCaptureCfg{}
	svc.WithCapture(&fakeEcho{}, cfg)

	bad := item.DefaultSettings()
	bad.MaxItems = 1
	if err := svc.UpdateSettings(bad); !errors.Is(err, errors.ErrInvalidInput) {
		t.Error("out-of-range max_items should be INVALID_INPUT")
	}

	good := item.DefaultSettings()
	good.AutoExcludeSensitive = false
	good.MaxImageSizeMB = 20
	if err := svc.UpdateSettings(good); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	stored, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if stored.MaxImageSizeMB != 20 {
		t.Errorf("MaxImageSizeMB = %d, want 20", stored.MaxImageSizeMB)
	}
	if cfg.autoExclude == nil || *cfg.autoExclude {
		t.Error("auto exclude not pushed to capture policy")
	}
	if cfg.maxImageSizeMB == nil || *cfg.maxImageSizeMB != 20 {
		t.Error("image size budget not pushed to capture policy")
	}
}

func TestExclusions_PushedLive(t *testing.T) {
	svc, _, _ := openTestService(t)
	cfg := &fakeCaptureCfg{}
	svc.WithCapture(&fakeEcho{}, cfg)

	if err := svc.AddExclusion("  KeePassXC  "); err != nil {
		t.Fatalf("AddExclusion failed: %v", err)
	}
	if len(cfg.exclusions) != 1 || cfg.exclusions[0] != "KeePassXC" {
		t.Errorf("pushed exclusions = %v", cfg.exclusions)
	}

	if err := svc.RemoveExclusion("KeePassXC"); err != nil {
		t.Fatalf("RemoveExclusion failed: %v", err)
	}
	if len(cfg.exclusions) != 0 {
		t.Errorf("pushed exclusions after remove = %v", cfg.exclusions)
	}

	if err := svc.AddExclusion("   "); !errors.Is(err, errors.ErrInvalidInput) {
		t.Error("blank app name should be INVALID_INPUT")
	}
}

func TestReadImage(t *testing.T) {
	svc, _, s := openTestService(t)
	id, path := insertImage(t, s, 2, 1)

	out, err := svc.ReadImage(id)
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	if out.MimeType != "image/png" {
		t.Errorf("MimeType = %q", out.MimeType)
	}
	want, _ := os.ReadFile(path)
	if len(out.Data) == 0 || len(out.Data) != len(want) {
		t.Errorf("Data length = %d, want %d", len(out.Data), len(want))
	}
}

func TestReadImage_RejectsTextItem(t *testing.T) {
	svc, _, s := openTestService(t)
	id := insertText(t, s, "not an image", 1)

	if _, err := svc.ReadImage(id); !errors.Is(err, errors.ErrInvalidInput) {
		t.Error("text item should be INVALID_INPUT")
	}
}

func TestReadImage_RejectsPathOutsideImagesDir(t *testing.T) {
	svc, _, s := openTestService(t)

	outside := filepath.Join(t.TempDir(), "rogue.png")
	if err := os.WriteFile(outside, []byte("x"), 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	id, err := s.Insert(item.CaptureEvent{
		Content:     "Image 1x1",
		ContentKind: item.KindImage,
		ImagePath:   outside,
		Category:    "misc",
		SourceApp:   "Tests",
		Digest:      content.Digest([]byte("rogue")),
		Preview:     "Image 1x1",
		CapturedAt:  1,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if _, err := svc.ReadImage(id); !errors.Is(err, errors.ErrInvalidInput) {
		t.Error("path outside images dir should be INVALID_INPUT")
	}
}

func TestContainsTraversal(t *testing.T) {
	if !containsTraversal("a/../b.png") {
		t.Error("traversal not detected")
	}
	if containsTraversal("plain_name..png") {
		t.Error("embedded dots wrongly flagged")
	}
}
