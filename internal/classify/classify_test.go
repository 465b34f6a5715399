package classify_test

import (
	"testing"

	"satchel/internal/classify"
)

func TestFileCategories(t *testing.T) {
	cases := []struct {
		path string
		want classify.Category
	}{
		{"photo.png", classify.CategoryImage},
		{"photo.JPG", classify.CategoryImage},
		{"scan.heic", classify.CategoryImage},
		{"clip.mp4", classify.CategoryVideo},
		{"clip.mov", classify.CategoryVideo},
		{"report.pdf", classify.CategoryOther},
		{"archive.zip", classify.CategoryOther},
		{"data.json", classify.CategoryOther},
		{"route.kml", classify.CategoryOther},
		{"model.pkl", classify.CategoryOther},
		{"image.dmg", classify.CategoryOther},
		{"state.dill", classify.CategoryOther},
		{"notes.txt", classify.CategoryUnsupported},
		{"binary.exe", classify.CategoryUnsupported},
		{"noextension", classify.CategoryUnsupported},
	}
	for _, tc := range cases {
		if got := classify.File(tc.path); got != tc.want {
			t.Fatalf("File(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestByMIMEStripsParameters(t *testing.T) {
	if got := classify.ByMIME("application/json; charset=utf-8"); got != classify.CategoryOther {
		t.Fatalf("ByMIME with parameters = %s, want other", got)
	}
	if got := classify.ByMIME("IMAGE/PNG"); got != classify.CategoryImage {
		t.Fatalf("ByMIME should be case-insensitive, got %s", got)
	}
}

func TestSupported(t *testing.T) {
	if classify.CategoryUnsupported.Supported() {
		t.Fatal("unsupported category must not report supported")
	}
	for _, c := range []classify.Category{classify.CategoryImage, classify.CategoryVideo, classify.CategoryOther} {
		if !c.Supported() {
			t.Fatalf("%s should report supported", c)
		}
	}
}

func TestCompressible(t *testing.T) {
	for _, p := range []string{"a.png", "b.jpg", "c.JPEG", "d.gif", "e.heic"} {
		if !classify.Compressible(p) {
			t.Fatalf("expected %q to be compressible", p)
		}
	}
	for _, p := range []string{"a.webp", "b.svg", "c.pdf", "d.mp4"} {
		if classify.Compressible(p) {
			t.Fatalf("did not expect %q to be compressible", p)
		}
	}
}

func TestResizable(t *testing.T) {
	if !classify.Resizable("diagram.png") {
		t.Fatal("images should take a display width")
	}
	if !classify.Resizable("paper.pdf") {
		t.Fatal("pdfs should take a display width")
	}
	if classify.Resizable("clip.mp4") {
		t.Fatal("videos should not take a display width")
	}
	if classify.Resizable("archive.zip") {
		t.Fatal("archives should not take a display width")
	}
}

func TestDetected(t *testing.T) {
	if got := classify.Detected("clip.mp4"); got != "video/mp4" {
		t.Fatalf("expected video/mp4, got %q", got)
	}
	if got := classify.Detected("model.dill"); got != ".dill" {
		t.Fatalf("unknown types report the extension, got %q", got)
	}
	if got := classify.Detected("README"); got != "no extension" {
		t.Fatalf("extensionless files need a readable answer, got %q", got)
	}
}
