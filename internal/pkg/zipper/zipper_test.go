package zipper

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Build packages files into a readable zip archive", t, func() {
		dir := t.TempDir()
		a := filepath.Join(dir, "story_page_0.png")
		b := filepath.Join(dir, "story_page_1.png")
		So(os.WriteFile(a, []byte("title page"), 0o644), ShouldBeNil)
		So(os.WriteFile(b, []byte("page one"), 0o644), ShouldBeNil)

		Convey("entries carry base names and original contents", func() {
			data, err := Build([]string{a, b})
			So(err, ShouldBeNil)

			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			So(err, ShouldBeNil)
			So(zr.File, ShouldHaveLength, 2)
			So(zr.File[0].Name, ShouldEqual, "story_page_0.png")
			So(zr.File[1].Name, ShouldEqual, "story_page_1.png")

			rc, err := zr.File[1].Open()
			So(err, ShouldBeNil)
			defer rc.Close()
			content, err := io.ReadAll(rc)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "page one")
		})

		Convey("an empty path list yields a valid empty archive", func() {
			data, err := Build(nil)
			So(err, ShouldBeNil)

			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			So(err, ShouldBeNil)
			So(zr.File, ShouldBeEmpty)
		})

		Convey("a missing file aborts the archive", func() {
			_, err := Build([]string{a, filepath.Join(dir, "missing.png")})
			So(err, ShouldNotBeNil)
		})
	})
}
