package artifact

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestManager(t *testing.T) {
	Convey("Manager owns the page image lifecycle", t, func() {
		dir := t.TempDir()
		m, err := NewManager(dir)
		So(err, ShouldBeNil)

		Convey("Path is deterministic and keyed on the index", func() {
			So(m.Path(0), ShouldEqual, filepath.Join(dir, "story_page_0.png"))
			So(m.Path(12), ShouldEqual, filepath.Join(dir, "story_page_12.png"))
		})

		Convey("Clear removes only files matching the naming pattern", func() {
			writeFile(t, m.Path(0))
			writeFile(t, m.Path(1))
			unrelated := filepath.Join(dir, "keep_me.png")
			writeFile(t, unrelated)

			So(m.Clear(), ShouldBeNil)

			files, err := m.List()
			So(err, ShouldBeNil)
			So(files, ShouldBeEmpty)
			_, statErr := os.Stat(unrelated)
			So(statErr, ShouldBeNil)
		})

		Convey("Clear is idempotent: a second call on an empty dir is a no-op", func() {
			writeFile(t, m.Path(0))
			So(m.Clear(), ShouldBeNil)
			So(m.Clear(), ShouldBeNil)

			files, err := m.List()
			So(err, ShouldBeNil)
			So(files, ShouldBeEmpty)
		})

		Convey("List orders numerically, not lexically", func() {
			for _, idx := range []int{10, 2, 0, 1} {
				writeFile(t, m.Path(idx))
			}

			files, err := m.List()
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{
				m.Path(0), m.Path(1), m.Path(2), m.Path(10),
			})
		})

		Convey("Resolve accepts managed names and rejects traversal", func() {
			writeFile(t, m.Path(3))

			path, ok := m.Resolve("/images/story_page_3.png")
			So(ok, ShouldBeTrue)
			So(path, ShouldEqual, m.Path(3))

			_, ok = m.Resolve("../../etc/passwd")
			So(ok, ShouldBeFalse)

			_, ok = m.Resolve("story_page_99.png") // matching name, missing file
			So(ok, ShouldBeFalse)
		})
	})
}
