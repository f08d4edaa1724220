package dataset_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/drafter/internal/adapters/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCheckFreshness(t *testing.T) {
	Convey("Given a dataset path", t, func() {
		path := filepath.Join(t.TempDir(), "dota_heroes_stratz.json")
		now := time.Now()

		Convey("When the file does not exist", func() {
			f, err := dataset.CheckFreshness(path, dataset.DefaultMaxAge, now)

			Convey("Then it is reported stale without error", func() {
				So(err, ShouldBeNil)
				So(f.Exists, ShouldBeFalse)
				So(f.Fresh, ShouldBeFalse)
				So(f.Path, ShouldEqual, path)
			})
		})

		Convey("When the file was written a day ago", func() {
			So(os.WriteFile(path, []byte("[]"), 0o600), ShouldBeNil)
			day := now.Add(-24 * time.Hour)
			So(os.Chtimes(path, day, day), ShouldBeNil)

			f, err := dataset.CheckFreshness(path, dataset.DefaultMaxAge, now)

			Convey("Then it is fresh", func() {
				So(err, ShouldBeNil)
				So(f.Exists, ShouldBeTrue)
				So(f.Fresh, ShouldBeTrue)
				So(f.Age.Seconds(), ShouldAlmostEqual, 86400, 2)
			})
		})

		Convey("When the file is exactly at the window boundary", func() {
			So(os.WriteFile(path, []byte("[]"), 0o600), ShouldBeNil)
			old := now.Add(-dataset.DefaultMaxAge)
			So(os.Chtimes(path, old, old), ShouldBeNil)

			f, err := dataset.CheckFreshness(path, dataset.DefaultMaxAge, now)

			Convey("Then it is stale", func() {
				So(err, ShouldBeNil)
				So(f.Fresh, ShouldBeFalse)
			})
		})

		Convey("When the file has a modification time in the future", func() {
			So(os.WriteFile(path, []byte("[]"), 0o600), ShouldBeNil)
			future := now.Add(time.Hour)
			So(os.Chtimes(path, future, future), ShouldBeNil)

			f, err := dataset.CheckFreshness(path, dataset.DefaultMaxAge, now)

			Convey("Then its age is zero and it is fresh", func() {
				So(err, ShouldBeNil)
				So(f.Age, ShouldEqual, time.Duration(0))
				So(f.Fresh, ShouldBeTrue)
			})
		})
	})
}
