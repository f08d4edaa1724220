package dataset_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/drafter/internal/adapters/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

func startWatcher(t *testing.T, dir string) (<-chan struct{}, context.CancelFunc) {
	t.Helper()
	changes := make(chan struct{}, 16)
	w := dataset.NewWatcher([]string{dir, dir, ""}, func(context.Context) {
		changes <- struct{}{}
	}, dataset.WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// Let the watch register before the test writes.
	time.Sleep(100 * time.Millisecond)
	return changes, func() {
		cancel()
		<-done
	}
}

func TestWatcher(t *testing.T) {
	Convey("Given a watched directory", t, func() {
		dir := t.TempDir()
		changes, stop := startWatcher(t, dir)
		defer stop()

		Convey("When a burst of files is written", func() {
			for i := 0; i < 5; i++ {
				So(os.WriteFile(filepath.Join(dir, fmt.Sprintf("hero%d.json", i)), []byte("{}"), 0o600), ShouldBeNil)
			}

			Convey("Then the handler runs once after the burst settles", func() {
				select {
				case <-changes:
				case <-time.After(3 * time.Second):
					So("no change notification", ShouldBeEmpty)
				}
				select {
				case <-changes:
					So("second notification for one burst", ShouldBeEmpty)
				case <-time.After(300 * time.Millisecond):
				}
			})
		})

		Convey("When only a hidden file changes", func() {
			So(os.WriteFile(filepath.Join(dir, ".hero.json.swp"), []byte("x"), 0o600), ShouldBeNil)

			Convey("Then the handler does not run", func() {
				select {
				case <-changes:
					So("unexpected notification", ShouldBeEmpty)
				case <-time.After(300 * time.Millisecond):
				}
			})
		})
	})

	Convey("Given a directory that does not exist", t, func() {
		w := dataset.NewWatcher([]string{filepath.Join(t.TempDir(), "missing")}, func(context.Context) {})

		Convey("Then Run fails immediately", func() {
			So(w.Run(context.Background()), ShouldNotBeNil)
		})
	})
}
