package clipboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeSystem struct {
	installed map[string]bool
	outputs   map[string][]byte
	stdin     map[string][]byte
}

func (f *fakeSystem) clipboard() *Clipboard {
	return &Clipboard{
		lookPath: func(name string) (string, error) {
			if f.installed[name] {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		},
		run: func(ctx context.Context, bin string, args []string, stdin []byte) ([]byte, error) {
			name := filepath.Base(bin)
			if stdin != nil {
				f.stdin[name] = stdin
				return nil, nil
			}
			out, ok := f.outputs[name]
			if !ok {
				return nil, errors.New("exit status 1")
			}
			return out, nil
		},
		now: func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func TestClipboard(t *testing.T) {
	Convey("Given a clipboard", t, func() {
		ctx := context.Background()
		sys := &fakeSystem{installed: map[string]bool{}, outputs: map[string][]byte{}, stdin: map[string][]byte{}}

		Convey("When an image is available", func() {
			sys.installed["wl-paste"] = true
			sys.outputs["wl-paste"] = []byte("\x89PNG")

			path, name, err := sys.clipboard().ToTempFile(ctx, "")
			defer os.Remove(path)

			Convey("It should write a png and name it after the time", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "clipboard-20240102-030405.png")
				So(filepath.Ext(path), ShouldEqual, ".png")
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "\x89PNG")
			})
		})

		Convey("When only text is available", func() {
			sys.installed["xsel"] = true
			sys.outputs["xsel"] = []byte("hello")

			path, name, err := sys.clipboard().ToTempFile(ctx, "notes.txt")
			defer os.Remove(path)

			Convey("It should keep the requested remote name", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "notes.txt")
				data, _ := os.ReadFile(path)
				So(string(data), ShouldEqual, "hello")
			})
		})

		Convey("When the first text tool returns invalid utf-8", func() {
			sys.installed["pbpaste"] = true
			sys.outputs["pbpaste"] = []byte{0xff, 0xfe}
			sys.installed["xsel"] = true
			sys.outputs["xsel"] = []byte("fallback")

			text, ok := sys.clipboard().ReadText(ctx)

			Convey("It should fall through to the next tool", func() {
				So(ok, ShouldBeTrue)
				So(text, ShouldEqual, "fallback")
			})
		})

		Convey("When no tool is installed", func() {
			_, _, err := sys.clipboard().ToTempFile(ctx, "")

			Convey("It should return ErrEmpty", func() {
				So(errors.Is(err, ErrEmpty), ShouldBeTrue)
			})
		})

		Convey("Copy", func() {
			Convey("It should feed the text to the first installed tool", func() {
				sys.installed["xclip"] = true
				So(sys.clipboard().Copy(ctx, "http://h/a.png"), ShouldBeNil)
				So(string(sys.stdin["xclip"]), ShouldEqual, "http://h/a.png")
			})

			Convey("It should report when nothing is installed", func() {
				err := sys.clipboard().Copy(ctx, "x")
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "pbcopy")
			})
		})
	})
}
