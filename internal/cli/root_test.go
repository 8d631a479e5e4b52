package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tomasbasham/cli-runtime/iooption"

	"github.com/semmidev/fileup/internal/clipboard"
	"github.com/semmidev/fileup/internal/usecase"
)

type fakeApp struct {
	requests []usecase.PublishRequest
	base     string
	err      error
	removed  int
	shutdown int
}

func (a *fakeApp) Publish(ctx context.Context, req usecase.PublishRequest) (string, error) {
	a.requests = append(a.requests, req)
	return a.base, a.err
}

func (a *fakeApp) Sweep(ctx context.Context) (int, error) {
	return a.removed, a.err
}

func (a *fakeApp) Shutdown() {
	a.shutdown++
}

type fakeClipboard struct {
	path   string
	name   string
	err    error
	copied []string
}

func (c *fakeClipboard) ToTempFile(ctx context.Context, remoteName string) (string, string, error) {
	if c.err != nil {
		return "", "", c.err
	}
	if remoteName == "" {
		remoteName = c.name
	}
	return c.path, remoteName, nil
}

func (c *fakeClipboard) Copy(ctx context.Context, text string) error {
	c.copied = append(c.copied, text)
	return errors.New("no clipboard command available")
}

func TestRootCommand(t *testing.T) {
	Convey("Given the fileup command", t, func() {
		out := &bytes.Buffer{}
		errOut := &bytes.Buffer{}
		application := &fakeApp{base: "files.example.com/stuff/photo.png"}
		clip := &fakeClipboard{}

		o := NewFileupOptions(iooption.IOStreams{In: &bytes.Buffer{}, Out: out, ErrOut: errOut})
		o.clipboard = clip
		var configPath string
		o.newApp = func(path string) (Application, error) {
			configPath = path
			return application, nil
		}

		execute := func(args ...string) error {
			cmd := NewRootCommandWithArgs(o)
			cmd.SetArgs(args)
			cmd.SetOut(out)
			cmd.SetErr(errOut)
			return cmd.ExecuteContext(context.Background())
		}

		Convey("When a filename is given with defaults", func() {
			err := execute("photo.png", "--config", "/tmp/fileup.yaml")

			Convey("It should publish for 90 days and print the URL", func() {
				So(err, ShouldBeNil)
				So(configPath, ShouldEqual, "/tmp/fileup.yaml")
				So(application.requests, ShouldHaveLength, 1)
				So(application.requests[0].LocalPath, ShouldEqual, "photo.png")
				So(application.requests[0].RemoteName, ShouldBeEmpty)
				So(application.requests[0].RetentionDays, ShouldEqual, 90)
				So(out.String(), ShouldEqual, "Your url is: http://files.example.com/stuff/photo.png\n")
				So(application.shutdown, ShouldEqual, 1)
			})

			Convey("A failed clipboard copy should only warn", func() {
				So(clip.copied, ShouldResemble, []string{"http://files.example.com/stuff/photo.png"})
				So(errOut.String(), ShouldContainSubstring, "Could not copy the URL to the clipboard")
			})
		})

		Convey("When keeping forever as an image link", func() {
			err := execute("photo.png", "-t", "0", "-i")

			Convey("It should request no marker and wrap the URL", func() {
				So(err, ShouldBeNil)
				So(application.requests[0].RetentionDays, ShouldEqual, 0)
				So(out.String(), ShouldEqual, "Your url is: ![](http://files.example.com/stuff/photo.png)\n")
			})
		})

		Convey("When publishing a notebook", func() {
			application.base = "files.example.com/nb.ipynb"
			err := execute("nb.ipynb")

			Convey("It should route the URL through nbviewer", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual, "Your url is: http://nbviewer.jupyter.org/url/files.example.com/nb.ipynb?flush_cache=true\n")
			})
		})

		Convey("When no filename is given", func() {
			err := execute()

			Convey("It should fail before building the application", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldEqual, "filename is required")
				So(configPath, ShouldBeEmpty)
			})
		})

		Convey("When direct and image are combined", func() {
			err := execute("photo.png", "-d", "-i")

			Convey("It should reject the flags", func() {
				So(err, ShouldNotBeNil)
				So(application.requests, ShouldBeEmpty)
			})
		})

		Convey("When the publish fails", func() {
			application.err = errors.New("upload: 553 could not create file")
			err := execute("photo.png")

			Convey("It should return the error and print nothing", func() {
				So(err, ShouldEqual, application.err)
				So(out.String(), ShouldBeEmpty)
				So(application.shutdown, ShouldEqual, 1)
			})
		})

		Convey("When uploading the clipboard", func() {
			tempFile, err := os.CreateTemp("", "fileup-clipboard-*.png")
			So(err, ShouldBeNil)
			tempFile.Close()
			clip.path = tempFile.Name()
			clip.name = "clipboard-20240102-030405.png"

			Convey("Without a name", func() {
				err := execute("-c")

				Convey("It should publish the temp file under the generated name and remove it", func() {
					So(err, ShouldBeNil)
					So(application.requests[0].LocalPath, ShouldEqual, tempFile.Name())
					So(application.requests[0].RemoteName, ShouldEqual, "clipboard-20240102-030405.png")
					_, err := os.Stat(tempFile.Name())
					So(os.IsNotExist(err), ShouldBeTrue)
				})
			})

			Convey("With a name", func() {
				err := execute("-c", "shot.png")

				Convey("It should use the argument as the remote name", func() {
					So(err, ShouldBeNil)
					So(application.requests[0].RemoteName, ShouldEqual, "shot.png")
					So(filepath.Base(application.requests[0].LocalPath), ShouldEqual, filepath.Base(tempFile.Name()))
				})
			})
		})

		Convey("When the clipboard is empty", func() {
			clip.err = clipboard.ErrEmpty
			err := execute("-c")

			Convey("It should report it without publishing", func() {
				So(errors.Is(err, clipboard.ErrEmpty), ShouldBeTrue)
				So(application.requests, ShouldBeEmpty)
			})
		})

		Convey("When sweeping", func() {
			application.removed = 2
			err := execute("sweep")

			Convey("It should print the number of removed files", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual, "Removed 2 expired file(s)\n")
				So(application.requests, ShouldBeEmpty)
			})
		})
	})
}
