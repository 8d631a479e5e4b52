package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/textproto"
	"os"
	"path"

	"github.com/jlaffaye/ftp"

	"github.com/semmidev/fileup/internal/config"
	"github.com/semmidev/fileup/internal/domain"
)

const defaultFTPPort = "21"

// ftpConn is the part of *ftp.ServerConn the uploader needs.
type ftpConn interface {
	Stor(path string, r io.Reader) error
	NameList(path string) ([]string, error)
	Delete(path string) error
	Quit() error
}

type ftpDialer func(ctx context.Context, cfg *config.Target) (ftpConn, error)

// FTPStorage keeps one logged-in session for the lifetime of the uploader.
type FTPStorage struct {
	conn   ftpConn
	closed bool
}

// NewFTP validates the credentials, then connects, logs in and changes into
// base_folder/file_up_folder.
func NewFTP(ctx context.Context, cfg *config.Target) (*FTPStorage, error) {
	return newFTP(ctx, cfg, dialFTP)
}

func newFTP(ctx context.Context, cfg *config.Target, dial ftpDialer) (*FTPStorage, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, &domain.ConfigError{Field: "ftp", Reason: "FTP requires username and password"}
	}

	conn, err := dial(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &FTPStorage{conn: conn}, nil
}

func dialFTP(ctx context.Context, cfg *config.Target) (ftpConn, error) {
	addr := cfg.Hostname
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, defaultFTPPort)
	}

	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if cfg.Timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(cfg.Timeout))
	}

	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, &domain.TransferError{Op: "connect", Name: addr, Err: err}
	}

	if err := conn.Login(cfg.Username, cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, &domain.TransferError{Op: "login", Name: cfg.Username, Err: err}
	}

	if dir := cfg.RemoteDir(); dir != "" {
		if err := conn.ChangeDir(dir); err != nil {
			_ = conn.Quit()
			return nil, &domain.TransferError{Op: "cwd", Name: dir, Err: err}
		}
	}

	return conn, nil
}

func (f *FTPStorage) Upload(ctx context.Context, localPath string, remoteName string) error {
	var body io.Reader

	file, err := os.Open(localPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		body = bytes.NewReader(nil)
	case err != nil:
		return &domain.TransferError{Op: "upload", Name: remoteName, Err: fmt.Errorf("failed to open file: %w", err)}
	default:
		defer file.Close()
		body = file
	}

	if err := f.conn.Stor(remoteName, body); err != nil {
		return &domain.TransferError{Op: "upload", Name: remoteName, Err: err}
	}

	return nil
}

func (f *FTPStorage) List(ctx context.Context) ([]string, error) {
	entries, err := f.conn.NameList("")
	if err != nil {
		return nil, &domain.TransferError{Op: "list", Err: err}
	}

	// Some servers answer NLST with paths rather than bare names.
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := path.Base(entry)
		if name == "." || name == ".." || name == "/" {
			continue
		}
		files = append(files, name)
	}

	return files, nil
}

func (f *FTPStorage) Delete(ctx context.Context, remoteName string) error {
	if err := f.conn.Delete(remoteName); err != nil {
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) && protoErr.Code == ftp.StatusFileUnavailable {
			return domain.NotFound("delete", remoteName, err)
		}
		return &domain.TransferError{Op: "delete", Name: remoteName, Err: err}
	}
	return nil
}

// Close sends QUIT once; later calls are no-ops.
func (f *FTPStorage) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if err := f.conn.Quit(); err != nil {
		return &domain.TransferError{Op: "quit", Err: err}
	}
	return nil
}
