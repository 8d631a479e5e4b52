package transport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/semmidev/fileup/internal/config"
	"github.com/semmidev/fileup/internal/domain"
)

// SCPStorage holds no session: every operation runs one scp or ssh process.
// Credentials are optional, an alias from ~/.ssh/config works as hostname.
type SCPStorage struct {
	config *config.Target
	runner Runner
}

func NewSCP(cfg *config.Target, runner Runner) *SCPStorage {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &SCPStorage{config: cfg, runner: runner}
}

func (s *SCPStorage) host() string {
	if s.config.Username != "" {
		return s.config.Username + "@" + s.config.Hostname
	}
	return s.config.Hostname
}

func (s *SCPStorage) identity() []string {
	if s.config.PrivateKey != "" {
		return []string{"-i", s.config.PrivateKey}
	}
	return nil
}

func (s *SCPStorage) remoteDir() string {
	if dir := s.config.RemoteDir(); dir != "" {
		return dir
	}
	return "."
}

func (s *SCPStorage) remotePath(name string) string {
	return path.Join(s.remoteDir(), name)
}

func (s *SCPStorage) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	return s.runner.Run(ctx, name, args...)
}

func (s *SCPStorage) Upload(ctx context.Context, localPath string, remoteName string) error {
	if _, err := os.Stat(localPath); errors.Is(err, fs.ErrNotExist) {
		empty, err := os.CreateTemp("", "fileup-empty-*")
		if err != nil {
			return &domain.TransferError{Op: "upload", Name: remoteName, Err: fmt.Errorf("failed to create empty file: %w", err)}
		}
		empty.Close()
		defer os.Remove(empty.Name())
		localPath = empty.Name()
	}

	args := append([]string{"-q"}, s.identity()...)
	args = append(args, localPath, s.host()+":"+s.remotePath(remoteName))

	if _, err := s.run(ctx, "scp", args...); err != nil {
		return &domain.TransferError{Op: "upload", Name: remoteName, Err: err}
	}
	return nil
}

func (s *SCPStorage) List(ctx context.Context) ([]string, error) {
	args := append(s.identity(), s.host(), "ls -1 "+s.remoteDir())

	out, err := s.run(ctx, "ssh", args...)
	if err != nil {
		return nil, &domain.TransferError{Op: "list", Err: err}
	}

	return strings.FieldsFunc(string(out), func(r rune) bool {
		return r == '\n' || r == '\r'
	}), nil
}

func (s *SCPStorage) Delete(ctx context.Context, remoteName string) error {
	args := append(s.identity(), s.host(), "rm "+s.remotePath(remoteName))

	if _, err := s.run(ctx, "ssh", args...); err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "No such file or directory") {
			return domain.NotFound("delete", remoteName, err)
		}
		return &domain.TransferError{Op: "delete", Name: remoteName, Err: err}
	}
	return nil
}

func (s *SCPStorage) Close() error {
	return nil
}
