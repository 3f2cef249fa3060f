// Package export delivers sales report files to the distributor's SFTP sink.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/bookworks/backend/internal/infrastructure/config"
)

const sftpDialTimeout = 30 * time.Second

// SFTPUploader delivers report files to the distributor's SFTP drop
// directory. Each upload opens a fresh connection; there is no retry, the
// caller records the failure and the next scheduled run tries again.
type SFTPUploader struct {
	config config.SFTPConfig
	logger *zap.Logger
}

// NewSFTPUploader creates an uploader for the configured sink
func NewSFTPUploader(cfg config.SFTPConfig, logger *zap.Logger) *SFTPUploader {
	return &SFTPUploader{config: cfg, logger: logger}
}

// Upload writes data to filename in the configured remote directory
func (u *SFTPUploader) Upload(ctx context.Context, filename string, data []byte) error {
	auth, err := u.authMethod()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", u.config.Host, u.config.Port)
	sshConfig := &ssh.ClientConfig{
		User: u.config.Username,
		Auth: []ssh.AuthMethod{auth},
		// Host keys are not pinned for this sink
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sftpDialTimeout,
	}

	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return fmt.Errorf("dial sftp host %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return fmt.Errorf("open sftp session: %w", err)
	}
	defer client.Close()

	remotePath := filename
	if u.config.RemoteDir != "" {
		remotePath = path.Join(u.config.RemoteDir, filename)
	}

	file, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create remote file %s: %w", remotePath, err)
	}

	if err := writeRemote(file, remotePath, data); err != nil {
		return err
	}

	u.logger.Info("Uploaded sales report",
		zap.String("remote_path", remotePath),
		zap.Int("bytes", len(data)))
	return nil
}

// writeRemote writes data and closes the file. Close flushes the remote
// write, so its error means a short upload and must not be dropped.
func writeRemote(file io.WriteCloser, remotePath string, data []byte) error {
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("write remote file %s: %w", remotePath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close remote file %s: %w", remotePath, err)
	}
	return nil
}

// authMethod picks key authentication when a key path is configured,
// otherwise password authentication
func (u *SFTPUploader) authMethod() (ssh.AuthMethod, error) {
	if u.config.KeyPath != "" {
		key, err := os.ReadFile(u.config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("read ssh key %s: %w", u.config.KeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse ssh key %s: %w", u.config.KeyPath, err)
		}
		return ssh.PublicKeys(signer), nil
	}
	if u.config.Password != "" {
		return ssh.Password(u.config.Password), nil
	}
	return nil, fmt.Errorf("sftp sink has neither key nor password configured")
}
