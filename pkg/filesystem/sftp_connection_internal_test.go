package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func TestSFTPConnection_Client_ReturnsNilWhenNil(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	conn := &SFTPConnection{}
	g.Expect(conn.Client()).To(BeNil())
}

func TestSFTPConnection_Close_WithNilClients(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	conn := &SFTPConnection{}
	g.Expect(conn.Close()).To(Succeed())
}

func TestSFTPConnection_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	conn := &SFTPConnection{host: "example.com", port: 2222, user: "joe"}
	g.Expect(conn.String()).To(Equal("joe@example.com:2222"))
}

// TestSFTPConnection_Close_AfterSuccessfulConnection needs a reachable local sshd
// with agent or key auth, and skips otherwise.
func TestSFTPConnection_Close_AfterSuccessfulConnection(t *testing.T) {
	t.Parallel()

	if os.Getenv("SKIP_SSH_TESTS") != "" {
		t.Skip("Skipping SSH integration test (SKIP_SSH_TESTS is set)")
	}

	conn, err := Connect("localhost", 22, os.Getenv("USER"), ConnectOptions{})
	if err != nil {
		t.Skipf("SSH connection unavailable: %v", err)
	}

	g := NewWithT(t)
	g.Expect(conn.Close()).To(Succeed())
}

func TestHostKeyCallback_InsecureSkipsKnownHosts(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	callback, err := hostKeyCallback(ConnectOptions{
		KnownHostsPath:        "/definitely/not/here",
		InsecureIgnoreHostKey: true,
	})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(callback).ToNot(BeNil())
}

func TestHostKeyCallback_MissingKnownHostsFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := hostKeyCallback(ConnectOptions{
		KnownHostsPath: filepath.Join(t.TempDir(), "known_hosts"),
	})
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("failed to load known_hosts"))
}

func TestHostKeyCallback_LoadsKnownHostsFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "known_hosts")
	g.Expect(os.WriteFile(path, nil, 0o600)).To(Succeed())

	callback, err := hostKeyCallback(ConnectOptions{KnownHostsPath: path})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(callback).ToNot(BeNil())
}

func TestTrySSHAgent_NoSocket(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	g := NewWithT(t)

	g.Expect(trySSHAgent()).To(BeNil())
}
