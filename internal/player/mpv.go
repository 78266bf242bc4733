package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/localdemy/internal/logging"
)

const (
	defaultStartTimeout   = 5 * time.Second
	defaultCommandTimeout = 2 * time.Second
)

// ErrNotRunning is returned by commands issued before a video was loaded.
var ErrNotRunning = errors.New("mpv is not running")

// MPV controls an mpv process through its JSON IPC socket. The process is
// started on the first LoadURI and restarted if it goes away.
type MPV struct {
	binary string
	socket string
	native bool
	log    logrus.FieldLogger

	StartTimeout   time.Duration
	CommandTimeout time.Duration

	mu     sync.Mutex
	cmd    *exec.Cmd
	conn   net.Conn
	reader *bufio.Reader
	nextID int
}

// NewMPV returns a backend that runs binary. native selects whether mpv
// renders subtitles itself.
func NewMPV(binary string, native bool, log logrus.FieldLogger) *MPV {
	if binary == "" {
		binary = "mpv"
	}
	return &MPV{
		binary:         binary,
		socket:         filepath.Join(os.TempDir(), fmt.Sprintf("localdemy-mpv-%d.sock", os.Getpid())),
		native:         native,
		log:            logging.OrDiscard(log),
		StartTimeout:   defaultStartTimeout,
		CommandTimeout: defaultCommandTimeout,
	}
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type ipcResponse struct {
	RequestID int             `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	Event     string          `json:"event"`
}

func (m *MPV) LoadURI(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureRunningLocked(); err != nil {
		return err
	}
	_, err := m.commandLocked("loadfile", path, "replace")
	if err == nil {
		m.log.WithField("path", path).Info("playing video")
	}
	return err
}

func (m *MPV) Seek(position time.Duration) error {
	_, err := m.command("seek", position.Seconds(), "absolute")
	return err
}

func (m *MPV) QueryPosition() (time.Duration, bool) {
	return m.durationProperty("time-pos")
}

func (m *MPV) QueryDuration() (time.Duration, bool) {
	return m.durationProperty("duration")
}

func (m *MPV) Play() error {
	_, err := m.command("set_property", "pause", false)
	return err
}

func (m *MPV) Pause() error {
	_, err := m.command("set_property", "pause", true)
	return err
}

func (m *MPV) Stop() error {
	_, err := m.command("stop")
	return err
}

func (m *MPV) SupportsNativeSubtitles() bool {
	return m.native
}

func (m *MPV) SetSubtitleFile(path string) error {
	if path == "" {
		_, err := m.command("sub-remove")
		return err
	}
	_, err := m.command("sub-add", path, "select")
	return err
}

// Close asks mpv to quit and drops the connection.
func (m *MPV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	_, _ = m.commandLocked("quit")
	m.dropLocked()
	return nil
}

func (m *MPV) durationProperty(name string) (time.Duration, bool) {
	data, err := m.command("get_property", name)
	if err != nil {
		return 0, false
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

func (m *MPV) command(args ...any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commandLocked(args...)
}

func (m *MPV) commandLocked(args ...any) (json.RawMessage, error) {
	if m.conn == nil {
		return nil, ErrNotRunning
	}
	m.nextID++
	id := m.nextID
	payload, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encode mpv command: %w", err)
	}
	_ = m.conn.SetDeadline(time.Now().Add(m.CommandTimeout))
	if _, err := m.conn.Write(append(payload, '\n')); err != nil {
		m.dropLocked()
		return nil, fmt.Errorf("write mpv command: %w", err)
	}
	for {
		line, err := m.reader.ReadBytes('\n')
		if err != nil {
			m.dropLocked()
			return nil, fmt.Errorf("read mpv reply: %w", err)
		}
		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			m.log.WithError(err).Debug("ignoring malformed mpv message")
			continue
		}
		if resp.Event != "" || resp.RequestID != id {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv %v: %s", args[0], resp.Error)
		}
		return resp.Data, nil
	}
}

func (m *MPV) ensureRunningLocked() error {
	if m.conn != nil {
		return nil
	}
	_ = os.Remove(m.socket)
	args := []string{
		"--idle=yes",
		"--force-window=yes",
		"--no-terminal",
		"--input-ipc-server=" + m.socket,
	}
	if !m.native {
		args = append(args, "--sub-auto=no")
	}
	cmd := exec.Command(m.binary, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.binary, err)
	}
	m.cmd = cmd
	go m.reap(cmd)

	conn, err := dialSocket(m.socket, m.StartTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("connect to %s: %w", m.binary, err)
	}
	m.attachLocked(conn)
	return nil
}

func (m *MPV) attachLocked(conn net.Conn) {
	m.conn = conn
	m.reader = bufio.NewReader(conn)
}

func (m *MPV) dropLocked() {
	if m.conn != nil {
		_ = m.conn.Close()
	}
	m.conn = nil
	m.reader = nil
}

func (m *MPV) reap(cmd *exec.Cmd) {
	err := cmd.Wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cmd != cmd {
		return
	}
	m.cmd = nil
	m.dropLocked()
	m.log.WithError(err).Debug("mpv exited")
}

// dialSocket waits for mpv to create its IPC socket, retrying with
// exponential backoff until timeout has passed.
func dialSocket(path string, timeout time.Duration) (net.Conn, error) {
	if timeout <= 0 {
		timeout = defaultStartTimeout
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = timeout

	var conn net.Conn
	err := backoff.Retry(func() error {
		c, err := net.Dial("unix", path)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}, policy)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
