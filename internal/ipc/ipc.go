// Package ipc carries typed utterances from voxa-ctl to a running voxa over
// a unix socket, one JSON message per connection.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
)

const DefaultSocketPath = "/tmp/voxa.sock"

const CmdSay = "say"

type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

// Server accepts control messages until Close is called.
type Server struct {
	ln   net.Listener
	path string
	done chan struct{}
}

func StartServer(path string, handler func(ControlMessage)) (*Server, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	if handler == nil {
		return nil, errors.New("ipc: handler must not be nil")
	}
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{ln: ln, path: path, done: make(chan struct{})}
	go s.serve(handler)
	return s, nil
}

func (s *Server) serve(handler func(ControlMessage)) {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("ipc accept", "err", err)
			continue
		}
		go handleConn(conn, handler)
	}
}

func (s *Server) Close() error {
	close(s.done)
	err := s.ln.Close()
	_ = os.Remove(s.path)
	return err
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		log.Debug("ipc decode", "err", err)
		return
	}
	handler(msg)
}

func SendCommand(path string, msg ControlMessage) error {
	if path == "" {
		path = DefaultSocketPath
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(msg)
}
