package server

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	http3 "github.com/quic-go/quic-go/http3"
)

// HTTP3Server serves the verification API over HTTP/3. It owns the UDP
// socket, so an addr ending in ":0" binds an ephemeral port reported by
// Start.
type HTTP3Server struct {
	srv  *http3.Server
	pc   net.PacketConn
	addr string
	done chan struct{}
}

// NewHTTP3Server creates a server bound to addr with the given TLS config
// and handler.
func NewHTTP3Server(addr string, tlsCfg *tls.Config, h http.Handler) *HTTP3Server {
	return &HTTP3Server{
		srv:  &http3.Server{Addr: addr, TLSConfig: tlsCfg, Handler: h},
		addr: addr,
	}
}

// Start binds the socket and begins serving. It returns the actual bound
// address.
func (s *HTTP3Server) Start() (string, error) {
	pc, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return "", fmt.Errorf("binding %s: %w", s.addr, err)
	}
	s.pc = pc
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_ = s.srv.Serve(pc)
	}()
	return pc.LocalAddr().String(), nil
}

// Stop closes the server and waits briefly for the serve loop to drain.
func (s *HTTP3Server) Stop() error {
	if s.pc == nil {
		return nil
	}
	err := s.srv.Close()
	_ = s.pc.Close()
	select {
	case <-s.done:
	case <-time.After(time.Second):
	}
	s.pc = nil
	return err
}

// HTTP3Client returns an http.Client speaking HTTP/3 with the given TLS
// config.
func HTTP3Client(tlsCfg *tls.Config, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http3.Transport{TLSClientConfig: tlsCfg},
		Timeout:   timeout,
	}
}

// CloseHTTP3Client releases the client's HTTP/3 transport and the
// connections it holds.
func CloseHTTP3Client(c *http.Client) {
	if tr, ok := c.Transport.(*http3.Transport); ok {
		_ = tr.Close()
	}
}
