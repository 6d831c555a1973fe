package capture

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// maxFrameSize bounds a single received datagram. Wire frames are tiny
// (16 bytes plaintext, 44 sealed) but a generous buffer keeps the
// listener tolerant of future kinds.
const maxFrameSize = 2048

// Frame represents one received wire frame
type Frame struct {
	Source    string
	Data      []byte
	Timestamp time.Time
}

// Listener receives wire frames over UDP and delivers them on a channel
type Listener struct {
	addr     string
	conn     net.PacketConn
	frames   chan Frame
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// New creates a new Listener for the given UDP address
func New(addr string) *Listener {
	return &Listener{
		addr:     addr,
		frames:   make(chan Frame, 1000), // Buffer size of 1000 frames
		stopChan: make(chan struct{}),
	}
}

// Start binds the UDP socket and begins the receive loop
func (l *Listener) Start() error {
	conn, err := net.ListenPacket("udp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.addr, err)
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()

	l.wg.Add(1)
	go l.receiveLoop(conn)

	return nil
}

// LocalAddr returns the bound address, useful when listening on port 0
func (l *Listener) LocalAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Stop gracefully stops the listener
func (l *Listener) Stop() {
	close(l.stopChan)
	l.mu.Lock()
	if l.conn != nil {
		l.conn.Close()
	}
	l.mu.Unlock()
	l.wg.Wait()
	close(l.frames)
}

// Frames returns the channel for receiving frames
func (l *Listener) Frames() <-chan Frame {
	return l.frames
}

func (l *Listener) receiveLoop(conn net.PacketConn) {
	defer l.wg.Done()

	buffer := make([]byte, maxFrameSize)
	for {
		select {
		case <-l.stopChan:
			return
		default:
			if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
				fmt.Printf("Warning: failed to set read deadline: %v\n", err)
			}

			n, addr, err := conn.ReadFrom(buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				// Closed socket or fatal error: the stop check above
				// decides whether we exit quietly.
				select {
				case <-l.stopChan:
				default:
					fmt.Printf("Warning: read error: %v\n", err)
				}
				return
			}

			// Copy the datagram to avoid buffer reuse issues
			data := make([]byte, n)
			copy(data, buffer[:n])

			select {
			case l.frames <- Frame{
				Source:    addr.String(),
				Data:      data,
				Timestamp: time.Now().UTC(),
			}:
			case <-l.stopChan:
				return
			}
		}
	}
}
