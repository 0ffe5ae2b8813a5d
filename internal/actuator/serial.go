package actuator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tarm/serial"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// DefaultBaud is the serial speed used when none is configured.
const DefaultBaud = 115200

// ackLine is what the device sends after completing a command.
const ackLine = "ok"

// Serial sends commands to a microcontroller over a serial line, one per
// line, and waits for an "ok" line after each:
//
//	press:X,Y,MS
//	swipe:X1,Y1;X2,Y2;...,MS
//
// Serial is safe for concurrent use; commands are serialized.
type Serial struct {
	mu     sync.Mutex
	port   io.ReadWriter
	reader *bufio.Reader
	closer io.Closer
}

// OpenSerial opens the named port (e.g. /dev/ttyACM0 or COM3). baud <= 0
// selects DefaultBaud.
func OpenSerial(name string, baud int, readTimeout time.Duration) (*Serial, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	log.Info().Str("port", name).Int("baud", baud).Msg("Serial actuator connected")
	s := NewSerial(port)
	s.closer = port
	return s, nil
}

// NewSerial speaks the protocol over an already open stream.
func NewSerial(rw io.ReadWriter) *Serial {
	return &Serial{port: rw, reader: bufio.NewReader(rw)}
}

// Close closes the underlying port when Serial opened it.
func (s *Serial) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Press implements matcher.Actuator.
func (s *Serial) Press(ctx context.Context, x, y int, d time.Duration) error {
	return s.send(ctx, fmt.Sprintf("press:%d,%d,%d", x, y, d.Milliseconds()))
}

// Swipe implements matcher.Actuator.
func (s *Serial) Swipe(ctx context.Context, path []imaging.Point, d time.Duration) error {
	if len(path) < 2 {
		return ErrShortPath
	}
	points := make([]string, len(path))
	for i, p := range path {
		points[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return s.send(ctx, fmt.Sprintf("swipe:%s,%d", strings.Join(points, ";"), d.Milliseconds()))
}

func (s *Serial) send(ctx context.Context, cmd string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.port, cmd+"\n"); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("waiting for reply to %q: %w", cmd, err)
	}
	if reply := strings.TrimSpace(line); reply != ackLine {
		return fmt.Errorf("%w: %q answered %q", ErrDevice, cmd, reply)
	}
	log.Debug().Str("command", cmd).Msg("Serial command acknowledged")
	return nil
}
