package logger

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// GelfWriter turns slog JSON records into GELF 1.1 messages sent over UDP.
// Each Write call carries exactly one record.
type GelfWriter struct {
	conn     net.Conn
	hostname string
	service  string
}

// NewGelfWriter dials addr (e.g. "172.17.0.1:12201").
func NewGelfWriter(addr, service string) (*GelfWriter, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service
	}

	return &GelfWriter{conn: conn, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. It never fails the log call; undeliverable
// messages are dropped.
func (w *GelfWriter) Write(p []byte) (int, error) {
	msg := gelfMessage(p, w.hostname, w.service, time.Now())
	payload, err := json.Marshal(msg)
	if err != nil {
		return len(p), nil
	}
	_, _ = w.conn.Write(payload)
	return len(p), nil
}

// Close releases the UDP socket.
func (w *GelfWriter) Close() error {
	return w.conn.Close()
}

func gelfMessage(record []byte, hostname, service string, now time.Time) map[string]any {
	msg := map[string]any{
		"version":   "1.1",
		"host":      hostname,
		"timestamp": float64(now.UnixNano()) / 1e9,
		"level":     6, // informational
		"_service":  service,
	}

	var fields map[string]any
	if err := json.Unmarshal(record, &fields); err != nil {
		msg["short_message"] = strings.TrimRight(string(record), "\n")
		return msg
	}

	if m, ok := fields["msg"].(string); ok {
		msg["short_message"] = m
	}
	if lvl, ok := fields["level"].(string); ok {
		msg["level"] = syslogLevel(lvl)
	}
	for k, v := range fields {
		switch k {
		case "msg", "level", "time":
			continue
		case "id":
			k = "record_id" // _id is reserved by GELF
		}
		msg["_"+k] = v
	}
	return msg
}

func syslogLevel(level string) int {
	switch {
	case strings.HasPrefix(level, "ERROR"):
		return 3
	case strings.HasPrefix(level, "WARN"):
		return 4
	case strings.HasPrefix(level, "DEBUG"):
		return 7
	default:
		return 6
	}
}
