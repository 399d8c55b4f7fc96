package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Line is one record of shelf's log file.
type Line struct {
	Raw     string
	Time    time.Time
	Level   string // DEBUG, INFO, WARN, ERROR; empty when the line is not a record
	Message string
	Attrs   []Attr
}

// Attr is a key=value pair after the message.
type Attr struct {
	Key   string
	Value string
}

// Attr returns the value of key, if present.
func (l Line) Attr(key string) (string, bool) {
	for _, a := range l.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Read returns the last maxLines lines of the file at path, parsed. A
// non-positive maxLines reads every line. A missing file is empty.
func Read(path string, maxLines int) ([]Line, error) {
	raw, err := tail(path, maxLines)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, Parse(r))
	}
	return lines, nil
}

func tail(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return all, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Parse splits a slog text record ("time=… level=… msg=… k=v"). Lines that do
// not look like records keep only Raw and Message.
func Parse(raw string) Line {
	line := Line{Raw: raw}
	pairs, ok := splitPairs(raw)
	if !ok {
		line.Message = raw
		return line
	}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			if t, err := time.Parse(time.RFC3339Nano, p.Value); err == nil {
				line.Time = t
			}
		case "level":
			line.Level = strings.ToUpper(p.Value)
		case "msg":
			line.Message = p.Value
		default:
			line.Attrs = append(line.Attrs, p)
		}
	}
	if line.Level == "" {
		line.Message = raw
		line.Attrs = nil
	}
	return line
}

func splitPairs(s string) ([]Attr, bool) {
	var pairs []Attr
	rest := strings.TrimSpace(s)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, false
			}
			value, err = strconv.Unquote(quoted)
			if err != nil {
				return nil, false
			}
			rest = rest[len(quoted):]
		} else {
			end := strings.IndexByte(rest, ' ')
			if end < 0 {
				end = len(rest)
			}
			value = rest[:end]
			rest = rest[end:]
		}
		pairs = append(pairs, Attr{Key: key, Value: value})
		rest = strings.TrimLeft(rest, " ")
	}
	return pairs, len(pairs) > 0
}
