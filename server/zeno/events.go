package zeno

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

const maxEventSize = 64 * 1024

type event struct {
	Name string
	Data string
}

// readEvents decodes a text/event-stream body, calling handle for every
// dispatched event. A "retry" field updates *retry. It returns when r is
// exhausted or fails.
func readEvents(r io.Reader, retry *time.Duration, handle func(event)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxEventSize)

	var (
		name string
		data []string
	)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if len(data) > 0 {
				handle(event{Name: name, Data: strings.Join(data, "\n")})
			}
			name = ""
			data = data[:0]
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 && retry != nil {
				*retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
	return scanner.Err()
}
