package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// ParseWebVTT reads cues from a WebVTT stream. Only cue timing and payload
// are interpreted; NOTE/STYLE blocks and cue settings are skipped. This is
// deliberately minimal: the overlay only needs the text blocks.
func ParseWebVTT(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty input")
	}
	header := strings.TrimPrefix(strings.TrimSpace(scanner.Text()), "\uFEFF")
	if !strings.HasPrefix(header, "WEBVTT") {
		return nil, fmt.Errorf("missing WEBVTT header")
	}

	var cues []Cue
	var cur *Cue
	inNote := false

	flush := func() {
		if cur != nil {
			cur.Text = strings.TrimSpace(cur.Text)
			if cur.Text != "" {
				cur.Index = len(cues) + 1
				cues = append(cues, *cur)
			}
			cur = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			inNote = false
			continue
		}
		if inNote {
			continue
		}
		if strings.HasPrefix(trimmed, "NOTE") || strings.HasPrefix(trimmed, "STYLE") || strings.HasPrefix(trimmed, "REGION") {
			inNote = true
			continue
		}

		if strings.Contains(trimmed, "-->") {
			start, end, err := parseTiming(trimmed)
			if err != nil {
				return nil, err
			}
			cur = &Cue{Start: start, End: end}
			continue
		}

		if cur != nil {
			if cur.Text != "" {
				cur.Text += "\n"
			}
			cur.Text += trimmed
		}
		// Anything else before a timing line is a cue identifier; ignored.
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cues, nil
}

// FormatWebVTT serializes cues back to WebVTT.
func FormatWebVTT(w io.Writer, cues []Cue) error {
	if _, err := fmt.Fprint(w, "WEBVTT\n\n"); err != nil {
		return err
	}
	for _, cue := range cues {
		_, err := fmt.Fprintf(w, "%s --> %s\n%s\n\n",
			formatTimestamp(cue.Start), formatTimestamp(cue.End), cue.Text)
		if err != nil {
			return err
		}
	}
	return nil
}

// parseTiming parses "00:00:01.000 --> 00:00:04.000" (cue settings after
// the end timestamp are ignored).
func parseTiming(line string) (time.Duration, time.Duration, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed timing line: %q", line)
	}

	start, err := parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}

	endField := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endField) == 0 {
		return 0, 0, fmt.Errorf("malformed timing line: %q", line)
	}
	end, err := parseTimestamp(endField[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp parses "hh:mm:ss.mmm" or "mm:ss.mmm".
func parseTimestamp(ts string) (time.Duration, error) {
	var h, m, s, ms int
	if n, _ := fmt.Sscanf(ts, "%d:%d:%d.%d", &h, &m, &s, &ms); n == 4 {
		return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second + time.Duration(ms)*time.Millisecond, nil
	}
	h = 0
	if n, _ := fmt.Sscanf(ts, "%d:%d.%d", &m, &s, &ms); n == 3 {
		return time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second + time.Duration(ms)*time.Millisecond, nil
	}
	return 0, fmt.Errorf("malformed timestamp: %q", ts)
}

func formatTimestamp(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
