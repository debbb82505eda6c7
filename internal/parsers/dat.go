package parsers

import (
	"bufio"
	"io"
	"strings"
)

// readDATSerials reads a clrmamepro DAT and returns game name -> serial for
// every game block that carries both. The first serial seen for a name is
// kept. Lines inside rom ( ... ) sections are ignored.
func readDATSerials(r io.Reader, into map[string]string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		inGame bool
		inRom  bool
		name   string
		serial string
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "game ("):
			inGame, inRom = true, false
			name, serial = "", ""
		case strings.HasPrefix(line, "rom ("):
			inRom = !strings.HasSuffix(line, ")")
		case line == ")":
			if inRom {
				inRom = false
				continue
			}
			if inGame && name != "" && serial != "" {
				if _, exists := into[name]; !exists {
					into[name] = serial
				}
			}
			inGame = false
		case !inRom && inGame:
			if strings.HasPrefix(line, "name") {
				if v, ok := quotedValue(line); ok {
					name = v
				}
			} else if strings.HasPrefix(line, "serial") {
				if v, ok := quotedValue(line); ok {
					serial = v
				}
			}
		}
	}
	return scanner.Err()
}

// quotedValue returns the text between the first and last double quote.
func quotedValue(line string) (string, bool) {
	first := strings.Index(line, `"`)
	last := strings.LastIndex(line, `"`)
	if first < 0 || last <= first {
		return "", false
	}
	return line[first+1 : last], true
}
