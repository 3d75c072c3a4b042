package channels

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SessionExt marks a media source produced by WriteSession.
const SessionExt = ".conf"

// ErrNoChannelList is returned by SelectList when no list can be chosen.
var ErrNoChannelList = errors.New("no channel list selected")

// Channel is one line of a channel list. Name is the text before the first
// ':'; Config is the whole line and is handed to the tuner untouched.
type Channel struct {
	Name   string
	Config string
}

// ParseLine turns a channel configuration line into a Channel. A line without
// ':' is named by the whole line.
func ParseLine(line string) Channel {
	name, _, _ := strings.Cut(line, ":")
	return Channel{Name: name, Config: line}
}

// Parse reads one channel per line, skipping blank lines and '#' comments.
func Parse(r io.Reader) ([]Channel, error) {
	var out []Channel
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, ParseLine(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("invalid channel configuration: %w", err)
	}
	return out, nil
}

// Load reads the channel list stored at path.
func Load(path string) ([]Channel, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("channel list %s is not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("Load: %d channels from %s", len(list), path)
	return list, nil
}

// ListConfigs returns the sorted names of the channel list files in dir.
// A missing directory yields an empty list.
func ListConfigs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// SelectList picks the channel list to show: the preferred one when it is
// available, otherwise the only list when exactly one exists.
func SelectList(preferred string, lists []string) (string, error) {
	if preferred != "" {
		for _, name := range lists {
			if name == preferred {
				return name, nil
			}
		}
	}
	if len(lists) == 1 {
		return lists[0], nil
	}
	return "", ErrNoChannelList
}

// WriteSession stores the channel configuration in dir so the decoder can be
// handed a file path. The caller removes the file when the session ends.
func WriteSession(dir string, ch Channel) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create session dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "channel-*"+SessionExt)
	if err != nil {
		return "", fmt.Errorf("failed to create session file: %w", err)
	}
	if _, err := f.WriteString(ch.Config + "\n"); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write session file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// ReadSession returns the channel stored by WriteSession.
func ReadSession(path string) (Channel, error) {
	list, err := Load(path)
	if err != nil {
		return Channel{}, err
	}
	if len(list) == 0 {
		return Channel{}, fmt.Errorf("%s: empty session", path)
	}
	return list[0], nil
}

// InputFor maps a media source to what the decoder opens. Channel sessions
// play from the adapter's DVR device once tuned; anything else is opened
// as given.
func InputFor(source, dvrPath string) string {
	if filepath.Ext(source) == SessionExt && dvrPath != "" {
		return dvrPath
	}
	return source
}

// Resolver returns an InputFor bound to dvrPath that logs which channel a
// session source plays.
func Resolver(dvrPath string) func(source string) string {
	return func(source string) string {
		input := InputFor(source, dvrPath)
		if input != source {
			if ch, err := ReadSession(source); err == nil {
				log.Printf("Resolver: %q plays from %s", ch.Name, input)
			}
		}
		return input
	}
}
