package device

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// DefaultAdapter is the first DVB adapter on Linux.
const DefaultAdapter = "/dev/dvb/adapter0"

// ErrUnavailable is wrapped by every Check failure.
var ErrUnavailable = errors.New("dvb device unavailable")

// Endpoints are the device nodes of one DVB adapter.
type Endpoints struct {
	Frontend string
	Demux    string
	DVR      string
	// CA is the conditional access node. It may be absent.
	CA string
}

// AdapterEndpoints returns the node paths below an adapter directory.
func AdapterEndpoints(dir string) Endpoints {
	return Endpoints{
		Frontend: filepath.Join(dir, "frontend0"),
		Demux:    filepath.Join(dir, "demux0"),
		DVR:      filepath.Join(dir, "dvr0"),
		CA:       filepath.Join(dir, "ca0"),
	}
}

// Check verifies that the frontend, demux and DVR nodes exist and can be
// opened for reading and writing, and that the CA node is either missing
// or accessible too.
func Check(e Endpoints) error {
	for _, node := range []struct {
		name     string
		path     string
		required bool
	}{
		{"frontend", e.Frontend, true},
		{"demux", e.Demux, true},
		{"dvr", e.DVR, true},
		{"ca", e.CA, false},
	} {
		if err := checkNode(node.path, node.required); err != nil {
			log.Printf("Check: %s node rejected: %v", node.name, err)
			return fmt.Errorf("%w: %s: %v", ErrUnavailable, node.name, err)
		}
	}
	return nil
}

func checkNode(path string, required bool) error {
	if path == "" {
		if required {
			return errors.New("no path configured")
		}
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
