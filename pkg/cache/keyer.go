package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ArtifactKeyOpts holds every render option that changes artifact bytes.
type ArtifactKeyOpts struct {
	Format      string
	ShowPitches bool
	Names       string // empty unless ShowPitches is set
	Labels      bool
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered artifact. rowHash
	// identifies the zero form of the row.
	ArtifactKey(rowHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the row hash and options.
func (DefaultKeyer) ArtifactKey(rowHash string, opts ArtifactKeyOpts) string {
	fields := []string{
		rowHash,
		opts.Format,
		strconv.FormatBool(opts.ShowPitches),
		opts.Names,
		strconv.FormatBool(opts.Labels),
	}
	// Unit separator: cannot occur in a format or table name.
	return "artifact:" + Hash([]byte(strings.Join(fields, "\x1f")))
}

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
