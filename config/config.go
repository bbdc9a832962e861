// Package config holds the typed configuration record recognized by
// communication-policy constructors (spec §6). It generalizes the
// teacher's fluent Set* builder calls into a single validated struct,
// since a Cage is constructed once and used synchronously rather than
// driven through an actor's command channel.
package config

import (
	"github.com/graybat-go/graybat/graybaterr"
)

// Config is the set of options a substrate may require at construction.
// Unknown combinations are rejected by Validate.
type Config struct {
	// PeerID is this process's rank, required when the substrate does
	// not self-assign one.
	PeerID int
	// PeerCount is the total number of peers, required when not
	// self-discovered.
	PeerCount int
	// EndpointURI addresses this peer for socket-based substrates.
	EndpointURI string
	// MasterURI is a rendez-vous address for substrates that need one.
	MasterURI string
}

// Default returns the single-peer, self-discovered configuration used by
// the in-process substrate.
func Default() Config {
	return Config{PeerID: 0, PeerCount: 1}
}

// Validate rejects structurally invalid configuration. PeerID and
// PeerCount, when given, must be non-negative and consistent with each
// other; PeerID must be below PeerCount.
func (c Config) Validate() error {
	if c.PeerCount < 0 {
		return graybaterr.ConfigInvalidf("peer_count must be non-negative, got %d", c.PeerCount)
	}
	if c.PeerID < 0 {
		return graybaterr.ConfigInvalidf("peer_id must be non-negative, got %d", c.PeerID)
	}
	if c.PeerCount > 0 && c.PeerID >= c.PeerCount {
		return graybaterr.ConfigInvalidf("peer_id %d out of range for peer_count %d", c.PeerID, c.PeerCount)
	}
	return nil
}
