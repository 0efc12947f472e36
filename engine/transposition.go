package engine

import (
	gm "mallard-engine/mallardmg"
)

// Transposition table. Entries live in small clusters; storing into a full
// cluster replaces the shallowest entry, so deep results survive longer.
// Mate scores are normalized to be relative to the probing node, not the
// root, on both store and probe.

const (
	// Bound kinds for stored scores.
	ttFlagExact = iota
	ttFlagAlpha // score is an upper bound (failed low)
	ttFlagBeta  // score is a lower bound (failed high)
)

const ttClusterSize = 4

type ttEntry struct {
	hash  uint64
	move  gm.Move
	score int32
	depth int8
	flag  uint8
}

type ttCluster struct {
	entries [ttClusterSize]ttEntry
}

// TransTable is a fixed-size hash-indexed cache of search results. It is not
// safe for concurrent use; each search owns its table.
type TransTable struct {
	clusters []ttCluster
}

// NewTransTable allocates a table of roughly sizeMB megabytes.
func NewTransTable(sizeMB int) *TransTable {
	bytes := uint64(sizeMB) * 1024 * 1024
	n := Max(bytes/uint64(ttClusterSize*16), 1)
	return &TransTable{clusters: make([]ttCluster, n)}
}

// Clear wipes all entries, e.g. on ucinewgame.
func (tt *TransTable) Clear() {
	for i := range tt.clusters {
		tt.clusters[i] = ttCluster{}
	}
}

// Probe looks up a position. It returns the stored move for ordering
// regardless of depth, and (score, true) only when the stored entry is deep
// enough and its bound kind resolves against the current window.
func (tt *TransTable) Probe(hash uint64, depth, ply int, alpha, beta int32) (gm.Move, int32, bool) {
	cluster := &tt.clusters[hash%uint64(len(tt.clusters))]
	for i := range cluster.entries {
		e := &cluster.entries[i]
		if e.hash != hash {
			continue
		}
		if int(e.depth) < depth {
			return e.move, 0, false
		}
		score := scoreFromTT(e.score, ply)
		switch e.flag {
		case ttFlagExact:
			return e.move, score, true
		case ttFlagAlpha:
			if score <= alpha {
				return e.move, alpha, true
			}
		case ttFlagBeta:
			if score >= beta {
				return e.move, beta, true
			}
		}
		return e.move, 0, false
	}
	return gm.NoMove, 0, false
}

// Store records a search result, replacing the shallowest entry when the
// cluster has no slot for this hash.
func (tt *TransTable) Store(hash uint64, move gm.Move, score int32, depth, ply int, flag uint8) {
	cluster := &tt.clusters[hash%uint64(len(tt.clusters))]
	victim := &cluster.entries[0]
	for i := range cluster.entries {
		e := &cluster.entries[i]
		if e.hash == hash || e.hash == 0 {
			victim = e
			break
		}
		if e.depth < victim.depth {
			victim = e
		}
	}
	*victim = ttEntry{
		hash:  hash,
		move:  move,
		score: scoreToTT(score, ply),
		depth: int8(depth),
		flag:  flag,
	}
}

// scoreToTT converts a root-relative mate score to a node-relative one
// before storing.
func scoreToTT(score int32, ply int) int32 {
	if score > MateThreshold {
		return score + int32(ply)
	}
	if score < -MateThreshold {
		return score - int32(ply)
	}
	return score
}

// scoreFromTT converts a stored node-relative mate score back to
// root-relative on probe.
func scoreFromTT(score int32, ply int) int32 {
	if score > MateThreshold {
		return score - int32(ply)
	}
	if score < -MateThreshold {
		return score + int32(ply)
	}
	return score
}
