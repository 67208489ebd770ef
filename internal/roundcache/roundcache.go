// Package roundcache memoizes AnalysisResults by CFA structural
// fingerprint, backed by LevelDB, so a mutation round that revisits a
// shape already analyzed this session (common after a rollback) can
// short-circuit re-running the verifier. Opt-in: only a driver built with
// driver.WithRoundCache (cmd/cfamutate's -round-cache flag) touches this
// package.
//
// Key scheme (one prefix, values gob-encoded), adapted from the
// megram/index key-prefix convention used elsewhere in the corpus for a
// LevelDB-backed store:
//
//	fp|<fingerprint> → gob(analysis.AnalysisResult)
package roundcache

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/cfamutation/driver/analysis"
)

const keyPrefix = "fp|"

// Cache wraps a LevelDB instance rooted at the directory given to Open.
type Cache struct {
	db *leveldb.DB
}

// Open opens (or creates) the LevelDB database at dir.
func Open(dir string) (*Cache, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("roundcache: opening %s: %w", dir, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying LevelDB handle.
func (c *Cache) Close() error { return c.db.Close() }

// Lookup returns a previously cached result for fingerprint, and
// whether one was found. The CFA field of a returned result is nil: the
// CFA is not stored, since gob cannot round-trip the Expr interface
// values a CFA's edges may carry, so callers set it to the CFA of the
// current round before use.
func (c *Cache) Lookup(fingerprint string) (*analysis.AnalysisResult, bool) {
	data, err := c.db.Get([]byte(keyPrefix+fingerprint), nil)
	if err != nil {
		return nil, false
	}
	var stored storedResult
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&stored); err != nil {
		return nil, false
	}
	return stored.toResult(), true
}

// Store memoizes result under fingerprint, overwriting any prior entry.
func (c *Cache) Store(fingerprint string, result *analysis.AnalysisResult) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(fromResult(result)); err != nil {
		return fmt.Errorf("roundcache: encoding result for %s: %w", fingerprint, err)
	}
	if err := c.db.Put([]byte(keyPrefix+fingerprint), buf.Bytes(), nil); err != nil {
		return fmt.Errorf("roundcache: writing %s: %w", fingerprint, err)
	}
	return nil
}

// storedResult is AnalysisResult minus the CFA pointer (not
// gob-encodable in general, since cfa.Expr is an interface with
// unregistered concrete variants) plus the CapturedError flattened to
// value fields.
type storedResult struct {
	Verdict        int
	Target         string
	HasError       bool
	ErrorClass     string
	ErrorTopFrame  string
	ErrorCancelled bool
}

func fromResult(r *analysis.AnalysisResult) storedResult {
	s := storedResult{Verdict: int(r.Verdict), Target: r.Target}
	if r.Error != nil {
		s.HasError = true
		s.ErrorClass = r.Error.Class
		s.ErrorTopFrame = r.Error.TopFrame
		s.ErrorCancelled = r.Error.Cancelled
	}
	return s
}

func (s storedResult) toResult() *analysis.AnalysisResult {
	r := &analysis.AnalysisResult{Verdict: analysis.Verdict(s.Verdict), Target: s.Target}
	if s.HasError {
		r.Error = &analysis.CapturedError{Class: s.ErrorClass, TopFrame: s.ErrorTopFrame, Cancelled: s.ErrorCancelled}
	}
	return r
}
