// Package cache keeps routing results in a badger store, keyed by a
// fingerprint of the mesh and the routing variant, so re-running a design on
// an unchanged mesh skips the trail search.
package cache

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v3"
	"github.com/gogo/protobuf/proto"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"

	"github.com/jjtimmons/vhelix/internal/mesh"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.cache")
}

var (
	// ErrMiss means no entry is stored under the key.
	ErrMiss = errors.New("route not cached")

	// ErrCorrupt means a stored value could not be decoded.
	ErrCorrupt = errors.New("corrupt cache entry")
)

// encoding version, bumped when the value layout changes
const version = 1

var keyPrefix = []byte("route/")

// Entry is a cached routing result.
type Entry struct {
	Variant string
	Found   bool
	Reason  string

	// Trails are closed node trails, one for an A-trail
	Trails [][]int

	// Edges is the edge trail, empty for scaffold free routes
	Edges []int
}

// Cache is an open route store.
type Cache struct {
	db *badger.DB
}

// Open opens the store at path, or an in-memory store if path is empty.
func Open(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.DetectConflicts = false
	opts.MetricsEnabled = false
	if path == "" {
		opts.InMemory = true
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening route cache %q", path)
	}
	tracer().Debugf("route cache opened (in memory: %v)", opts.InMemory)
	return &Cache{db: db}, nil
}

// Close flushes and closes the store.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key fingerprints the mesh geometry and the routing variant.
func Key(m *mesh.Mesh, variant string) []byte {
	h := xxhash.New()
	var buf [8]byte
	word := func(x uint64) {
		binary.LittleEndian.PutUint64(buf[:], x)
		h.Write(buf[:])
	}

	h.WriteString(variant)
	word(uint64(len(m.Vertices)))
	for _, v := range m.Vertices {
		word(math.Float64bits(v.X))
		word(math.Float64bits(v.Y))
		word(math.Float64bits(v.Z))
	}
	word(uint64(len(m.Faces)))
	for _, f := range m.Faces {
		word(uint64(len(f)))
		for _, v := range f {
			word(uint64(v))
		}
	}
	word(uint64(len(m.Edges)))
	for _, e := range m.Edges {
		word(uint64(e[0]))
		word(uint64(e[1]))
	}

	key := append([]byte(nil), keyPrefix...)
	return binary.BigEndian.AppendUint64(key, h.Sum64())
}

// Put stores e under key, replacing what was there.
func (c *Cache) Put(key []byte, e *Entry) error {
	val := encode(e)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Get returns the entry under key or ErrMiss.
func (c *Cache) Get(key []byte) (*Entry, error) {
	var e *Entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrMiss
		} else if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			e, err = decode(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes the entry under key, if any.
func (c *Cache) Delete(key []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func encode(e *Entry) []byte {
	b := proto.NewBuffer(nil)
	ints := func(xs []int) {
		b.EncodeVarint(uint64(len(xs)))
		for _, x := range xs {
			b.EncodeVarint(uint64(x))
		}
	}

	b.EncodeVarint(version)
	b.EncodeStringBytes(e.Variant)
	found := uint64(0)
	if e.Found {
		found = 1
	}
	b.EncodeVarint(found)
	b.EncodeStringBytes(e.Reason)
	b.EncodeVarint(uint64(len(e.Trails)))
	for _, t := range e.Trails {
		ints(t)
	}
	ints(e.Edges)
	return b.Bytes()
}

func decode(val []byte) (*Entry, error) {
	b := proto.NewBuffer(val)
	var err error
	next := func() int {
		if err != nil {
			return 0
		}
		var x uint64
		x, err = b.DecodeVarint()
		return int(x)
	}
	ints := func() []int {
		n := next()
		if err != nil || n > len(val) {
			err = ErrCorrupt
			return nil
		}
		xs := make([]int, n)
		for i := range xs {
			xs[i] = next()
		}
		return xs
	}
	str := func() string {
		if err != nil {
			return ""
		}
		var s string
		s, err = b.DecodeStringBytes()
		return s
	}

	if v := next(); err == nil && v != version {
		return nil, errors.Wrapf(ErrCorrupt, "version %d", v)
	}
	e := &Entry{}
	e.Variant = str()
	e.Found = next() == 1
	e.Reason = str()
	n := next()
	if err == nil && n > len(val) {
		err = ErrCorrupt
	}
	for i := 0; err == nil && i < n; i++ {
		e.Trails = append(e.Trails, ints())
	}
	e.Edges = ints()
	if err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if len(e.Edges) == 0 {
		e.Edges = nil
	}
	return e, nil
}
