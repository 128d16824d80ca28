package recordid

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind selects the prefix for a record id.
type Kind string

const (
	KindIdentity   Kind = "idn"
	KindPermission Kind = "prm"
	KindMemory     Kind = "mem"
	KindAutomation Kind = "aut"
	KindPortfolio  Kind = "pfl"
	KindEvent      Kind = "evt"
)

var (
	entropyOnce sync.Once
	entropyMu   sync.Mutex
	entropy     *ulid.MonotonicEntropy
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

// New returns a prefixed ULID string, e.g. idn_01h2xcejqtf2nbrexx3vqjhp41.
func New(kind Kind) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	entropyMu.Unlock()
	return string(kind) + "_" + strings.ToLower(id.String())
}

// IsValid reports whether value is a well-formed id of the given kind.
func IsValid(kind Kind, value string) bool {
	if !strings.HasPrefix(value, string(kind)+"_") {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the kind prefix and returns the embedded ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	idx := strings.IndexByte(value, '_')
	if idx < 0 {
		return ulid.ULID{}, fmt.Errorf("record id %q has no kind prefix", value)
	}
	return ulid.Parse(strings.ToUpper(value[idx+1:]))
}
