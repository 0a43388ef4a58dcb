// Package compress holds the codecs used for cached payloads. Exported
// files and repository status snapshots are compressed before they hit
// the cache backend.
package compress

// Compress encodes byte payloads for storage.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

type Nop struct {
}

func NewNop() Nop {
	return Nop{}
}

func (n Nop) Encode(data []byte) ([]byte, error) {
	return data, nil
}

func (n Nop) Decode(data []byte) ([]byte, error) {
	return data, nil
}
