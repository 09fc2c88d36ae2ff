package api

import "fmt"

// Scope is how much of the source a view reads.
type Scope int

const (
	// FullScan reads every batch of the source.
	FullScan Scope = iota
	// FirstBatchOnly reads only the first batch. The result describes
	// at most ChunkSize rows, not the whole source.
	FirstBatchOnly
)

func (s Scope) String() string {
	switch s {
	case FullScan:
		return "full"
	case FirstBatchOnly:
		return "first"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scope) UnmarshalText(text []byte) error {
	v, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseScope parses "full" or "first".
func ParseScope(s string) (Scope, error) {
	switch s {
	case "full", "fullscan", "full-scan":
		return FullScan, nil
	case "first", "firstbatch", "first-batch":
		return FirstBatchOnly, nil
	}
	return 0, fmt.Errorf("unknown scope %q", s)
}
