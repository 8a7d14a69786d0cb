package envelope

// AuthorizationEntry is a per-invocation credential tied to one signing
// identity. It is valid only within the time bounds of the envelope that
// produced it: rebuilding the envelope invalidates previously signed
// entries.
type AuthorizationEntry struct {
	Signer     string `json:"signer"`
	ContractID string `json:"contract_id"`
	Method     string `json:"method"`
	Nonce      uint64 `json:"nonce"`
	ValidUntil int64  `json:"valid_until"` // MaxTime of the producing envelope
	Signature  []byte `json:"signature,omitempty"`
}

// Signed reports whether the entry carries a signature.
func (a AuthorizationEntry) Signed() bool {
	return len(a.Signature) > 0
}

// ValidFor reports whether the entry is still tied to the envelope's
// time bounds.
func (a AuthorizationEntry) ValidFor(e *Envelope) bool {
	return a.ValidUntil == e.TimeBounds.MaxTime
}

// AuthSource is the subset of a simulation result the resolver needs.
// Different call paths populate different locations: generated bindings
// report entries at the top level, manual construction reports them per
// operation. Both must be checked.
type AuthSource interface {
	TopLevelAuth() []AuthorizationEntry
	OperationAuth() [][]AuthorizationEntry
}

// ExtractRequiredAuth collects every authorization entry a simulation
// reports, checking the top-level field first and then each
// per-operation field. Duplicate entries (same signer and nonce) are
// returned once. An empty result means only the outer envelope needs
// signing.
func ExtractRequiredAuth(sim AuthSource) []AuthorizationEntry {
	if sim == nil {
		return nil
	}

	type key struct {
		signer string
		nonce  uint64
	}
	seen := make(map[key]bool)
	var entries []AuthorizationEntry

	add := func(list []AuthorizationEntry) {
		for _, entry := range list {
			k := key{signer: entry.Signer, nonce: entry.Nonce}
			if seen[k] {
				continue
			}
			seen[k] = true
			entries = append(entries, entry)
		}
	}

	add(sim.TopLevelAuth())
	for _, opAuth := range sim.OperationAuth() {
		add(opAuth)
	}
	return entries
}
