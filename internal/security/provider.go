package security

// Digester is the one-way digest contract used to sign processor requests.
// Implementations are either the in-process MD5 digester or an HSM backed one.
type Digester interface {
	// Digest128 returns the 128-bit digest of s as lowercase hex (32 chars).
	Digest128(s string) (string, error)
}
