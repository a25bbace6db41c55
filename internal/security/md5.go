package security

import (
	"crypto/md5"
	"encoding/hex"
)

// MD5 is the processor's request digest. It is not used for anything but
// the request hash the processor verifies server-side.
type MD5 struct{}

func NewMD5() MD5 { return MD5{} }

func (MD5) Digest128(s string) (string, error) {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

var _ Digester = MD5{}
