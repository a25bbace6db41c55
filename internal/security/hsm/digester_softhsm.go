//go:build softhsm

package hsm

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/miekg/pkcs11"

	"github.com/alovak/bacgateway/internal/security"
)

// Digester computes the request digest inside a PKCS#11 token (SoftHSM in dev).
// Enabled with the softhsm build tag so default builds don't need the pkcs11 lib.
type Digester struct {
	libPath string
	slotID  uint
	pin     string

	mu   sync.Mutex
	p11  *pkcs11.Ctx
	sess pkcs11.SessionHandle
}

func NewDigester(libPath string, slotID uint, pin string) *Digester {
	return &Digester{libPath: libPath, slotID: slotID, pin: pin}
}

func (d *Digester) Open() error {
	d.p11 = pkcs11.New(d.libPath)
	if d.p11 == nil {
		return fmt.Errorf("load pkcs11 lib failed")
	}
	if err := d.p11.Initialize(); err != nil {
		return err
	}
	sess, err := d.p11.OpenSession(d.slotID, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		_ = d.p11.Finalize()
		return err
	}
	d.sess = sess
	if err := d.p11.Login(d.sess, pkcs11.CKU_USER, d.pin); err != nil {
		_ = d.p11.CloseSession(d.sess)
		_ = d.p11.Finalize()
		return err
	}
	return nil
}

func (d *Digester) Close() {
	if d.p11 != nil {
		if d.sess != 0 {
			_ = d.p11.Logout(d.sess)
			_ = d.p11.CloseSession(d.sess)
		}
		_ = d.p11.Finalize()
		d.p11.Destroy()
		d.p11 = nil
	}
}

// Digest128 runs CKM_MD5 on the token. A session handles one digest at a time.
func (d *Digester) Digest128(s string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.p11 == nil {
		return "", fmt.Errorf("pkcs11 session not open")
	}
	mech := []*pkcs11.Mechanism{pkcs11.NewMechanism(pkcs11.CKM_MD5, nil)}
	if err := d.p11.DigestInit(d.sess, mech); err != nil {
		return "", fmt.Errorf("digest init: %w", err)
	}
	sum, err := d.p11.Digest(d.sess, []byte(s))
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	if len(sum) != 16 {
		return "", fmt.Errorf("unexpected digest length %d", len(sum))
	}
	return hex.EncodeToString(sum), nil
}

var _ security.Digester = (*Digester)(nil)
