package rtl8139

import (
	"errors"
	"fmt"
)

// ErrVerifyMismatch is returned when the register does not hold the policy
// after Init.
var ErrVerifyMismatch = errors.New("rtl8139: receive config readback mismatch")

// readbackMask covers the bits software controls.
const readbackMask = ^(RxConfigReserved | EEPROM9356)

// InitAndVerify runs Init and reads the register back. Reserved bits and
// the read-only EEPROM select bit are ignored in the comparison.
func InitAndVerify(r *RxConfigRegister) error {
	r.Init()
	got := r.Config()
	if got&readbackMask != InitPolicy&readbackMask {
		return fmt.Errorf("%w at %s: got %s (%s), want %s (%s)", ErrVerifyMismatch,
			hex32(r.Address()), hex32(uint32(got)), got, hex32(uint32(InitPolicy)), InitPolicy)
	}
	return nil
}
