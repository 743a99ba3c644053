package input

//go:generate go tool stringer -type=Key

// A Key is one of the 16 keys of the hexadecimal keypad.
type Key uint8

const (
	K0 Key = iota
	K1
	K2
	K3
	K4
	K5
	K6
	K7
	K8
	K9
	KA
	KB
	KC
	KD
	KE
	KF

	NumKeys = 16
)

// KeyByName returns the keypad key with the given name ("K0" to "KF").
func KeyByName(name string) (Key, bool) {
	for k := K0; k <= KF; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
