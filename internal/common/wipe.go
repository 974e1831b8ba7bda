package common

// WipeByteArray overwrites b with zeros. Used to remove passwords from
// memory once they have been consumed. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
