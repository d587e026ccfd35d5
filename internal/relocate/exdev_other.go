//go:build !unix

package relocate

// Windows reports cross-volume renames with its own error codes; treat any
// rename failure as a reason to fall back to copying.
func isEXDEV(err error) bool {
	return err != nil
}
