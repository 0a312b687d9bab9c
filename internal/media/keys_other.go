//go:build !linux && !darwin && !windows

package media

func keyCommand(string) (string, []string, error) {
	return "", nil, ErrUnsupported
}
