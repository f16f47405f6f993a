package core

import (
	"errors"
	"net"
	"os"
	"strconv"
)

func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// https://stackoverflow.com/a/12518877
func FileExists(filePath string) (bool, error) {
	if _, err := os.Stat(filePath); err == nil {
		return true, nil
	} else if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else {
		return false, err
	}
}

func Optional[T any](optional *T, defaulT T) T {
	if optional != nil {
		return *optional
	}
	return defaulT
}
