package http

import (
	"fmt"
	"strings"
)

// Version is the HTTP protocol version of a response.
type Version int

const (
	VersionUnknown Version = iota
	Version10
	Version11
	Version2
	Version3
)

var versionNames = map[Version]string{
	Version10: "HTTP/1.0",
	Version11: "HTTP/1.1",
	Version2:  "HTTP/2",
	Version3:  "HTTP/3",
}

func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return "HTTP"
}

// ParseVersion parses a protocol string such as "HTTP/1.1" or "HTTP/2.0".
func ParseVersion(s string) (Version, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HTTP":
		return VersionUnknown, nil
	case "HTTP/1.0":
		return Version10, nil
	case "HTTP/1.1":
		return Version11, nil
	case "HTTP/2", "HTTP/2.0":
		return Version2, nil
	case "HTTP/3", "HTTP/3.0":
		return Version3, nil
	}
	return VersionUnknown, fmt.Errorf("unknown HTTP version: %q", s)
}

// VersionFromProto maps net/http's ProtoMajor/ProtoMinor pair to a Version.
func VersionFromProto(major, minor int) Version {
	switch {
	case major == 1 && minor == 0:
		return Version10
	case major == 1:
		return Version11
	case major == 2:
		return Version2
	case major == 3:
		return Version3
	}
	return VersionUnknown
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(data []byte) error {
	parsed, err := ParseVersion(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
