package validators

import (
	"net"
	"strings"
)

// IsEmail applies a stricter check than the stock email rule: both parts must
// be present, the domain needs a dot-separated label structure, and
// consecutive dots are rejected on either side.
func IsEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > 254 {
		return false
	}

	at := strings.LastIndex(value, "@")
	if at <= 0 || at == len(value)-1 {
		return false
	}

	local, domain := value[:at], value[at+1:]
	if len(local) > 64 || strings.Contains(value, "..") {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			if !isAlnum(r) && r != '-' {
				return false
			}
		}
	}
	return true
}

// IsUUID accepts the canonical 8-4-4-4-12 form, versions 1 through 5, with
// an RFC 4122 variant nibble.
func IsUUID(value string) bool {
	if len(value) != 36 {
		return false
	}
	for i, r := range value {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			if !isHex(r) {
				return false
			}
		}
	}

	version := value[14]
	if version < '1' || version > '5' {
		return false
	}
	switch value[19] {
	case '8', '9', 'a', 'b', 'A', 'B':
		return true
	default:
		return false
	}
}

// IsIP accepts any valid IPv4 or IPv6 address.
func IsIP(value string) bool {
	return net.ParseIP(strings.TrimSpace(value)) != nil
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
