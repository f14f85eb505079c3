package hd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidPath is returned for a derivation path that cannot be parsed.
var ErrInvalidPath = errors.New("invalid derivation path")

// Prefix is the purpose / coin type pair every Solana account lives under.
const Prefix = "m/44'/501'"

const hardenedOffset = 0x80000000

// Segment is one level of a derivation path.
type Segment struct {
	Index    uint32
	Hardened bool
}

// Path is a derivation path relative to Prefix.
type Path []Segment

// ParsePath parses a path relative to Prefix, such as "0'/0'" or "3'/0/7".
// A leading Prefix is accepted and stripped.
func ParsePath(s string) (p Path, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, Prefix+"/")
	if s == "" || s == Prefix {
		return nil, errors.Wrap(ErrInvalidPath, "empty path")
	}
	for _, part := range strings.Split(s, "/") {
		var seg Segment
		if seg, err = parseSegment(part); err != nil {
			return nil, err
		}
		p = append(p, seg)
	}
	return
}

func parseSegment(part string) (seg Segment, err error) {
	digits := part
	if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H") {
		seg.Hardened = true
		digits = part[:len(part)-1]
	}
	if digits == "" || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return seg, errors.Wrapf(ErrInvalidPath, "segment %q is not a non-negative index", part)
	}
	n, err := strconv.ParseUint(digits, 10, 31)
	if err != nil {
		return seg, errors.Wrapf(ErrInvalidPath, "segment %q is not a 31-bit index", part)
	}
	seg.Index = uint32(n)
	return seg, nil
}

// AccountPath returns the default path of the account at index, "<index>'/0'".
func AccountPath(index int) (Path, error) {
	if index < 0 || int64(index) >= hardenedOffset {
		return nil, errors.Wrapf(ErrInvalidPath, "account index %d out of range", index)
	}
	return Path{{Index: uint32(index), Hardened: true}, {Index: 0, Hardened: true}}, nil
}

// String renders the full path including Prefix. ed25519 only has hardened
// children, so every segment is rendered hardened.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(Prefix)
	for _, seg := range p {
		sb.WriteByte('/')
		sb.WriteString(strconv.FormatUint(uint64(seg.Index), 10))
		sb.WriteByte('\'')
	}
	return sb.String()
}

// Account returns the index of the first segment.
func (p Path) Account() uint32 {
	if len(p) == 0 {
		return 0
	}
	return p[0].Index
}
