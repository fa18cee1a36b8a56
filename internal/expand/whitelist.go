package expand

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nettelescope/reportcore/internal/tag"
)

// GeoAsnWhitelist restricts which (country, asn) couplets the geo_asn class
// emits, loaded from the configured geoasn_whitelist_file. A nil whitelist allows every
// couplet.
type GeoAsnWhitelist struct {
	allowed map[uint32]struct{} // key: tag.PackGeoAsn(country, asn)
}

// Allows reports whether the (country, asn) couplet may be tagged. A nil
// receiver allows everything.
func (w *GeoAsnWhitelist) Allows(countryCC, asn uint32) bool {
	if w == nil {
		return true
	}
	_, ok := w.allowed[tag.PackGeoAsn(countryCC, asn)]
	return ok
}

// LoadGeoAsnWhitelist reads a whitelist file of "CC ASN" lines, one per
// couplet, blank lines and "#"-prefixed comments ignored.
func LoadGeoAsnWhitelist(path string) (*GeoAsnWhitelist, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("expand: open geoasn whitelist: %w", err)
	}
	defer f.Close()

	w := &GeoAsnWhitelist{allowed: make(map[uint32]struct{})}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("expand: malformed whitelist line %q", line)
		}
		cc := strings.ToUpper(fields[0])
		if len(cc) != 2 {
			return nil, fmt.Errorf("expand: malformed country code %q", fields[0])
		}
		asn, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("expand: malformed asn %q: %w", fields[1], err)
		}
		packedCC := tag.PackCC(cc[0], cc[1])
		w.allowed[tag.PackGeoAsn(packedCC, uint32(asn))] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("expand: read geoasn whitelist: %w", err)
	}
	return w, nil
}
