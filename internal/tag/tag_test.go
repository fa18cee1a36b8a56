package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag_KeyRoundTrip(t *testing.T) {
	tg := Tag{Class: TCPDstPort, Value: 443}
	key := tg.Key()
	assert.Equal(t, tg, FromKey(key))
}

func TestClass_WithProvider_RoundTrip(t *testing.T) {
	for _, base := range []Class{GeoContinent, GeoCountry, GeoRegion, PfxAsn, GeoAsnCouplet} {
		for p := Provider(0); p < ProviderCount; p++ {
			cls := base.WithProvider(p)
			gotBase, gotProvider, ok := cls.Base()
			assert.True(t, ok)
			assert.Equal(t, base, gotBase)
			assert.Equal(t, p, gotProvider)
		}
	}
}

func TestClass_Base_NonProviderScoped(t *testing.T) {
	_, _, ok := Combined.Base()
	assert.False(t, ok)
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "geo_country/maxmind", GeoCountry.WithProvider(Maxmind).String())
	assert.Equal(t, "combined", Combined.String())
}

func TestPackCC_And_PackGeoAsn(t *testing.T) {
	cc := PackCC('U', 'S')
	v := PackGeoAsn(cc, 13335)
	assert.Equal(t, uint32(13335), v&0x00FFFFFF)
}

func TestAllClasses_IndexRoundTrip(t *testing.T) {
	for i, c := range AllClasses() {
		assert.Equal(t, i, Index(c))
	}
	assert.Equal(t, -1, Index(Class(999999)))
}
