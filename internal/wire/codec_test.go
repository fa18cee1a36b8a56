package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nettelescope/reportcore/internal/tag"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	msg := &Message{
		Header: Header{Type: MsgUpdate, Sender: 3, Timestamp: 1690000000, Seqno: 42},
		Body: []IPUpdate{
			{
				IP: 0xC0A80101, Role: RoleSrc, Bytes: 1500, Packets: 1,
				Tags: []TagUpdate{
					{Key: tag.Tag{Class: tag.Combined}.Key(), Bytes: 1500, Packets: 1},
					{
						Key:        tag.Tag{Class: tag.GeoAsnCouplet.WithProvider(tag.Maxmind), Value: 123}.Key(),
						Bytes:      1500,
						Packets:    1,
						Associated: []tag.Ref{{Class: tag.GeoCountry.WithProvider(tag.Maxmind), Value: 1}},
					},
				},
			},
		},
	}

	data, err := Encode(msg)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestMsgType_String(t *testing.T) {
	assert.Equal(t, "UPDATE", MsgUpdate.String())
	assert.Equal(t, "HALT", MsgHalt.String())
	assert.Equal(t, "UNKNOWN", MsgType(99).String())
}
