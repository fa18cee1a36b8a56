package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nettelescope/reportcore/internal/config"
	"github.com/nettelescope/reportcore/internal/tag"
	"github.com/nettelescope/reportcore/internal/transport"
	"github.com/nettelescope/reportcore/internal/wire"
)

func testConfig() *config.Config {
	return &config.Config{
		SrcIPCounting: config.IPCountingConfig{Method: config.CountAll, PrefixBits: 32},
		DstIPCounting: config.IPCountingConfig{Method: config.CountAll, PrefixBits: 32},
	}
}

func TestTracker_FinalizesOnlyAfterAllProcessorsReport(t *testing.T) {
	tr := New(0, 2, testConfig(), transport.NewInbox(16))

	tr.applyUpdate(&wire.Message{
		Header: wire.Header{Type: wire.MsgUpdate, Sender: 0, Timestamp: 100},
		Body: []wire.IPUpdate{{
			IP: 1, Role: wire.RoleSrc, Bytes: 100, Packets: 1,
			Tags: []wire.TagUpdate{{Key: tag.Tag{Class: tag.Combined}.Key(), Bytes: 100, Packets: 1}},
		}},
	})

	t.Run("before-any-interval-report", func(t *testing.T) {
		_, ok := tr.TryTakeComplete()
		assert.False(t, ok)
	})

	tr.applyIntervalEnd(100, 0)
	_, ok := tr.TryTakeComplete()
	assert.False(t, ok, "should not finalize until processor 1 also reports")

	tr.applyIntervalEnd(100, 1)
	fi, ok := tr.TryTakeComplete()
	require.True(t, ok)
	assert.Equal(t, uint32(100), fi.Timestamp)
	assert.False(t, fi.Partial)

	tally := fi.Tallies[tag.Tag{Class: tag.Combined}.Key()]
	require.NotNil(t, tally)
	assert.Equal(t, uint64(100), tally.Bytes)
	assert.Equal(t, 1, tally.SrcIPCount())
}

func TestTracker_LastCompleteMonotonic(t *testing.T) {
	tr := New(0, 1, testConfig(), transport.NewInbox(16))

	tr.applyIntervalEnd(100, 0)
	first, ok := tr.TryTakeComplete()
	require.True(t, ok)
	assert.Equal(t, uint32(100), first.Timestamp)

	tr.applyIntervalEnd(200, 0)
	second, ok := tr.TryTakeComplete()
	require.True(t, ok)
	assert.GreaterOrEqual(t, second.Timestamp, first.Timestamp)
}

func TestTracker_HaltMarksRemainingIntervalsPartial(t *testing.T) {
	tr := New(0, 2, testConfig(), transport.NewInbox(16))

	tr.applyUpdate(&wire.Message{
		Header: wire.Header{Type: wire.MsgUpdate, Sender: 0, Timestamp: 100},
		Body: []wire.IPUpdate{{
			IP: 1, Role: wire.RoleSrc, Bytes: 10, Packets: 1,
			Tags: []wire.TagUpdate{{Key: tag.Tag{Class: tag.Combined}.Key(), Bytes: 10, Packets: 1}},
		}},
	})
	tr.applyIntervalEnd(100, 0)
	tr.applyHalt(1)

	fi, ok := tr.TryTakeComplete()
	require.True(t, ok)
	assert.True(t, fi.Partial)
}

func TestTracker_SeqGapDetected(t *testing.T) {
	tr := New(0, 1, testConfig(), transport.NewInbox(16))

	tr.handle(&wire.Message{Header: wire.Header{Type: wire.MsgInterval, Sender: 0, Timestamp: 1, Seqno: 0}})
	assert.Equal(t, uint64(0), tr.seqGaps.Load())

	tr.handle(&wire.Message{Header: wire.Header{Type: wire.MsgInterval, Sender: 0, Timestamp: 2, Seqno: 5}})
	assert.Equal(t, uint64(1), tr.seqGaps.Load())
}

func TestTracker_SrcAsnCountDedupsAcrossIPs(t *testing.T) {
	tr := New(0, 1, testConfig(), transport.NewInbox(16))

	key := tag.Tag{Class: tag.Combined}.Key()
	tr.applyUpdate(&wire.Message{
		Header: wire.Header{Type: wire.MsgUpdate, Timestamp: 100},
		Body: []wire.IPUpdate{
			{IP: 1, SrcASN: 64512, Role: wire.RoleSrc, Bytes: 10, Packets: 1,
				Tags: []wire.TagUpdate{{Key: key, Bytes: 10, Packets: 1}}},
			{IP: 2, SrcASN: 64512, Role: wire.RoleSrc, Bytes: 10, Packets: 1,
				Tags: []wire.TagUpdate{{Key: key, Bytes: 10, Packets: 1}}},
			{IP: 3, SrcASN: 64513, Role: wire.RoleSrc, Bytes: 10, Packets: 1,
				Tags: []wire.TagUpdate{{Key: key, Bytes: 10, Packets: 1}}},
		},
	})
	tr.applyIntervalEnd(100, 0)
	fi, ok := tr.TryTakeComplete()
	require.True(t, ok)
	tally := fi.Tallies[key]
	require.NotNil(t, tally)
	assert.Equal(t, 3, tally.SrcIPCount())
	assert.Equal(t, 2, tally.SrcAsnCount())
}

func TestTracker_DstRoleDoesNotChargeBytes(t *testing.T) {
	tr := New(0, 1, testConfig(), transport.NewInbox(16))

	key := tag.Tag{Class: tag.Combined}.Key()
	tr.applyUpdate(&wire.Message{
		Header: wire.Header{Type: wire.MsgUpdate, Timestamp: 100},
		Body: []wire.IPUpdate{{
			IP: 2, Role: wire.RoleDst,
			Tags: []wire.TagUpdate{{Key: key, Bytes: 999, Packets: 999}},
		}},
	})
	tr.applyIntervalEnd(100, 0)
	fi, ok := tr.TryTakeComplete()
	require.True(t, ok)
	tally := fi.Tallies[key]
	require.NotNil(t, tally)
	assert.Equal(t, uint64(0), tally.Bytes)
	assert.Equal(t, 1, tally.DstIPCount())
}
